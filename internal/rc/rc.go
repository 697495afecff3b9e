// Package rc reads the metadata of a resource container: the language and
// title declared in its manifest.yaml.
package rc

import (
	"fmt"
	"path/filepath"

	"txsite/internal/util"
)

// ManifestFile is the name of the resource container manifest inside a package directory.
const ManifestFile = "manifest.yaml"

// BibleResourceTypes maps every Bible-family resource type to its display name.
var BibleResourceTypes = map[string]string{
	"bible": "Bible",
	"reg":   "Regular",
	"udb":   "Unlocked Dynamic Bible",
	"ulb":   "Unlocked Literal Bible",
}

// IsBibleType reports whether t is one of the Bible-family resource types.
func IsBibleType(t string) bool {
	_, ok := BibleResourceTypes[t]
	return ok
}

// Metadata is the read-only view of a content package the templater needs.
type Metadata interface {
	LanguageCode() string
	LanguageTitle() string
	LanguageDirection() string
	Title() string
}

type manifest struct {
	DublinCore struct {
		Type       string `yaml:"type"`
		Identifier string `yaml:"identifier"`
		Title      string `yaml:"title"`
		Language   struct {
			Identifier string `yaml:"identifier"`
			Title      string `yaml:"title"`
			Direction  string `yaml:"direction"`
		} `yaml:"language"`
	} `yaml:"dublin_core"`
}

// Container is the metadata of one resource container directory.
type Container struct {
	Dir        string
	Identifier string
	Type       string
	title      string
	langCode   string
	langTitle  string
	langDir    string
}

// Load reads dir/manifest.yaml. A missing manifest yields an empty, left-to-right container.
func Load(dir string) (*Container, error) {
	var m manifest
	if _, err := util.LoadYAML(filepath.Join(dir, ManifestFile), &m); err != nil {
		return nil, fmt.Errorf("failed to load resource container: %w", err)
	}
	dc := m.DublinCore
	c := &Container{
		Dir:        dir,
		Identifier: dc.Identifier,
		Type:       dc.Type,
		title:      dc.Title,
		langCode:   dc.Language.Identifier,
		langTitle:  dc.Language.Title,
		langDir:    dc.Language.Direction,
	}
	if c.langDir == "" {
		c.langDir = "ltr"
	}
	return c, nil
}

func (c *Container) LanguageCode() string      { return c.langCode }
func (c *Container) LanguageTitle() string     { return c.langTitle }
func (c *Container) LanguageDirection() string { return c.langDir }
func (c *Container) Title() string             { return c.title }

// Static is Metadata with fixed values.
type Static struct {
	Code      string
	Language  string
	Direction string
	Resource  string
}

func (s Static) LanguageCode() string      { return s.Code }
func (s Static) LanguageTitle() string     { return s.Language }
func (s Static) LanguageDirection() string { return s.Direction }
func (s Static) Title() string             { return s.Resource }

package templater

import (
	"fmt"
	"path/filepath"
	"strings"

	"txsite/internal/util"
)

// TOC is the table of contents stored next to a fragment as <stem>-toc.yaml.
type TOC struct {
	Sections []Section `yaml:"sections"`
}

// Section is one TOC node. Link is the anchor id inside the page; when empty
// a synthetic id is assigned while building navigation.
type Section struct {
	Title    string    `yaml:"title"`
	Link     string    `yaml:"link,omitempty"`
	Sections []Section `yaml:"sections,omitempty"`
}

// tocNode is a Section with its anchor resolved.
type tocNode struct {
	Link     string
	Title    string
	Children []tocNode
}

// TOCPath returns the TOC file that belongs to the fragment at path.
func TOCPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "-toc.yaml"
}

// LoadTOC reads the TOC of the fragment at path. It returns nil without error
// when the fragment has none.
func LoadTOC(path string) (*TOC, error) {
	tocPath := TOCPath(path)
	var toc TOC
	found, err := util.LoadYAML(tocPath, &toc)
	if err != nil {
		return nil, newError(ParseError, tocPath, err)
	}
	if !found {
		return nil, nil
	}
	return &toc, nil
}

// assignAnchors resolves the anchor of every section in pre-order. Sections
// without a link get "section-container-N", N starting at next. It returns
// the resolved nodes and the next unused N.
func assignAnchors(sections []Section, next int) ([]tocNode, int) {
	nodes := make([]tocNode, 0, len(sections))
	for _, s := range sections {
		node := tocNode{Link: s.Link, Title: s.Title}
		if node.Link == "" {
			node.Link = fmt.Sprintf("section-container-%d", next)
			next++
		}
		node.Children, next = assignAnchors(s.Sections, next)
		nodes = append(nodes, node)
	}
	return nodes, next
}

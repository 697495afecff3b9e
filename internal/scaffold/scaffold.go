package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"txsite/internal/config"
	"txsite/internal/rc"
	"txsite/internal/templater"
)

// CreateNewSite writes a starter project for resourceType into dir: config,
// site template, manifest, sample content and a stylesheet.
func CreateNewSite(dir, resourceType string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if resourceType == "" {
		resourceType = "bible"
	}
	if _, err := os.Stat(filepath.Join(dir, configFileName)); err == nil {
		return fmt.Errorf("%s already contains %s", dir, configFileName)
	}
	logger.Info("Scaffolding new site", "dir", dir, "resource_type", resourceType)

	for _, d := range []string{"content", "static/css", "templates", "archetypes"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}

	cfgText, err := execute(configTemplate, struct{ ResourceType string }{resourceType})
	if err != nil {
		return err
	}
	manifestText, err := execute(manifestTemplate, struct{ ResourceType, Title string }{resourceType, resourceTitle(resourceType)})
	if err != nil {
		return err
	}

	files := map[string]string{
		configFileName:                cfgText,
		"templates/project-page.html": projectPageTemplate,
		"static/css/style.css":        staticCSSContent,
		"archetypes/default.md":       archetypeDefaultMdContent,
		"content/" + rc.ManifestFile:  manifestText,
	}
	for name, content := range sampleContent(resourceType) {
		files["content/"+name] = content
	}
	for path, content := range files {
		if err := os.WriteFile(filepath.Join(dir, path), []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", path, err)
		}
	}
	logger.Info("Site scaffolded", "next", "cd "+dir+" && txsite build")
	return nil
}

// CreateNewContent writes a markdown source for title into the configured
// source directory using archetypes/default.md.
func CreateNewContent(title, configPath string) (string, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return "", err
	}
	slug := Slugify(title)
	if slug == "" {
		return "", errors.New("title produces an empty file name")
	}
	path := filepath.Join(cfg.Source, slug+".md")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}

	archetypePath := filepath.Join(filepath.Dir(configPath), "archetypes", "default.md")
	tmplBytes, err := os.ReadFile(archetypePath)
	if err != nil {
		return "", fmt.Errorf("could not read archetype file %s: %w", archetypePath, err)
	}
	tmpl, err := template.New("archetype").Parse(string(tmplBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse archetype file %s: %w", archetypePath, err)
	}
	content, err := execute(tmpl, struct{ Title string }{title})
	if err != nil {
		return "", fmt.Errorf("failed to execute archetype template: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases title and joins its words with hyphens.
func Slugify(title string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
}

func execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func resourceTitle(resourceType string) string {
	if name, ok := rc.BibleResourceTypes[resourceType]; ok {
		return name
	}
	switch templater.KindOf(resourceType) {
	case templater.KindOBS:
		return "Open Bible Stories"
	case templater.KindTA:
		return "Translation Academy"
	default:
		return "Resource"
	}
}

func sampleContent(resourceType string) map[string]string {
	switch templater.KindOf(resourceType) {
	case templater.KindBible:
		return map[string]string{
			"01-GEN.html": `<html><head><title>Genesis</title></head><body>
<h1>Genesis</h1>
<h2 class="c-num" id="gen-c-001">Chapter 1</h2>
<p>In the beginning God created the heavens and the earth.</p>
<h2 class="c-num" id="gen-c-002">Chapter 2</h2>
<p>The heavens and the earth were finished.</p>
</body></html>
`,
			"02-EXO.html": `<html><head><title>Exodus</title></head><body>
<h1>Exodus</h1>
<h2 class="c-num" id="exo-c-001">Chapter 1</h2>
<p>These are the names of the sons of Israel.</p>
</body></html>
`,
		}
	case templater.KindTA:
		return map[string]string{
			"intro.md": `---
title: Introduction
---
# Introduction to Translation

## Why translate?

## What makes a good translation?
`,
			"intro-toc.yaml": `sections:
  - title: Introduction to Translation
    link: introduction-to-translation
    sections:
      - title: Why translate?
        link: why-translate
      - title: What makes a good translation?
        link: what-makes-a-good-translation
`,
		}
	default:
		return map[string]string{
			"01.html": `<html><head><title>The Creation</title></head><body>
<h1>1. The Creation</h1>
<p>This is how the beginning of everything happened.</p>
</body></html>
`,
		}
	}
}

const configFileName = "txsite.yaml"

var configTemplate = template.Must(template.New("config").Parse(`resource_type: {{.ResourceType}}
source: content
output: public
template: templates/project-page.html
static: static
clean: true
port: 1313
`))

var manifestTemplate = template.Must(template.New("manifest").Parse(`dublin_core:
  type: book
  identifier: {{.ResourceType}}
  title: {{.Title}}
  language:
    identifier: en
    title: English
    direction: ltr
`))

const archetypeDefaultMdContent = `---
title: {{.Title}}
---

# {{.Title}}

Write the converted content here.
`

const projectPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Door43</title>
  <link rel="canonical" href="https://live.door43.org/templates/project-page.html">
  <link rel="stylesheet" href="css/style.css">
</head>
<body>
  <header><span id="h1">{{ HEADING }}</span></header>
  <div class="container">
    <div id="left-sidebar"></div>
    <div id="outer-content"></div>
    <div id="right-sidebar"></div>
  </div>
  <footer>
    <a rel="dct:source" href="https://live.door43.org/templates/project-page.html">{{ HEADING }}</a>
  </footer>
</body>
</html>
`

const staticCSSContent = `body {
  font-family: sans-serif;
  margin: 0;
  color: #222;
  background: #fdfdfd;
}
header { padding: 1em 2em; border-bottom: 1px solid #ddd; font-size: 1.3em; }
.container { display: flex; gap: 2em; padding: 1em 2em; }
#left-sidebar, #right-sidebar { flex: 0 0 14em; font-size: 0.9em; }
#outer-content { flex: 1; line-height: 1.6; }
body.bible .chapters { columns: 4; list-style: none; padding-left: 0; }
.panel-collapse.collapse { display: none; }
.panel-collapse.collapse.in { display: block; }
footer { text-align: center; font-size: 0.9em; color: #555; padding: 2em; }
`

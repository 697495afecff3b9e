// Package templater merges converted HTML fragments into a shared site
// template, one output page per fragment, with content-specific navigation.
package templater

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"txsite/internal/dom"
	"txsite/internal/metrics"
	"txsite/internal/rc"
	"txsite/internal/util"
)

// The footer attribution the template ships with reads
// ("<a href=deadSourceHref rel="dct:source">{{ HEADING }}</a>") and is
// dropped from every page.
const (
	deadSourceHref    = "https://live.door43.org/templates/project-page.html"
	deadSourceHeading = "{{ HEADING }}"
	deadSourceOpen    = `("`
	deadSourceClose   = `") `
)

const noContentHTML = `<div>No content</div>`

// Templater applies one template to every fragment of a content package.
type Templater struct {
	ResourceType string
	SourceDir    string
	OutputDir    string
	TemplateFile string

	Navigator Navigator
	Metadata  rc.Metadata
	Logger    *slog.Logger
	Recorder  metrics.Recorder
	kind      Kind
}

// Run templates the package. It stops at the first error; see RunCount.
func (t *Templater) Run() error {
	_, err := t.RunCount()
	return err
}

// RunCount templates the package and reports how many pages were written.
func (t *Templater) RunCount() (int, error) {
	t.defaults()
	start := time.Now()
	n, err := t.run()
	kind := string(t.kind)
	t.Recorder.ObserveRunDuration(kind, time.Since(start))
	if err != nil {
		t.Recorder.IncRunOutcome(kind, metrics.OutcomeFailed)
		return n, err
	}
	t.Recorder.IncPages(kind, n)
	t.Recorder.IncRunOutcome(kind, metrics.OutcomeSuccess)
	return n, nil
}

func (t *Templater) defaults() {
	if t.Logger == nil {
		t.Logger = slog.Default()
	}
	if t.Recorder == nil {
		t.Recorder = metrics.NoopRecorder{}
	}
	if t.Navigator == nil {
		t.Navigator = FlatNavigator{}
	}
	if t.kind == "" {
		t.kind = KindOf(t.ResourceType)
	}
}

func (t *Templater) run() (int, error) {
	if t.Metadata == nil {
		meta, err := rc.Load(t.SourceDir)
		if err != nil {
			return 0, newError(ParseError, filepath.Join(t.SourceDir, rc.ManifestFile), err)
		}
		t.Metadata = meta
	}

	templateHTML, err := t.loadTemplate()
	if err != nil {
		return 0, err
	}
	canonical, err := t.checkTemplate(templateHTML)
	if err != nil {
		return 0, err
	}

	files, err := util.SortedGlob(t.SourceDir, "*.html")
	if err != nil {
		return 0, err
	}
	pages, err := loadPages(files)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(t.OutputDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	m := merger{
		Templater:    t,
		templateHTML: templateHTML,
		canonical:    canonical,
		heading:      fmt.Sprintf("%s: %s", t.Metadata.LanguageTitle(), t.Metadata.Title()),
		langCode:     t.Metadata.LanguageCode(),
		pages:        pages,
	}
	written := 0
	for _, page := range pages {
		if err := m.apply(page); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// loadTemplate reads the template and tags <body> with the content type classes.
func (t *Templater) loadTemplate() (string, error) {
	doc, err := dom.ParseFile(t.TemplateFile)
	if err != nil {
		return "", newError(ParseError, t.TemplateFile, err)
	}
	body := doc.Find("body")
	classes := strings.Fields(body.AttrOr("class", ""))
	if t.ResourceType != "" {
		classes = append(classes, t.ResourceType)
	}
	if rc.IsBibleType(t.ResourceType) && t.ResourceType != "bible" {
		classes = append(classes, "bible")
	}
	if len(classes) > 0 {
		body.SetAttr("class", strings.Join(classes, " "))
	}
	out, err := dom.Render(doc)
	if err != nil {
		return "", newError(ParseError, t.TemplateFile, err)
	}
	return out, nil
}

// checkTemplate validates the required containers and captures the canonical URL.
func (t *Templater) checkTemplate(templateHTML string) (string, error) {
	doc, err := dom.ParseString(templateHTML)
	if err != nil {
		return "", newError(ParseError, t.TemplateFile, err)
	}
	if doc.Find("#outer-content").Length() == 0 {
		return "", newError(ConfigurationError, t.TemplateFile,
			errors.New(`no element with id "outer-content" was found in the template`))
	}

	links := doc.Find(`link[rel="canonical"]`)
	switch links.Length() {
	case 0:
		return "", nil
	case 1:
		href, _ := links.Attr("href")
		return href, nil
	default:
		warn := newError(AmbiguousCanonicalError, t.TemplateFile,
			fmt.Errorf("%d canonical links found", links.Length()))
		t.Logger.Warn("Skipping canonical URL rewrite", "error", warn)
		return "", nil
	}
}

// merger holds the state of one run across fragments.
type merger struct {
	*Templater
	templateHTML string
	canonical    string
	heading      string
	langCode     string
	stickyTitle  string
	pages        []*Page
}

func (m *merger) apply(page *Page) error {
	m.Logger.Debug("Applying template", "file", page.Path)

	// Each page starts from a fresh copy of the template.
	doc, err := dom.ParseString(m.templateHTML)
	if err != nil {
		return newError(ParseError, m.TemplateFile, err)
	}
	fragment, err := dom.ParseFile(page.Path)
	if err != nil {
		return newError(ParseError, page.Path, err)
	}

	title := m.pageTitle(page, fragment)
	m.resolveLanguage(fragment)

	body := fragment.Find("body").Contents()
	if dom.IsEmpty(fragment.Find("body")) {
		m.Logger.Debug("Fragment has no content", "file", page.Path, "error", newError(MissingContentError, page.Path, nil))
		placeholder, err := dom.ParseString(noContentHTML)
		if err != nil {
			return newError(ParseError, page.Path, err)
		}
		body = placeholder.Find("body").Contents()
	}
	outer := doc.Find("#outer-content").First()
	outer.Empty()
	outer.AppendSelection(body)

	root := doc.Find("html")
	root.SetAttr("lang", m.langCode)
	root.SetAttr("dir", m.Metadata.LanguageDirection())

	setTitle(doc, m.heading+" - "+title)
	removeDeadSourceLinks(doc)
	doc.Find(`a[rel="dct:source"]`).SetText(title)
	doc.Find("#h1").SetText(m.heading)

	if left := doc.Find("#left-sidebar").First(); left.Length() > 0 {
		left.SetHtml(leftSidebarHTML)
	}
	if right := doc.Find("#right-sidebar").First(); right.Length() > 0 {
		nav, err := m.Navigator.Build(m.pages, page)
		if err != nil {
			return err
		}
		right.SetHtml(nav)
	}

	out, err := dom.Render(doc)
	if err != nil {
		return newError(ParseError, page.Path, err)
	}
	out = RewriteCanonical(out, m.canonical, m.langCode)

	outFile := filepath.Join(m.OutputDir, page.Name)
	m.Logger.Debug("Writing", "file", outFile)
	if err := util.WriteFile(outFile, []byte(dom.EscapeNonASCII(out))); err != nil {
		return fmt.Errorf("failed to write %s: %w", outFile, err)
	}
	return nil
}

// pageTitle prefers the fragment's <title>. A fragment without one reuses the
// last title seen in this run, falling back to the file name.
func (m *merger) pageTitle(page *Page, fragment *goquery.Document) string {
	if title, ok := dom.Text(fragment, "head title"); ok && title != "" {
		m.stickyTitle = title
		return title
	}
	if m.stickyTitle != "" {
		return m.stickyTitle
	}
	return page.Name
}

// resolveLanguage settles the language code once per run: the package's
// declared code, else the first fragment's lang attribute, else "en".
func (m *merger) resolveLanguage(fragment *goquery.Document) {
	if m.langCode != "" {
		return
	}
	if lang, ok := fragment.Find("html").Attr("lang"); ok && lang != "" {
		m.langCode = lang
		return
	}
	m.langCode = "en"
}

func setTitle(doc *goquery.Document, text string) {
	title := doc.Find("head title").First()
	if title.Length() == 0 {
		doc.Find("head").AppendHtml("<title></title>")
		title = doc.Find("head title").First()
	}
	title.SetText(text)
}

// removeDeadSourceLinks drops the unfilled template attribution together
// with the ("...") text wrapped around it. Attributions without the wrapper
// are kept and receive the page title.
func removeDeadSourceLinks(doc *goquery.Document) {
	doc.Find(`a[rel="dct:source"]`).Each(func(_ int, a *goquery.Selection) {
		if a.AttrOr("href", "") != deadSourceHref || strings.TrimSpace(a.Text()) != deadSourceHeading {
			return
		}
		prev, next := a.Nodes[0].PrevSibling, a.Nodes[0].NextSibling
		if prev == nil || next == nil || prev.Type != html.TextNode || next.Type != html.TextNode {
			return
		}
		if !strings.HasSuffix(prev.Data, deadSourceOpen) || !strings.HasPrefix(next.Data, deadSourceClose) {
			return
		}
		prev.Data = strings.TrimSuffix(prev.Data, deadSourceOpen)
		next.Data = strings.TrimPrefix(next.Data, deadSourceClose)
		a.Remove()
	})
}

// RewriteCanonical replaces every occurrence of canonical in page with the
// same URL whose /templates/ segment points at the language instead. The
// entity-escaped form the serializer writes into attributes is rewritten too.
func RewriteCanonical(page, canonical, langCode string) string {
	if canonical == "" {
		return page
	}
	localized := strings.ReplaceAll(canonical, "/templates/", "/"+langCode+"/")
	if localized == canonical {
		return page
	}
	page = strings.ReplaceAll(page, canonical, localized)
	if escaped := html.EscapeString(canonical); escaped != canonical {
		page = strings.ReplaceAll(page, escaped, html.EscapeString(localized))
	}
	return page
}

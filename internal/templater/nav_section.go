package templater

import (
	"html/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var sectionNavTemplate = template.Must(template.New("sections").Parse(`<nav class="affix-top hidden-print hidden-xs hidden-sm" id="right-sidebar-nav">
  <ul id="sidebar-nav" class="nav nav-stacked">
{{- range .}}
{{- if .Current}}
    <h4>{{.Title}}</h4>
{{- range .Sections}}
    {{template "section" .}}
{{- end}}
{{- else}}
    <h4><a href="{{.Href}}">{{.Title}}</a></h4>
{{- end}}
{{- end}}
  </ul>
</nav>
{{- define "section"}}<li><a href="#{{.Link}}">{{.Title}}</a>
{{- if .Children}}<ul>{{range .Children}}{{template "section" .}}{{end}}</ul>{{end}}</li>
{{- end}}`))

type sectionEntry struct {
	navEntry
	Sections []tocNode
}

// SectionNavigator lists every article as a heading and expands the current
// article's table of contents below its heading.
type SectionNavigator struct {
	// LoadTOC overrides how a page's TOC is read. Defaults to LoadTOC.
	LoadTOC func(path string) (*TOC, error)
}

func (n SectionNavigator) Build(pages []*Page, current *Page) (string, error) {
	load := n.LoadTOC
	if load == nil {
		load = LoadTOC
	}
	titleCaser := cases.Title(language.Und)

	// Synthetic anchors restart at 1 on every build.
	next := 1
	var entries []sectionEntry
	for _, p := range pages {
		title := p.Heading
		if !p.HasH1 {
			title = titleCaser.String(p.Stem)
		}
		if IsPlaceholder(title) {
			continue
		}
		entry := sectionEntry{navEntry: navEntry{Title: title, Href: p.Name}}
		if current != nil && p.Path == current.Path {
			entry.Current = true
			toc, err := load(p.Path)
			if err != nil {
				return "", err
			}
			if toc != nil {
				entry.Sections, next = assignAnchors(toc.Sections, next)
			}
		}
		entries = append(entries, entry)
	}
	return render(sectionNavTemplate, entries)
}

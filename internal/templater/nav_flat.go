package templater

import (
	"html/template"
	"strings"
	"unicode"
	"unicode/utf8"
)

var flatNavTemplate = template.Must(template.New("flat").Parse(`<nav class="affix-top hidden-print hidden-xs hidden-sm" id="right-sidebar-nav">
  <ul id="sidebar-nav" class="nav nav-stacked">
    <li><h1>Navigation</h1></li>
{{- range .}}
    {{if .Current}}<li>{{.Title}}</li>{{else}}<li><a href="{{.Href}}">{{.Title}}</a></li>{{end}}
{{- end}}
  </ul>
</nav>`))

// FlatNavigator lists every page as a single unordered list. It serves
// generic content and Open Bible Stories.
type FlatNavigator struct{}

func (FlatNavigator) Build(pages []*Page, current *Page) (string, error) {
	var entries []navEntry
	for _, p := range pages {
		title := p.Heading
		if !p.HasH1 {
			title = capitalize(strings.ReplaceAll(p.Stem, "_", " "))
		}
		if IsPlaceholder(title) {
			continue
		}
		entries = append(entries, navEntry{
			Title:   title,
			Href:    p.Name,
			Current: current != nil && p.Path == current.Path,
		})
	}
	return render(flatNavTemplate, entries)
}

// capitalize upper-cases the first letter of s and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

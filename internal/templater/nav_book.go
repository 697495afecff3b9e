package templater

import (
	"html/template"
	"strings"
)

var bookNavTemplate = template.Must(template.New("book").Parse(`<nav class="affix-top hidden-print hidden-xs hidden-sm" id="right-sidebar-nav">
  <ul id="sidebar-nav" class="nav nav-stacked books panel-group">
{{- range .}}
    <div class="panel panel-default">
      <div class="panel-heading">
        <h4 class="panel-title">
          <a class="accordion-toggle" data-toggle="collapse" data-parent="#sidebar-nav" href="#collapse{{.Code}}">{{.Title}}</a>
        </h4>
      </div>
      <div id="collapse{{.Code}}" class="panel-collapse collapse{{if .Current}} in{{end}}">
        <ul class="panel-body chapters">
{{- range .Chapters}}
          <li class="chapter"><a href="{{.Href}}">{{.Label}}</a></li>
{{- end}}
        </ul>
      </div>
    </div>
{{- end}}
  </ul>
</nav>`))

type bookPanel struct {
	Code     string
	Title    string
	Current  bool
	Chapters []chapterLink
}

type chapterLink struct {
	Href  string
	Label string
}

// BookNavigator renders one collapsible panel per Bible book with a link to
// every chapter. The panel of the current book is expanded.
type BookNavigator struct{}

func (BookNavigator) Build(pages []*Page, current *Page) (string, error) {
	var panels []bookPanel
	for _, p := range pages {
		code := BookCode(p.Stem)
		title := p.Heading
		if !p.HasH1 {
			title = code + "."
		}
		if IsPlaceholder(title) {
			continue
		}
		isCurrent := current != nil && p.Path == current.Path
		panel := bookPanel{Code: code, Title: title, Current: isCurrent}
		for _, ch := range p.Chapters {
			href := "#" + ch.ID
			if !isCurrent {
				href = p.Name + href
			}
			panel.Chapters = append(panel.Chapters, chapterLink{Href: href, Label: ch.Label()})
		}
		panels = append(panels, panel)
	}
	return render(bookNavTemplate, panels)
}

// BookCode derives the lowercase book code from a file stem: "01-GEN" and
// "GEN" both give "gen".
func BookCode(stem string) string {
	parts := strings.Split(stem, "-")
	if len(parts) == 2 {
		return strings.ToLower(parts[1])
	}
	return strings.ToLower(parts[0])
}

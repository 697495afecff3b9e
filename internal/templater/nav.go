package templater

import (
	"bytes"
	"html/template"
)

// Navigator renders the right-sidebar navigation for current, given every
// page of the package in filename order.
type Navigator interface {
	Build(pages []*Page, current *Page) (string, error)
}

// navEntry is one line of a flat or heading-list navigation.
type navEntry struct {
	Title   string
	Href    string
	Current bool
}

const leftSidebarHTML = `<nav class="affix-top hidden-print hidden-xs hidden-sm" id="left-sidebar-nav">
  <div class="nav nav-stacked" id="revisions-div">
    <h1>Revisions</h1>
    <table width="100%" id="revisions"></table>
  </div>
</nav>`

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

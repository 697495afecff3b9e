package builder

import (
	"html/template"
)

// FragmentMeta holds the front matter of a markdown source.
type FragmentMeta struct {
	Title string                 `yaml:"title"`
	Lang  string                 `yaml:"lang"`
	Draft bool                   `yaml:"draft"`
	Extra map[string]interface{} `yaml:",inline"`
}

// FragmentData is passed to the fragment template when a markdown source is
// written out as an HTML fragment.
type FragmentData struct {
	Title   string
	Lang    string
	Content template.HTML
}

var fragmentTemplate = template.Must(template.New("fragment").Parse(`<!DOCTYPE html>
<html{{if .Lang}} lang="{{.Lang}}"{{end}}>
<head>
  <meta charset="utf-8">
{{- if .Title}}
  <title>{{.Title}}</title>
{{- end}}
</head>
<body>
{{.Content}}
</body>
</html>
`))

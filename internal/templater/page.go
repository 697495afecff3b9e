package templater

import (
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"txsite/internal/dom"
	"txsite/internal/util"
)

// placeholderTitles mark fragments that were never converted. They are
// written out but left out of navigation.
var placeholderTitles = map[string]bool{
	"Conversion requested...": true,
	"Conversion successful":   true,
	"Index":                   true,
}

// Chapter is one chapter heading anchor inside a fragment.
type Chapter struct {
	ID string
}

// Label is the chapter number shown in navigation: the last hyphen-delimited
// segment of the anchor id without leading zeros ("gen-c-007" gives "7").
func (c Chapter) Label() string {
	parts := strings.Split(c.ID, "-")
	label := strings.TrimLeft(parts[len(parts)-1], "0")
	if label == "" {
		return "0"
	}
	return label
}

// Page is the per-run view of one fragment file that navigation builders read.
type Page struct {
	Path     string
	Name     string
	Stem     string
	Heading  string
	HasH1    bool
	Chapters []Chapter
}

// IsPlaceholder reports whether title marks a not-yet-converted fragment.
func IsPlaceholder(title string) bool {
	return placeholderTitles[title]
}

// loadPage parses the fragment at path and records what navigation needs.
func loadPage(path string) (*Page, error) {
	doc, err := dom.ParseFile(path)
	if err != nil {
		return nil, newError(ParseError, path, err)
	}
	return pageFromDocument(path, doc), nil
}

func pageFromDocument(path string, doc *goquery.Document) *Page {
	p := &Page{
		Path: path,
		Name: filepath.Base(path),
		Stem: util.Stem(path),
	}
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		p.HasH1 = true
		p.Heading = h1.Text()
	}
	doc.Find("h2.c-num").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok && id != "" {
			p.Chapters = append(p.Chapters, Chapter{ID: id})
		}
	})
	return p
}

// loadPages loads every fragment in filename order.
func loadPages(files []string) ([]*Page, error) {
	pages := make([]*Page, 0, len(files))
	for _, f := range files {
		p, err := loadPage(f)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, nil
}

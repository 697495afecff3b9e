package templater

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(name, heading string, chapters ...string) *Page {
	p := &Page{
		Path:    "/src/" + name,
		Name:    name,
		Stem:    strings.TrimSuffix(name, ".html"),
		Heading: heading,
		HasH1:   heading != "",
	}
	for _, id := range chapters {
		p.Chapters = append(p.Chapters, Chapter{ID: id})
	}
	return p
}

func TestBookCode(t *testing.T) {
	tests := []struct {
		stem string
		want string
	}{
		{"01-GEN", "gen"},
		{"GEN", "gen"},
		{"41-MAT", "mat"},
		{"a-b-c", "a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BookCode(tt.stem), tt.stem)
	}
}

func TestChapterLabel(t *testing.T) {
	assert.Equal(t, "7", Chapter{ID: "gen-c-007"}.Label())
	assert.Equal(t, "150", Chapter{ID: "psa-c-150"}.Label())
	assert.Equal(t, "0", Chapter{ID: "gen-c-000"}.Label())
}

func TestFlatNavigator(t *testing.T) {
	pages := []*Page{
		page("01-intro.html", "Introduction"),
		page("02-chapter_two.html", ""),
		page("index.html", "Index"),
	}

	html, err := FlatNavigator{}.Build(pages, pages[0])
	require.NoError(t, err)

	assert.Contains(t, html, "<li>Introduction</li>")
	assert.NotContains(t, html, `href="01-intro.html"`)
	assert.Contains(t, html, `<li><a href="02-chapter_two.html">02-chapter two</a></li>`)
	assert.NotContains(t, html, "index.html")
	assert.NotContains(t, html, "Index")
}

func TestFlatNavigatorEscapesTitles(t *testing.T) {
	pages := []*Page{page("a.html", "Fish & <Loaves>")}
	html, err := FlatNavigator{}.Build(pages, nil)
	require.NoError(t, err)
	assert.Contains(t, html, "Fish &amp; &lt;Loaves&gt;")
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Hello world", capitalize("hello World"))
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "Éxodo", capitalize("éxodo"))
}

func TestBookNavigator(t *testing.T) {
	pages := []*Page{
		page("01-GEN.html", "Genesis", "gen-c-001", "gen-c-002"),
		page("02-EXO.html", "", "exo-c-001"),
		page("03-LEV.html", "Conversion requested..."),
	}

	html, err := BookNavigator{}.Build(pages, pages[0])
	require.NoError(t, err)

	assert.Contains(t, html, `href="#collapsegen">Genesis</a>`)
	assert.Contains(t, html, `id="collapsegen" class="panel-collapse collapse in"`)
	assert.Contains(t, html, `<a href="#gen-c-001">1</a>`)
	assert.Contains(t, html, `<a href="#gen-c-002">2</a>`)
	assert.NotContains(t, html, `href="01-GEN.html`)

	assert.Contains(t, html, `href="#collapseexo">exo.</a>`)
	assert.Contains(t, html, `id="collapseexo" class="panel-collapse collapse"`)
	assert.Contains(t, html, `<a href="02-EXO.html#exo-c-001">1</a>`)

	assert.NotContains(t, html, "collapselev")
}

func TestSectionNavigator(t *testing.T) {
	toc := &TOC{Sections: []Section{
		{Title: "Intro"},
		{Title: "Part", Sections: []Section{
			{Title: "Sub"},
			{Title: "Explicit", Link: "explicit"},
		}},
		{Title: "End"},
	}}
	var loaded []string
	nav := SectionNavigator{LoadTOC: func(path string) (*TOC, error) {
		loaded = append(loaded, path)
		return toc, nil
	}}
	pages := []*Page{
		page("intro.html", ""),
		page("finding.html", "Finding Answers"),
		page("index.html", "Index"),
	}

	html, err := nav.Build(pages, pages[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"/src/intro.html"}, loaded)

	assert.Contains(t, html, "<h4>Intro</h4>")
	assert.Contains(t, html, `<h4><a href="finding.html">Finding Answers</a></h4>`)
	assert.NotContains(t, html, "index.html")

	assert.Contains(t, html, `<a href="#section-container-1">Intro</a>`)
	assert.Contains(t, html, `<a href="#section-container-2">Part</a><ul>`)
	assert.Contains(t, html, `<a href="#section-container-3">Sub</a>`)
	assert.Contains(t, html, `<a href="#explicit">Explicit</a>`)
	assert.Contains(t, html, `<a href="#section-container-4">End</a>`)

	// A second build for another page restarts the numbering.
	html, err = nav.Build(pages, pages[1])
	require.NoError(t, err)
	assert.Contains(t, html, "<h4>Finding Answers</h4>")
	assert.Contains(t, html, `<h4><a href="intro.html">Intro</a></h4>`)
	assert.Contains(t, html, `<a href="#section-container-1">Intro</a>`)
	assert.NotContains(t, html, "section-container-5")
}

func TestSectionNavigatorWithoutTOC(t *testing.T) {
	nav := SectionNavigator{LoadTOC: func(string) (*TOC, error) { return nil, nil }}
	pages := []*Page{page("intro.html", "Intro")}

	html, err := nav.Build(pages, pages[0])
	require.NoError(t, err)
	assert.Contains(t, html, "<h4>Intro</h4>")
	assert.NotContains(t, html, "<li>")
}

func TestPlaceholderTitlesExcludedEverywhere(t *testing.T) {
	pages := []*Page{page("a.html", "A"), page("index.html", "Index")}
	navs := map[string]Navigator{
		"flat":    FlatNavigator{},
		"book":    BookNavigator{},
		"section": SectionNavigator{LoadTOC: func(string) (*TOC, error) { return nil, nil }},
	}
	for name, nav := range navs {
		html, err := nav.Build(pages, pages[0])
		require.NoError(t, err, name)
		assert.NotContains(t, html, "index.html", name)
	}
}

func TestPlaceholderMatchIsExact(t *testing.T) {
	pages := []*Page{page("a.html", "A"), page("index.html", " Index ")}
	html, err := FlatNavigator{}.Build(pages, pages[0])
	require.NoError(t, err)
	assert.Contains(t, html, `href="index.html"`)
}

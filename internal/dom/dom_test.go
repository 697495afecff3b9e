package dom

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeNonASCII(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"Génesis", "G&#233;nesis"},
		{"עברית", "&#1506;&#1489;&#1512;&#1497;&#1514;"},
		{"a😀b", "a&#128512;b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeNonASCII(tt.in), tt.in)
	}
}

func TestRenderKeepsDoctype(t *testing.T) {
	doc, err := ParseString(`<!DOCTYPE html><html><head><title>T</title></head><body><p>x</p></body></html>`)
	require.NoError(t, err)

	out, err := Render(doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<p>x</p>")
}

func TestParseFileDropsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.html")
	require.NoError(t, os.WriteFile(path, []byte("\xef\xbb\xbf<html><head><title>Hi</title></head><body></body></html>"), 0644))

	doc, err := ParseFile(path)
	require.NoError(t, err)
	title, ok := Text(doc, "title")
	require.True(t, ok)
	assert.Equal(t, "Hi", title)
}

func TestIsEmpty(t *testing.T) {
	doc, err := ParseString(`<html><body>   </body></html>`)
	require.NoError(t, err)
	assert.True(t, IsEmpty(doc.Find("body")))
	assert.True(t, IsEmpty(doc.Find("section")))

	doc, err = ParseString(`<html><body><img src="x.png"></body></html>`)
	require.NoError(t, err)
	assert.False(t, IsEmpty(doc.Find("body")))
}

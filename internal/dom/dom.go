// Package dom adapts goquery documents for the templater: parsing from files
// and strings, whole-document serialisation and ASCII-safe encoding.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Parse reads an HTML document into a mutable tree.
func Parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return doc, nil
}

// ParseString parses s as an HTML document.
func ParseString(s string) (*goquery.Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile parses the HTML file at path. A leading UTF-8 byte order mark is dropped.
func ParseFile(path string) (*goquery.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	doc, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Render serialises the whole document, doctype included.
func Render(doc *goquery.Document) (string, error) {
	if doc == nil || len(doc.Nodes) == 0 {
		return "", fmt.Errorf("render HTML: empty document")
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, doc.Nodes[0]); err != nil {
		return "", fmt.Errorf("render HTML: %w", err)
	}
	return buf.String(), nil
}

// EscapeNonASCII replaces every non-ASCII rune with a decimal numeric character reference.
func EscapeNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 {
			b.WriteRune(r)
			continue
		}
		b.WriteString("&#")
		b.WriteString(strconv.Itoa(int(r)))
		b.WriteByte(';')
	}
	return b.String()
}

// IsEmpty reports whether sel matched nothing or holds only whitespace text.
func IsEmpty(sel *goquery.Selection) bool {
	if sel == nil || sel.Length() == 0 {
		return true
	}
	return sel.Children().Length() == 0 && strings.TrimSpace(sel.Text()) == ""
}

// Text returns the trimmed text of the first element matching selector, and
// whether such an element exists.
func Text(doc *goquery.Document, selector string) (string, bool) {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(sel.Text()), true
}

package builder

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"gopkg.in/yaml.v3"
)

var (
	markdownRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(newMDLinkTransformer(), 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	htmlSanitizer = bluemonday.UGCPolicy()
)

var frontMatterDelim = []byte("---")

// splitFrontMatter separates a leading YAML front matter block from the body.
func splitFrontMatter(raw []byte) (front, body []byte) {
	trimmed := bytes.TrimLeft(raw, "\ufeff\r\n\t ")
	if !bytes.HasPrefix(trimmed, frontMatterDelim) {
		return nil, raw
	}
	parts := bytes.SplitN(trimmed, frontMatterDelim, 3)
	if len(parts) < 3 {
		return nil, raw
	}
	return parts[1], parts[2]
}

// processContent renders a markdown source into an HTML body.
func processContent(rawContent []byte, opts BuildOptions) (FragmentMeta, string, error) {
	meta := FragmentMeta{}

	front, body := splitFrontMatter(rawContent)
	if front != nil {
		if err := yaml.Unmarshal(front, &meta); err != nil {
			return FragmentMeta{}, "", fmt.Errorf("failed to parse front matter: %w", err)
		}
	}

	var htmlBuffer bytes.Buffer
	if err := markdownRenderer.Convert(body, &htmlBuffer); err != nil {
		return meta, "", fmt.Errorf("failed to render markdown with goldmark: %w", err)
	}

	if !opts.Unsafe {
		return meta, string(htmlSanitizer.SanitizeBytes(htmlBuffer.Bytes())), nil
	}
	return meta, htmlBuffer.String(), nil
}

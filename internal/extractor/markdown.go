package extractor

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// extractMarkdown renders markdown notes to HTML and strips the tags,
// so headings and tables come out as plain prose for chunking.
func extractMarkdown(data []byte) ([]Page, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert(data, &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	text := html.UnescapeString(stripXMLTags(buf.String()))
	return []Page{{Number: 1, Text: text}}, nil
}

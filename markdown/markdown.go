// Package markdown renders site-authored Markdown (hero copy, category
// blurbs) as HTML.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// md leaves renderer options at their defaults: raw HTML is omitted and
// dangerous link destinations are dropped.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Typographer),
)

// RenderMarkdown writes the HTML representation of content to buf.
func RenderMarkdown(buf *bytes.Buffer, content string) error {
	return md.Convert([]byte(content), buf)
}

// HTML renders content and returns the result, or an empty string if
// conversion fails.
func HTML(content string) string {
	var buf bytes.Buffer
	if err := RenderMarkdown(&buf, content); err != nil {
		return ""
	}
	return buf.String()
}

// Package render turns normalized note bodies into display HTML.
package render

import (
	"bytes"
	"fmt"

	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown into HTML. It is stateless after construction,
// so a single instance can be shared across goroutines without locking.
type Renderer struct {
	md goldmark.Markdown
}

// New builds the renderer used for every note body: GFM tables and
// strikethrough, TeX math delimiters preserved for client-side typesetting,
// auto-generated heading anchors, and raw HTML passed through untouched.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, mathjax.MathJax),
			goldmark.WithParserOptions(gmparser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render converts a Markdown body to HTML.
func (r *Renderer) Render(body string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render: convert markdown: %w", err)
	}
	return buf.String(), nil
}

// Package render converts the Markdown bodies of pages, posts, products and
// content entries into the HTML stored alongside them.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// Renderer turns Markdown into HTML
type Renderer struct {
	md goldmark.Markdown
}

// Options configures the renderer
type Options struct {
	// AllowRawHTML passes inline HTML through. Off by default so author input
	// cannot inject markup.
	AllowRawHTML bool
}

// New creates a renderer with the GFM extension set
func New(opts Options) *Renderer {
	rendererOpts := []goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	}
	if opts.AllowRawHTML {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(htmlrenderer.WithUnsafe()))
	}
	return &Renderer{md: goldmark.New(rendererOpts...)}
}

// HTML renders source. Empty input renders to an empty string.
func (r *Renderer) HTML(source string) (string, error) {
	if source == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

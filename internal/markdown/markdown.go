// Package markdown converts a Markdown body (frontmatter already split off
// by package frontmatter) to HTML using GFM-flavored Goldmark.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Options configures a single conversion.
type Options struct {
	// AllowRawHTML passes raw HTML through unescaped. Raw HTML is passed
	// through by default; set false to strip it instead.
	AllowRawHTML bool
}

// DefaultOptions is the default: raw HTML passthrough enabled.
func DefaultOptions() Options {
	return Options{AllowRawHTML: true}
}

// Convert renders a Markdown body to HTML: GFM tables, strikethrough, task
// lists, autolinks, and fenced code blocks annotated with a
// `language-<lang>` class (Goldmark's HTML renderer does this
// automatically for any fenced block carrying an info string).
func Convert(body []byte, opts Options) (string, error) {
	var rendererOpts []html.Option
	if opts.AllowRawHTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			append([]html.Option{html.WithXHTML()}, rendererOpts...)...,
		),
	)

	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}

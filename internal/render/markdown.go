package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/util"
)

// DefaultHighlightStyle is the chroma style used when none is configured
const DefaultHighlightStyle = "friendly"

// Renderer converts Markdown source into another representation
type Renderer interface {
	Render(source string) (string, error)
}

// RendererFunc adapts a function to the Renderer interface
type RendererFunc func(source string) (string, error)

// Render calls f(source)
func (f RendererFunc) Render(source string) (string, error) {
	return f(source)
}

// Options configures the live preview renderer
type Options struct {
	// HighlightStyle is the chroma style name for fenced code
	HighlightStyle string
	// GFM enables tables, strikethrough, autolinks and task lists
	GFM bool
}

// DefaultOptions returns the settings used by the editor preview
func DefaultOptions() Options {
	return Options{
		HighlightStyle: DefaultHighlightStyle,
		GFM:            true,
	}
}

// HTMLRenderer renders Markdown to an HTML fragment with goldmark
type HTMLRenderer struct {
	md goldmark.Markdown
}

// NewPreviewRenderer builds the renderer behind the live preview: fenced
// code blocks with chroma highlighting wrapped in a "highlight" div, no
// line numbers, CSS classes instead of inline styles.
func NewPreviewRenderer(opts Options) *HTMLRenderer {
	style := opts.HighlightStyle
	if style == "" {
		style = DefaultHighlightStyle
	}

	extensions := []goldmark.Extender{
		highlighting.NewHighlighting(
			highlighting.WithStyle(style),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
				chromahtml.WithLineNumbers(false),
			),
			highlighting.WithWrapperRenderer(wrapHighlight),
		),
	}
	if opts.GFM {
		extensions = append(extensions, extension.GFM)
	}

	return &HTMLRenderer{
		md: goldmark.New(goldmark.WithExtensions(extensions...)),
	}
}

// NewExportRenderer builds the renderer used by HTML export. It uses
// goldmark's defaults only, independent of the preview configuration.
func NewExportRenderer() *HTMLRenderer {
	return &HTMLRenderer{md: goldmark.New()}
}

// Render converts source to HTML
func (r *HTMLRenderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// wrapHighlight surrounds every fenced block with a "highlight" div. Blocks
// chroma has no lexer for are emitted as plain pre/code by the wrapper.
func wrapHighlight(w util.BufWriter, c highlighting.CodeBlockContext, entering bool) {
	if entering {
		_, _ = w.WriteString(`<div class="highlight">`)
		if !c.Highlighted() {
			_, _ = w.WriteString("<pre><code")
			if lang, ok := c.Language(); ok && len(lang) > 0 {
				_, _ = w.WriteString(` class="language-` + html.EscapeString(string(lang)) + `"`)
			}
			_ = w.WriteByte('>')
		}
		return
	}
	if !c.Highlighted() {
		_, _ = w.WriteString("</code></pre>")
	}
	_, _ = w.WriteString("</div>\n")
}

// HighlightCSS returns the stylesheet matching the class names emitted by
// the preview renderer for the given chroma style.
func HighlightCSS(style string) (string, error) {
	s := styles.Get(style)
	if s == nil {
		s = styles.Fallback
	}

	var buf strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, s); err != nil {
		return "", fmt.Errorf("failed to write highlight css: %w", err)
	}
	return buf.String(), nil
}

package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// TerminalRenderer projects Markdown into styled terminal text for the
// in-editor preview pane
type TerminalRenderer struct {
	tr    *glamour.TermRenderer
	width int
	style string
}

// NewTerminalRenderer creates a glamour renderer wrapping at width using
// one of glamour's standard styles ("light", "dark", "dracula", ...).
// Unknown styles fall back to light or dark depending on the dark flag.
func NewTerminalRenderer(width int, style string, dark bool) (*TerminalRenderer, error) {
	if width < 10 {
		width = 10
	}

	style = strings.TrimSpace(style)
	if style == "" {
		style = "light"
		if dark {
			style = "dark"
		}
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		fallback := "light"
		if dark {
			fallback = "dark"
		}
		tr, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(fallback),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create terminal renderer: %w", err)
		}
		style = fallback
	}

	return &TerminalRenderer{tr: tr, width: width, style: style}, nil
}

// Render converts source into ANSI-styled text
func (t *TerminalRenderer) Render(source string) (string, error) {
	out, err := t.tr.Render(source)
	if err != nil {
		return "", fmt.Errorf("failed to render preview: %w", err)
	}
	return out, nil
}

// Width returns the wrap width
func (t *TerminalRenderer) Width() int {
	return t.width
}

// Style returns the glamour style in use
func (t *TerminalRenderer) Style() string {
	return t.style
}

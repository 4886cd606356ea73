// Package theme holds the catalog of editor/preview color schemes.
package theme

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"
)

// DefaultID is the theme used when an unknown id is requested
const DefaultID = "light"

//go:embed themes.yaml
var builtinThemes []byte

// Colors is a foreground/background pair in #RRGGBB form. Empty values
// leave the terminal's own color in place.
type Colors struct {
	Foreground string `yaml:"fg"`
	Background string `yaml:"bg"`
}

// Style returns a lipgloss style painting these colors
func (c Colors) Style() lipgloss.Style {
	style := lipgloss.NewStyle()
	if c.Foreground != "" {
		style = style.Foreground(lipgloss.Color(c.Foreground))
	}
	if c.Background != "" {
		style = style.Background(lipgloss.Color(c.Background))
	}
	return style
}

// Theme is one entry of the catalog
type Theme struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Window    Colors `yaml:"window,omitempty"`
	Editor    Colors `yaml:"editor"`
	Preview   Colors `yaml:"preview"`
	Glamour   string `yaml:"glamour,omitempty"`   // glamour standard style for the terminal preview
	Highlight string `yaml:"highlight,omitempty"` // chroma style for code blocks
}

// IsDark reports whether the preview background is dark
func (t Theme) IsDark() bool {
	c, err := colorful.Hex(t.Preview.Background)
	if err != nil {
		return false
	}
	_, _, l := c.Hsl()
	return l < 0.5
}

// CSS returns a stylesheet painting an HTML page with the preview colors
func (t Theme) CSS() string {
	var sb strings.Builder
	sb.WriteString("body {")
	if t.Preview.Background != "" {
		fmt.Fprintf(&sb, " background-color: %s;", t.Preview.Background)
	}
	if t.Preview.Foreground != "" {
		fmt.Fprintf(&sb, " color: %s;", t.Preview.Foreground)
	}
	sb.WriteString(" }\n")
	if t.Window.Background != "" {
		fmt.Fprintf(&sb, "html { background-color: %s; }\n", t.Window.Background)
	}
	return sb.String()
}

// Entry is a menu row: display name and identifier
type Entry struct {
	Name string
	ID   string
}

// Surface is anything that can be painted by a theme. The editor UI
// implements it for its editor, preview and surrounding window.
type Surface interface {
	SetWindowColors(c Colors)
	SetEditorColors(c Colors)
	SetPreviewColors(c Colors)
}

// Registry is the ordered, immutable catalog of themes
type Registry struct {
	themes []Theme
	byID   map[string]int
}

type catalogFile struct {
	Themes []Theme `yaml:"themes"`
}

// Builtin returns the registry of built-in themes
func Builtin() *Registry {
	r, err := parse(builtinThemes)
	if err != nil {
		// The embedded catalog is covered by tests.
		panic(fmt.Sprintf("invalid built-in theme catalog: %v", err))
	}
	return r
}

// Load returns the built-in registry merged with the user's theme file at
// path. A missing file is not an error. Invalid user entries are skipped
// and reported as warnings.
func Load(path string) (*Registry, []error) {
	r := Builtin()
	if path == "" {
		return r, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return r, []error{fmt.Errorf("failed to read themes file: %w", err)}
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return r, []error{fmt.Errorf("failed to parse themes file %s: %w", path, err)}
	}

	var warnings []error
	for _, t := range file.Themes {
		if err := r.merge(t); err != nil {
			warnings = append(warnings, err)
		}
	}
	return r, warnings
}

func parse(data []byte) (*Registry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	r := &Registry{byID: make(map[string]int)}
	for _, t := range file.Themes {
		if err := validate(t); err != nil {
			return nil, err
		}
		if _, dup := r.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate theme id %q", t.ID)
		}
		r.byID[t.ID] = len(r.themes)
		r.themes = append(r.themes, t)
	}
	if _, ok := r.byID[DefaultID]; !ok {
		return nil, fmt.Errorf("catalog has no %q theme", DefaultID)
	}
	return r, nil
}

// merge overrides the non-empty fields of an existing theme or appends a new one
func (r *Registry) merge(t Theme) error {
	t.ID = strings.TrimSpace(t.ID)
	if t.ID == "" {
		return fmt.Errorf("theme %q has no id", t.Name)
	}

	idx, exists := r.byID[t.ID]
	if !exists {
		if t.Name == "" {
			t.Name = t.ID
		}
		if err := validate(t); err != nil {
			return err
		}
		r.byID[t.ID] = len(r.themes)
		r.themes = append(r.themes, t)
		return nil
	}

	merged := r.themes[idx]
	if t.Name != "" {
		merged.Name = t.Name
	}
	merged.Window = mergeColors(merged.Window, t.Window)
	merged.Editor = mergeColors(merged.Editor, t.Editor)
	merged.Preview = mergeColors(merged.Preview, t.Preview)
	if t.Glamour != "" {
		merged.Glamour = t.Glamour
	}
	if t.Highlight != "" {
		merged.Highlight = t.Highlight
	}
	if err := validate(merged); err != nil {
		return err
	}
	r.themes[idx] = merged
	return nil
}

func mergeColors(base, override Colors) Colors {
	if override.Foreground != "" {
		base.Foreground = override.Foreground
	}
	if override.Background != "" {
		base.Background = override.Background
	}
	return base
}

func validate(t Theme) error {
	if t.ID == "" {
		return fmt.Errorf("theme %q has no id", t.Name)
	}
	colors := map[string]string{
		"window.fg":  t.Window.Foreground,
		"window.bg":  t.Window.Background,
		"editor.fg":  t.Editor.Foreground,
		"editor.bg":  t.Editor.Background,
		"preview.fg": t.Preview.Foreground,
		"preview.bg": t.Preview.Background,
	}
	for field, value := range colors {
		if value == "" {
			continue
		}
		if _, err := colorful.Hex(value); err != nil {
			return fmt.Errorf("theme %q: invalid color %s=%q", t.ID, field, value)
		}
	}
	return nil
}

// List returns the catalog in menu order
func (r *Registry) List() []Entry {
	entries := make([]Entry, len(r.themes))
	for i, t := range r.themes {
		entries[i] = Entry{Name: t.Name, ID: t.ID}
	}
	return entries
}

// Len returns the number of themes
func (r *Registry) Len() int {
	return len(r.themes)
}

// Has reports whether id is in the catalog
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Lookup returns the theme for id, or the default theme when id is unknown
func (r *Registry) Lookup(id string) Theme {
	if idx, ok := r.byID[id]; ok {
		return r.themes[idx]
	}
	return r.themes[r.byID[DefaultID]]
}

// Apply paints surface with the theme for id, falling back to the default
// theme for unknown ids. Applying the same id twice gives the same result.
func (r *Registry) Apply(id string, surface Surface) {
	t := r.Lookup(id)
	surface.SetWindowColors(t.Window)
	surface.SetEditorColors(t.Editor)
	surface.SetPreviewColors(t.Preview)
}

// String implements fuzzy.Source
func (r *Registry) String(i int) string {
	return r.themes[i].Name
}

// Search returns the entries whose names fuzzy-match query, best first.
// An empty query returns the whole catalog in menu order.
func (r *Registry) Search(query string) []Entry {
	if strings.TrimSpace(query) == "" {
		return r.List()
	}

	matches := fuzzy.FindFrom(query, r)
	entries := make([]Entry, 0, len(matches))
	for _, m := range matches {
		t := r.themes[m.Index]
		entries = append(entries, Entry{Name: t.Name, ID: t.ID})
	}
	return entries
}

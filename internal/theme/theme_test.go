package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type recordingSurface struct {
	window, editor, preview Colors
	calls                   int
}

func (s *recordingSurface) SetWindowColors(c Colors)  { s.window = c; s.calls++ }
func (s *recordingSurface) SetEditorColors(c Colors)  { s.editor = c; s.calls++ }
func (s *recordingSurface) SetPreviewColors(c Colors) { s.preview = c; s.calls++ }

func (s *recordingSurface) state() [3]Colors {
	return [3]Colors{s.window, s.editor, s.preview}
}

func TestBuiltin_CatalogOrder(t *testing.T) {
	want := []Entry{
		{"Light Theme", "light"},
		{"Dark Theme", "dark"},
		{"Green Theme", "green"},
		{"Purple Theme", "purple"},
		{"Blue Theme", "blue"},
		{"Solarized Light", "solarized_light"},
		{"Solarized Dark", "solarized_dark"},
		{"Monokai", "monokai"},
		{"Dracula", "dracula"},
		{"Nord", "nord"},
		{"Gruvbox Light", "gruvbox_light"},
		{"Gruvbox Dark", "gruvbox_dark"},
		{"One Dark", "one_dark"},
		{"One Light", "one_light"},
		{"Material Dark", "material_dark"},
		{"Material Light", "material_light"},
		{"Retro", "retro"},
		{"Cyberpunk", "cyberpunk"},
		{"Ocean", "ocean"},
		{"Forest", "forest"},
	}

	if diff := cmp.Diff(want, Builtin().List()); diff != "" {
		t.Errorf("catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestLookup_KnownThemes(t *testing.T) {
	r := Builtin()

	dracula := r.Lookup("dracula")
	if dracula.Editor.Background != "#44475A" || dracula.Editor.Foreground != "#F8F8F2" {
		t.Errorf("dracula editor colors = %+v", dracula.Editor)
	}
	if dracula.Window.Background != "#282A36" {
		t.Errorf("dracula window bg = %q", dracula.Window.Background)
	}

	light := r.Lookup("light")
	if light.Preview != (Colors{Foreground: "#000000", Background: "#FFFFFF"}) {
		t.Errorf("light preview colors = %+v", light.Preview)
	}
	if light.Window != (Colors{}) {
		t.Errorf("light theme should leave window colors unset, got %+v", light.Window)
	}
}

func TestApply_UnknownFallsBackToLight(t *testing.T) {
	r := Builtin()

	unknown := &recordingSurface{}
	r.Apply("nonexistent-id", unknown)

	light := &recordingSurface{}
	r.Apply("light", light)

	if unknown.state() != light.state() {
		t.Errorf("Apply(unknown) = %+v, Apply(light) = %+v", unknown.state(), light.state())
	}
}

func TestApply_Idempotent(t *testing.T) {
	r := Builtin()
	s := &recordingSurface{}

	r.Apply("nord", s)
	first := s.state()
	r.Apply("nord", s)

	if s.state() != first {
		t.Errorf("second apply changed state: %+v -> %+v", first, s.state())
	}
	if s.calls != 6 {
		t.Errorf("expected 3 surface updates per apply, got %d total", s.calls)
	}
}

func TestApply_SwitchingThemes(t *testing.T) {
	r := Builtin()
	s := &recordingSurface{}

	r.Apply("retro", s)
	r.Apply("light", s)

	if s.window != (Colors{}) {
		t.Errorf("switching back to light must reset window colors, got %+v", s.window)
	}
}

func TestIsDark(t *testing.T) {
	r := Builtin()
	tests := map[string]bool{
		"light":          false,
		"dark":           true,
		"solarized_dark": true,
		"gruvbox_light":  false,
		"retro":          true,
	}
	for id, want := range tests {
		if got := r.Lookup(id).IsDark(); got != want {
			t.Errorf("%s IsDark() = %v, want %v", id, got, want)
		}
	}

	if (Theme{}).IsDark() {
		t.Error("theme without colors should not be dark")
	}
}

func TestCSS(t *testing.T) {
	css := Builtin().Lookup("monokai").CSS()
	for _, want := range []string{"background-color: #3E3D32", "color: #F8F8F2", "html { background-color: #272822; }"} {
		if !strings.Contains(css, want) {
			t.Errorf("CSS missing %q:\n%s", want, css)
		}
	}
}

func TestSearch(t *testing.T) {
	r := Builtin()

	if got := r.Search(""); len(got) != 20 {
		t.Errorf("empty query should list all themes, got %d", len(got))
	}

	got := r.Search("solar")
	if len(got) != 2 {
		t.Fatalf("Search(solar) = %+v", got)
	}
	for _, e := range got {
		if !strings.HasPrefix(e.ID, "solarized") {
			t.Errorf("unexpected match %+v", e)
		}
	}

	if got := r.Search("zzzz"); len(got) != 0 {
		t.Errorf("Search(zzzz) = %+v, want none", got)
	}
}

func TestLoad_UserOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themes.yaml")
	content := `themes:
  - id: dracula
    editor:
      bg: "#000000"
  - id: paper
    name: Paper
    editor: {fg: "#111111", bg: "#FDFDFD"}
    preview: {fg: "#111111", bg: "#FDFDFD"}
  - id: broken
    editor: {fg: "not-a-color"}
  - name: anonymous
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	r, warnings := Load(path)

	if len(warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", warnings)
	}

	dracula := r.Lookup("dracula")
	if dracula.Editor.Background != "#000000" {
		t.Errorf("override not applied: %+v", dracula.Editor)
	}
	if dracula.Editor.Foreground != "#F8F8F2" {
		t.Errorf("unset override fields must keep built-in values: %+v", dracula.Editor)
	}

	if !r.Has("paper") || r.Len() != 21 {
		t.Errorf("new theme not appended, len = %d", r.Len())
	}
	list := r.List()
	if list[len(list)-1].ID != "paper" {
		t.Errorf("user theme should be listed last, got %+v", list[len(list)-1])
	}
	if r.Has("broken") {
		t.Error("invalid theme should be skipped")
	}

	if Builtin().Lookup("dracula").Editor.Background != "#44475A" {
		t.Error("overrides must not leak into the built-in catalog")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	r, warnings := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if len(warnings) != 0 || r.Len() != 20 {
		t.Errorf("Load(missing) = %d themes, %v", r.Len(), warnings)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"duplicate":  "themes:\n  - {id: light}\n  - {id: light}\n",
		"no default": "themes:\n  - {id: dark}\n",
		"bad color":  "themes:\n  - {id: light, editor: {fg: red}}\n",
		"bad yaml":   "themes: [",
	}
	for name, content := range tests {
		if _, err := parse([]byte(content)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"
	"github.com/studiowebux/mdpad/internal/document"
)

func TestPreviewRenderer_HeadingAndEmphasis(t *testing.T) {
	html, err := NewPreviewRenderer(DefaultOptions()).Render("# Title\n\nSome *text*.")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{"<h1", "Title</h1>", "<em>text</em>"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in output:\n%s", want, html)
		}
	}
}

func TestExportRenderer_HeadingAndEmphasis(t *testing.T) {
	html, err := NewExportRenderer().Render("# Title\n\nSome *text*.")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := "<h1>Title</h1>\n<p>Some <em>text</em>.</p>\n"
	if html != want {
		t.Errorf("Render() mismatch (-want +got):\n%s", cmp.Diff(want, html))
	}
}

func TestFencedCodeIsVerbatim(t *testing.T) {
	source := "Intro\n\n```\n# not a heading\n*not emphasis*\n```\n"

	renderers := map[string]Renderer{
		"preview": NewPreviewRenderer(DefaultOptions()),
		"export":  NewExportRenderer(),
	}

	for name, r := range renderers {
		t.Run(name, func(t *testing.T) {
			html, err := r.Render(source)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if !strings.Contains(html, "<pre") || !strings.Contains(html, "<code") {
				t.Fatalf("expected a pre/code block:\n%s", html)
			}
			for _, literal := range []string{"# not a heading", "*not emphasis*"} {
				if !strings.Contains(html, literal) {
					t.Errorf("literal %q not preserved:\n%s", literal, html)
				}
			}
			if strings.Contains(html, "<h1>not") || strings.Contains(html, "<em>not") {
				t.Errorf("markdown was interpreted inside the fence:\n%s", html)
			}
		})
	}
}

func TestExportRenderer_EscapesCode(t *testing.T) {
	html, err := NewExportRenderer().Render("```html\n<b>bold</b>\n```\n")
	if err != nil {
		t.Fatal(err)
	}
	want := "<pre><code class=\"language-html\">&lt;b&gt;bold&lt;/b&gt;\n</code></pre>\n"
	if html != want {
		t.Errorf("Render() mismatch (-want +got):\n%s", cmp.Diff(want, html))
	}
}

func TestPreviewRenderer_HighlightsKnownLanguage(t *testing.T) {
	html, err := NewPreviewRenderer(DefaultOptions()).Render("```go\nfunc main() {}\n```\n")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, `class="highlight"`) {
		t.Errorf("expected highlight wrapper:\n%s", html)
	}
	if !strings.Contains(html, "chroma") {
		t.Errorf("expected chroma classes:\n%s", html)
	}
}

func TestPreviewRenderer_GFMTable(t *testing.T) {
	source := "| a | b |\n|---|---|\n| 1 | 2 |\n"

	withGFM, _ := NewPreviewRenderer(DefaultOptions()).Render(source)
	if !strings.Contains(withGFM, "<table>") {
		t.Errorf("expected a table with GFM:\n%s", withGFM)
	}

	plain, _ := NewExportRenderer().Render(source)
	if strings.Contains(plain, "<table>") {
		t.Errorf("export renderer should not enable tables:\n%s", plain)
	}
}

func TestRender_Deterministic(t *testing.T) {
	inputs := []string{
		"",
		"# Title\n\nSome *text*.",
		"```python\nprint('hi')\n```",
		"* unclosed [link(\n> quote\n\n<div>raw",
		"\x00\xff broken utf8",
	}

	r := NewPreviewRenderer(DefaultOptions())
	for _, in := range inputs {
		first, err1 := r.Render(in)
		second, err2 := r.Render(in)
		if err1 != nil || err2 != nil {
			t.Fatalf("Render(%q) errors: %v, %v", in, err1, err2)
		}
		if first != second {
			t.Errorf("Render(%q) not deterministic:\n%s\n---\n%s", in, first, second)
		}
	}
}

func TestRender_MalformedPassesThrough(t *testing.T) {
	html, err := NewPreviewRenderer(DefaultOptions()).Render("*unclosed emphasis and [broken link](")
	if err != nil {
		t.Fatalf("malformed markdown must not fail: %v", err)
	}
	if !strings.Contains(html, "unclosed emphasis") {
		t.Errorf("expected literal pass-through:\n%s", html)
	}
}

func TestHighlightCSS(t *testing.T) {
	css, err := HighlightCSS("monokai")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(css, ".chroma") {
		t.Errorf("expected .chroma selectors, got:\n%s", css)
	}

	fallback, err := HighlightCSS("no-such-style")
	if err != nil || fallback == "" {
		t.Errorf("unknown style should fall back, got %q, %v", fallback, err)
	}
}

func TestPipeline_RendersOnEveryChange(t *testing.T) {
	doc := document.New("# One")
	p := NewPipeline(NewExportRenderer())

	var outputs []Output
	p.Subscribe(func(o Output) { outputs = append(outputs, o) })
	p.Attach(doc)

	doc.SetText("# Two words")
	doc.SetText("")

	if len(outputs) != 3 {
		t.Fatalf("got %d outputs, want 3", len(outputs))
	}

	if !strings.Contains(outputs[0].HTML, "One") || outputs[0].Words != 2 {
		t.Errorf("first output = %+v", outputs[0])
	}
	if !strings.Contains(outputs[1].HTML, "Two words") || outputs[1].Words != 3 {
		t.Errorf("second output = %+v", outputs[1])
	}
	if outputs[2].HTML != "" || outputs[2].Words != 0 {
		t.Errorf("empty document output = %+v", outputs[2])
	}
	if outputs[2].Seq != 3 {
		t.Errorf("Seq = %d, want 3", outputs[2].Seq)
	}
}

func TestPipeline_KeepsLastGoodOnError(t *testing.T) {
	fail := false
	r := RendererFunc(func(src string) (string, error) {
		if fail {
			return "", errors.New("boom")
		}
		return "<p>" + src + "</p>", nil
	})

	p := NewPipeline(r)
	p.Update("good")

	fail = true
	out := p.Update("bad")

	if out.Err == nil {
		t.Fatal("expected error to be surfaced")
	}
	if out.HTML != "<p>good</p>" {
		t.Errorf("HTML = %q, want last good render", out.HTML)
	}
	if out.Words != 1 {
		t.Errorf("Words = %d, want 1 (counted from the new text)", out.Words)
	}

	fail = false
	out = p.Update("fixed")
	if out.Err != nil || out.HTML != "<p>fixed</p>" {
		t.Errorf("recovery output = %+v", out)
	}
}

func TestPipeline_RecoversFromPanic(t *testing.T) {
	r := RendererFunc(func(string) (string, error) {
		panic("renderer exploded")
	})

	p := NewPipeline(r)
	out := p.Update("anything")

	if out.Err == nil || !strings.Contains(out.Err.Error(), "renderer exploded") {
		t.Errorf("expected panic to be converted to error, got %v", out.Err)
	}
	if out.HTML != "" {
		t.Errorf("HTML = %q, want empty preview before any good render", out.HTML)
	}
}

func TestPipeline_LateSubscriberGetsLatest(t *testing.T) {
	p := NewPipeline(NewExportRenderer())
	p.Update("*hi*")

	var got Output
	p.Subscribe(func(o Output) { got = o })

	if !strings.Contains(got.HTML, "<em>hi</em>") {
		t.Errorf("late subscriber got %+v", got)
	}
}

func TestPipeline_Detach(t *testing.T) {
	doc := document.New("a")
	p := NewPipeline(NewExportRenderer())
	p.Attach(doc)
	p.Detach()

	doc.SetText("b c")
	if p.Output().Words != 1 {
		t.Errorf("detached pipeline should not re-render, words = %d", p.Output().Words)
	}
}

func TestTerminalRenderer(t *testing.T) {
	tr, err := NewTerminalRenderer(40, "no-such-style", true)
	if err != nil {
		t.Fatalf("NewTerminalRenderer() error = %v", err)
	}
	if tr.Style() != "dark" {
		t.Errorf("Style() = %q, want dark fallback", tr.Style())
	}

	out, err := tr.Render("# Heading\n\nbody text")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out = ansi.Strip(out)
	if !strings.Contains(out, "Heading") || !strings.Contains(out, "body text") {
		t.Errorf("unexpected terminal output:\n%s", out)
	}
}

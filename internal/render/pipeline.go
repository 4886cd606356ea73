package render

import (
	"fmt"

	"github.com/studiowebux/mdpad/internal/document"
	"github.com/studiowebux/mdpad/internal/logging"
)

// Output is the result of rendering one version of the document
type Output struct {
	Seq   uint64 // increments on every render
	HTML  string // last good HTML when Err is set
	Words int
	Err   error // render failure, nil on success
}

// Sink receives every Output produced by a Pipeline
type Sink func(Output)

// Pipeline re-renders the document on every change and fans the result
// out to preview sinks. A failing renderer never takes the process down:
// the previous HTML is kept and the error is reported in Output.Err.
type Pipeline struct {
	renderer    Renderer
	last        Output
	sinks       []Sink
	unsubscribe func()
}

// NewPipeline creates a pipeline around renderer
func NewPipeline(renderer Renderer) *Pipeline {
	return &Pipeline{renderer: renderer}
}

// Attach subscribes the pipeline to doc and renders its current text
func (p *Pipeline) Attach(doc *document.Document) {
	p.Detach()
	p.unsubscribe = doc.Subscribe(func(text string) {
		p.Update(text)
	})
	p.Update(doc.Text())
}

// Detach stops following the document
func (p *Pipeline) Detach() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

// Subscribe adds a sink. It immediately receives the latest output when
// something has been rendered already.
func (p *Pipeline) Subscribe(sink Sink) {
	p.sinks = append(p.sinks, sink)
	if p.last.Seq > 0 {
		sink(p.last)
	}
}

// Update renders text and notifies sinks
func (p *Pipeline) Update(text string) Output {
	html, err := p.safeRender(text)

	out := Output{
		Seq:   p.last.Seq + 1,
		Words: document.CountWords(text),
	}
	if err != nil {
		logging.Error("render failed", err, "seq", out.Seq)
		out.HTML = p.last.HTML
		out.Err = err
	} else {
		out.HTML = html
	}

	p.last = out
	for _, sink := range p.sinks {
		sink(out)
	}
	return out
}

// Output returns the latest render
func (p *Pipeline) Output() Output {
	return p.last
}

// SetRenderer swaps the renderer; the next Update uses it
func (p *Pipeline) SetRenderer(renderer Renderer) {
	p.renderer = renderer
}

func (p *Pipeline) safeRender(text string) (html string, err error) {
	defer func() {
		if r := recover(); r != nil {
			html = ""
			err = fmt.Errorf("renderer panic: %v", r)
		}
	}()
	return p.renderer.Render(text)
}

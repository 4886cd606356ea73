// Package document holds the Markdown source being edited and notifies
// subscribers whenever it changes.
package document

import (
	"strings"
	"unicode"
)

// Observer is called with the full text after every change.
type Observer func(text string)

// Document is the single editable Markdown buffer of the application.
// It is owned by the UI loop and is not safe for concurrent use.
type Document struct {
	text      string
	path      string
	savedText string
	crlf      bool
	observers []*subscription
}

type subscription struct {
	fn     Observer
	active bool
}

// New creates a document with the given initial text. The text counts as
// saved so a fresh document is not reported as modified.
func New(text string) *Document {
	return &Document{text: text, savedText: text}
}

// Text returns the current source.
func (d *Document) Text() string {
	return d.text
}

// SetText replaces the source and notifies every subscriber, in
// subscription order, before returning. Any string is accepted.
func (d *Document) SetText(text string) {
	d.text = text
	d.notify()
}

// Load replaces the source wholesale with text read from path and marks
// it as saved.
func (d *Document) Load(path, text string) {
	d.path = path
	d.savedText = text
	d.SetText(text)
}

// Subscribe registers fn and returns a function that removes it.
func (d *Document) Subscribe(fn Observer) func() {
	sub := &subscription{fn: fn, active: true}
	d.observers = append(d.observers, sub)
	return func() {
		sub.active = false
		for i, s := range d.observers {
			if s == sub {
				d.observers = append(d.observers[:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

// Path returns the file backing the document, empty when unsaved.
func (d *Document) Path() string {
	return d.path
}

// SetPath records a new backing file (Save As).
func (d *Document) SetPath(path string) {
	d.path = path
}

// Modified reports whether the text differs from what was last loaded or saved.
func (d *Document) Modified() bool {
	return d.text != d.savedText
}

// MarkSaved records the current text as persisted.
func (d *Document) MarkSaved() {
	d.savedText = d.text
}

// SetCRLF chooses the line ending FileText writes. The text itself
// always uses LF.
func (d *Document) SetCRLF(crlf bool) {
	d.crlf = crlf
}

// CRLF reports whether the document is written with CRLF line endings.
func (d *Document) CRLF() bool {
	return d.crlf
}

// FileText returns the text as it is written to disk.
func (d *Document) FileText() string {
	if d.crlf {
		return strings.ReplaceAll(d.text, "\n", "\r\n")
	}
	return d.text
}

// NormalizeLineEndings converts CRLF and lone CR line breaks to LF and
// reports whether raw used CRLF.
func NormalizeLineEndings(raw string) (text string, crlf bool) {
	crlf = strings.Contains(raw, "\r\n")
	text = strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n"), crlf
}

// WordCount counts the words of the current text.
func (d *Document) WordCount() int {
	return CountWords(d.text)
}

func (d *Document) notify() {
	// Copy so observers may unsubscribe while being notified.
	subs := make([]*subscription, len(d.observers))
	copy(subs, d.observers)
	for _, s := range subs {
		if s.active {
			s.fn(d.text)
		}
	}
}

// isWordSeparator reports Unicode white space plus the information
// separators U+001C to U+001F.
func isWordSeparator(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// CountWords returns the number of maximal runs of non-separator
// characters in text.
func CountWords(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		if isWordSeparator(r) {
			inWord = false
			continue
		}
		if !inWord {
			count++
			inWord = true
		}
	}
	return count
}

// CountLines returns the number of lines, counting a trailing partial line.
func CountLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

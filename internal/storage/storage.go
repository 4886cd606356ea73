// Package storage reads and writes Markdown documents and HTML exports.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/studiowebux/mdpad/internal/config"
)

// ErrNotUTF8 is returned (wrapped in an IOError) when a file is not valid UTF-8 text
var ErrNotUTF8 = errors.New("file is not valid UTF-8 text")

// IOError describes a failed open, save or export
type IOError struct {
	Op   string // "open", "save", "export"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Open reads a Markdown file. The file must be valid UTF-8.
func Open(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &IOError{Op: "open", Path: path, Err: unwrapPathError(err)}
	}
	if !utf8.Valid(data) {
		return "", &IOError{Op: "open", Path: path, Err: ErrNotUTF8}
	}
	return string(data), nil
}

// Save writes text to path, truncating any existing file. Parent
// directories are not created.
func Save(path, text string) error {
	if err := os.WriteFile(path, []byte(text), config.FilePermissions); err != nil {
		return &IOError{Op: "save", Path: path, Err: unwrapPathError(err)}
	}
	return nil
}

// ExportHTML writes rendered HTML to path
func ExportHTML(path, html string) error {
	if err := os.WriteFile(path, []byte(html), config.FilePermissions); err != nil {
		return &IOError{Op: "export", Path: path, Err: unwrapPathError(err)}
	}
	return nil
}

// ResolvePath expands ~ and appends ext when the user typed a name with
// no extension at all
func ResolvePath(input, ext string) (string, error) {
	path, err := config.ExpandPath(input)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", errors.New("no file name given")
	}
	if filepath.Ext(path) == "" && !strings.HasSuffix(path, string(filepath.Separator)) {
		path += ext
	}
	return path, nil
}

// ExportPathFor suggests an export path next to a Markdown file
func ExportPathFor(markdownPath string) string {
	if markdownPath == "" {
		return "untitled.html"
	}
	return strings.TrimSuffix(markdownPath, filepath.Ext(markdownPath)) + ".html"
}

// os errors already carry the path; keep only the cause so messages
// don't repeat it.
func unwrapPathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}

// Package cli implements the non-interactive commands: render, export,
// count, stats, themes, serve and keybinds.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/studiowebux/mdpad/internal/config"
	"github.com/studiowebux/mdpad/internal/document"
	"github.com/studiowebux/mdpad/internal/history"
	"github.com/studiowebux/mdpad/internal/keybinds"
	"github.com/studiowebux/mdpad/internal/logging"
	"github.com/studiowebux/mdpad/internal/preview"
	"github.com/studiowebux/mdpad/internal/render"
	"github.com/studiowebux/mdpad/internal/stats"
	"github.com/studiowebux/mdpad/internal/storage"
	"github.com/studiowebux/mdpad/internal/theme"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// DefaultWatchInterval is how often serve checks the file for changes
const DefaultWatchInterval = 500 * time.Millisecond

// isInteractive checks if stdin is a terminal (not piped)
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// readSource reads the document at path, or stdin when path is empty or "-"
func readSource(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		if stdin == os.Stdin && isInteractive() {
			return "", fmt.Errorf("no file given and nothing piped on stdin")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(data), nil
	}

	resolved, err := storage.ResolvePath(path, ".md")
	if err != nil {
		return "", err
	}
	return storage.Open(resolved)
}

// RenderOptions controls the render command
type RenderOptions struct {
	FilePath string
	Export   bool   // plain CommonMark output, as written by export
	Style    string // chroma style for the preview renderer
}

// Render writes the HTML of a document to w
func Render(w io.Writer, stdin io.Reader, opts RenderOptions) error {
	source, err := readSource(opts.FilePath, stdin)
	if err != nil {
		return err
	}

	var r render.Renderer
	if opts.Export {
		r = render.NewExportRenderer()
	} else {
		o := render.DefaultOptions()
		if opts.Style != "" {
			o.HighlightStyle = opts.Style
		}
		r = render.NewPreviewRenderer(o)
	}

	html, err := r.Render(source)
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	_, err = io.WriteString(w, html)
	return err
}

// Export renders the Markdown file at path and writes the HTML to out.
// An empty out writes next to the source file. Returns the written path.
func Export(path, out string, recent *history.Manager) (string, error) {
	resolved, err := storage.ResolvePath(path, ".md")
	if err != nil {
		return "", err
	}
	source, err := storage.Open(resolved)
	if err != nil {
		return "", err
	}

	if out == "" {
		out = storage.ExportPathFor(resolved)
	} else if out, err = storage.ResolvePath(out, ".html"); err != nil {
		return "", err
	}

	html, err := render.NewExportRenderer().Render(source)
	if err != nil {
		return "", fmt.Errorf("failed to render: %w", err)
	}
	if err := storage.ExportHTML(out, html); err != nil {
		return "", err
	}

	if recent != nil {
		if err := recent.Record(resolved, history.ActionExport, document.CountWords(source)); err != nil {
			logging.Error("failed to record export", err, "path", resolved)
		}
	}
	return out, nil
}

// Count writes the word count of a document
func Count(w io.Writer, stdin io.Reader, path string) error {
	source, err := readSource(path, stdin)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, document.CountWords(source))
	return err
}

// StatsOptions controls the stats command
type StatsOptions struct {
	FilePath string
	Query    string // JMESPath expression
	Format   string // json, yaml, text
}

// Stats writes document statistics
func Stats(w io.Writer, stdin io.Reader, opts StatsOptions) error {
	source, err := readSource(opts.FilePath, stdin)
	if err != nil {
		return err
	}
	s := stats.Compute(source)

	switch opts.Format {
	case "", "json":
		out, err := stats.Query(s, opts.Query)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err

	case "yaml":
		out, err := stats.Query(s, opts.Query)
		if err != nil {
			return err
		}
		var data interface{}
		if err := yaml.Unmarshal([]byte(out), &data); err != nil {
			return fmt.Errorf("failed to convert to yaml: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)

	case "text":
		if opts.Query != "" {
			return fmt.Errorf("--query requires json or yaml output")
		}
		return writeStatsText(w, s)

	default:
		return fmt.Errorf("unknown format %q (json, yaml, text)", opts.Format)
	}
}

func writeStatsText(w io.Writer, s stats.Stats) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Words:       %d\n", s.Words)
	fmt.Fprintf(&sb, "Characters:  %d\n", s.Characters)
	fmt.Fprintf(&sb, "Lines:       %d\n", s.Lines)
	fmt.Fprintf(&sb, "Headings:    %d\n", len(s.Headings))
	fmt.Fprintf(&sb, "Code blocks: %d\n", len(s.CodeBlocks))
	fmt.Fprintf(&sb, "Links:       %d\n", len(s.Links))
	fmt.Fprintf(&sb, "Images:      %d\n", s.Images)
	fmt.Fprintf(&sb, "Tables:      %d\n", s.Tables)
	if len(s.Headings) > 0 {
		sb.WriteString("\nOutline:\n")
		for _, h := range s.Headings {
			fmt.Fprintf(&sb, "%s%s\n", strings.Repeat("  ", h.Level-1), h.Text)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Themes lists the theme catalog, marking current
func Themes(w io.Writer, registry *theme.Registry, current string) error {
	for i, e := range registry.List() {
		marker := " "
		if e.ID == current {
			marker = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %2d. %-18s %s\n", marker, i+1, e.ID, e.Name); err != nil {
			return err
		}
	}
	return nil
}

// ValidateKeybinds checks the keybinding file at path. It returns an
// error when the file has errors; warnings are only printed.
func ValidateKeybinds(w io.Writer, path string) error {
	cfg, err := keybinds.LoadConfig(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(w, "%s does not exist, using default keybindings\n", path)
			return nil
		}
		return err
	}

	result := keybinds.NewValidator().ValidateConfig(cfg)
	fmt.Fprintln(w, result.String())
	if result.HasErrors() {
		return fmt.Errorf("%s has %d error(s)", path, len(result.Errors))
	}
	return nil
}

// ServeOptions controls the serve command
type ServeOptions struct {
	FilePath string
	Addr     string
	Theme    theme.Theme
	Interval time.Duration // file polling interval
	Ready    func(url string)
}

// Serve runs the browser preview for a file until ctx is cancelled,
// re-rendering whenever the file changes on disk
func Serve(ctx context.Context, opts ServeOptions) error {
	path, err := storage.ResolvePath(opts.FilePath, ".md")
	if err != nil {
		return err
	}
	text, err := storage.Open(path)
	if err != nil {
		return err
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	ro := render.DefaultOptions()
	if opts.Theme.Highlight != "" {
		ro.HighlightStyle = opts.Theme.Highlight
	}

	doc := document.New(text)
	doc.SetPath(path)
	pipeline := render.NewPipeline(render.NewPreviewRenderer(ro))

	server := preview.NewServer(opts.Addr, opts.Theme)
	server.SetTitle(displayName(path))
	pipeline.Subscribe(server.Publish)
	pipeline.Attach(doc)

	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	if opts.Ready != nil {
		opts.Ready(server.URL())
	}

	return watch(ctx, path, interval, func(text string) {
		doc.SetText(text)
	})
}

// watch polls path and calls onChange with the new contents whenever the
// modification time or size changes
func watch(ctx context.Context, path string, interval time.Duration, onChange func(string)) error {
	last, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			info, err := os.Stat(path)
			if err != nil {
				// Editors often replace files by rename; try again next tick
				continue
			}
			if info.ModTime().Equal(last.ModTime()) && info.Size() == last.Size() {
				continue
			}
			last = info

			text, err := storage.Open(path)
			if err != nil {
				logging.Error("failed to reload watched file", err, "path", path)
				continue
			}
			logging.L().Debug("watched file changed", "path", path)
			onChange(text)
		}
	}
}

func displayName(path string) string {
	if path == "" {
		return "untitled"
	}
	return filepath.Base(path)
}

// OpenHistory opens the recent files database unless history is disabled
func OpenHistory(settings config.Settings) *history.Manager {
	if !settings.HistoryEnabled {
		return nil
	}
	m, err := history.NewManager(config.DatabasePath)
	if err != nil {
		logging.Error("recent files unavailable", err)
		return nil
	}
	return m
}

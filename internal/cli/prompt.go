package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/studiowebux/mdpad/internal/history"
)

// ErrNoRecentFiles is returned when there is nothing to pick from
var ErrNoRecentFiles = errors.New("no recent files")

var (
	selectorTitle  = lipgloss.NewStyle().MarginLeft(2).Bold(true)
	rowStyle       = lipgloss.NewStyle().PaddingLeft(4)
	cursorRowStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	goneRowStyle   = rowStyle.Foreground(lipgloss.Color("241")).Strikethrough(true)
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1).MarginLeft(2)
)

// recentItem is one row of the selector; missing files are shown struck
// through and cannot be opened
type recentItem struct {
	history.Entry
	missing bool
}

func (i recentItem) FilterValue() string { return i.Path }

// describe summarizes an entry, e.g. "saved 3 minutes ago, 120 words"
func describe(e history.Entry) string {
	verb := "opened"
	switch e.LastAction {
	case history.ActionSave:
		verb = "saved"
	case history.ActionExport:
		verb = "exported"
	}

	s := verb + " " + humanize.Time(e.UsedAt)
	if e.Words > 0 {
		s += ", " + humanize.Comma(int64(e.Words)) + " words"
	}
	return s
}

// recentDelegate draws each entry on a single line
type recentDelegate struct{}

func (recentDelegate) Height() int                         { return 1 }
func (recentDelegate) Spacing() int                        { return 0 }
func (recentDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (recentDelegate) Render(w io.Writer, l list.Model, index int, li list.Item) {
	it, ok := li.(recentItem)
	if !ok {
		return
	}

	row := fmt.Sprintf("%d. %-24s %s", index+1, it.Name(), describe(it.Entry))
	style := rowStyle
	if index == l.Index() {
		row = "> " + row
		style = cursorRowStyle
	} else if it.missing {
		style = goneRowStyle
	}
	_, _ = io.WriteString(w, style.Render(row))
}

type recentSelector struct {
	list   list.Model
	choice string
	done   bool
}

func newSelector(entries []history.Entry) recentSelector {
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, recentItem{Entry: e, missing: !e.Exists()})
	}

	l := list.New(items, recentDelegate{}, 80, min(len(items)+6, 20))
	l.Title = "Recent files"
	l.Styles.Title = selectorTitle
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return recentSelector{list: l}
}

func (s recentSelector) Init() tea.Cmd { return nil }

func (s recentSelector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		s.list.SetWidth(size.Width)
		return s, nil
	}

	// Keys go to the filter input while the user is typing a filter
	if key, ok := msg.(tea.KeyMsg); ok && s.list.FilterState() != list.Filtering {
		switch key.String() {
		case "ctrl+c", "q", "esc":
			s.done = true
			return s, tea.Quit
		case "enter":
			it, ok := s.list.SelectedItem().(recentItem)
			if !ok || it.missing {
				return s, nil
			}
			s.choice = it.Path
			s.done = true
			return s, tea.Quit
		}
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s recentSelector) View() string {
	if s.done {
		return ""
	}
	return s.list.View() + "\n\n" + hintStyle.Render("↑/↓: navigate • /: filter • enter: open • q/esc: cancel")
}

// SelectRecent shows an interactive list of recent files and returns the
// chosen path, or "" when cancelled
func SelectRecent(entries []history.Entry) (string, error) {
	if len(entries) == 0 {
		return "", ErrNoRecentFiles
	}

	final, err := tea.NewProgram(newSelector(entries)).Run()
	if err != nil {
		return "", fmt.Errorf("recent file selector: %w", err)
	}
	if s, ok := final.(recentSelector); ok {
		return s.choice, nil
	}
	return "", nil
}

// ListRecent prints recent files, one per line
func ListRecent(w io.Writer, entries []history.Entry) error {
	var sb strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&sb, "%2d. %s  (%s)  %s\n", i+1, e.Name(), filepath.Dir(e.Path), describe(e))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

package tui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/studiowebux/mdpad/internal/history"
	"github.com/studiowebux/mdpad/internal/keybinds"
	"github.com/studiowebux/mdpad/internal/logging"
)

// pickerItem is one row of the recent files or theme picker
type pickerItem struct {
	title   string
	detail  string
	value   string // file path or theme id
	missing bool   // recent file no longer on disk
}

// openRecentPicker lists recently used documents, newest first
func (m *Model) openRecentPicker() tea.Cmd {
	m.mode = ModeRecent
	m.pickerIndex = 0
	m.filter.Reset()
	m.refreshPicker()
	return m.filter.Focus()
}

// openThemePicker lists the theme catalog with the active theme selected
func (m *Model) openThemePicker() tea.Cmd {
	m.mode = ModeThemes
	m.filter.Reset()
	m.refreshPicker()
	m.pickerIndex = 0
	for i, item := range m.pickerItems {
		if item.value == m.themeID {
			m.pickerIndex = i
			break
		}
	}
	return m.filter.Focus()
}

// recentItems loads recent files from the database, or from the session
// when the database is unavailable
func (m *Model) recentItems() []pickerItem {
	if m.historyMgr != nil {
		entries, err := m.historyMgr.Recent(history.DefaultLimit)
		if err != nil {
			logging.Error("failed to load recent files", err)
		} else {
			items := make([]pickerItem, len(entries))
			for i, e := range entries {
				items[i] = pickerItem{
					title:   e.Name(),
					detail:  describeRecent(e),
					value:   e.Path,
					missing: !e.Exists(),
				}
			}
			return items
		}
	}

	paths := m.sessionMgr.GetRecentFiles()
	items := make([]pickerItem, len(paths))
	for i, p := range paths {
		_, err := os.Stat(p)
		items[i] = pickerItem{
			title:   displayPath(p),
			detail:  p,
			value:   p,
			missing: err != nil,
		}
	}
	return items
}

// describeRecent summarizes an entry, e.g. "saved 3 minutes ago, 1,204 words"
func describeRecent(e history.Entry) string {
	verb := "opened"
	switch e.LastAction {
	case history.ActionSave:
		verb = "saved"
	case history.ActionExport:
		verb = "exported"
	}
	detail := fmt.Sprintf("%s %s", verb, humanize.Time(e.UsedAt))
	if e.Words > 0 {
		detail += ", " + humanize.Comma(int64(e.Words)) + " words"
	}
	return detail
}

func (m *Model) themeItems() []pickerItem {
	entries := m.themes.Search(m.filter.Value())
	items := make([]pickerItem, len(entries))
	for i, e := range entries {
		items[i] = pickerItem{title: e.Name, detail: e.ID, value: e.ID}
	}
	return items
}

// refreshPicker rebuilds the visible rows for the current filter
func (m *Model) refreshPicker() {
	if m.mode == ModeThemes {
		m.pickerItems = m.themeItems()
	} else {
		m.pickerItems = filterRecent(m.recentItems(), m.filter.Value())
	}
	if m.pickerIndex >= len(m.pickerItems) {
		m.pickerIndex = max(len(m.pickerItems)-1, 0)
	}
}

// filterRecent keeps the items whose name or path fuzzy-matches query,
// preserving recency order
func filterRecent(items []pickerItem, query string) []pickerItem {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}

	targets := make([]string, len(items))
	for i, item := range items {
		targets[i] = item.title + " " + item.value
	}
	ranks := fuzzy.RankFindNormalizedFold(query, targets)
	matched := make(map[int]bool, len(ranks))
	for _, r := range ranks {
		matched[r.OriginalIndex] = true
	}

	filtered := make([]pickerItem, 0, len(ranks))
	for i, item := range items {
		if matched[i] {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// handlePickerKeys handles the recent files and theme pickers. Keys that
// are not bound go to the filter input.
func (m *Model) handlePickerKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextPicker, msg.String())
	if !ok {
		before := m.filter.Value()
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		if m.filter.Value() != before {
			m.pickerIndex = 0
			m.refreshPicker()
		}
		return cmd
	}

	n := len(m.pickerItems)
	switch action {
	case keybinds.ActionCloseModal:
		m.filter.Blur()
		m.mode = ModeNormal

	case keybinds.ActionNavigateUp:
		if n > 0 {
			m.pickerIndex = (m.pickerIndex - 1 + n) % n
		}

	case keybinds.ActionNavigateDown:
		if n > 0 {
			m.pickerIndex = (m.pickerIndex + 1) % n
		}

	case keybinds.ActionPageUp:
		m.pickerIndex = max(m.pickerIndex-PickerVisibleRows, 0)

	case keybinds.ActionPageDown:
		m.pickerIndex = max(min(m.pickerIndex+PickerVisibleRows, n-1), 0)

	case keybinds.ActionSelect:
		return m.selectPickerItem()
	}
	return nil
}

func (m *Model) selectPickerItem() tea.Cmd {
	if len(m.pickerItems) == 0 {
		return nil
	}
	item := m.pickerItems[m.pickerIndex]
	mode := m.mode
	m.filter.Blur()
	m.mode = ModeNormal

	if mode == ModeThemes {
		return m.applyTheme(item.value)
	}

	if item.missing {
		if m.historyMgr != nil {
			if err := m.historyMgr.Remove(item.value); err != nil {
				logging.Error("failed to remove recent file", err)
			}
		}
		return m.setErrorMessage("File not found: " + item.value)
	}
	return m.guardUnsaved(&pendingAction{kind: pendingOpenPath, path: item.value})
}

// renderPickerModal renders the filter input with the matching rows
func (m *Model) renderPickerModal() string {
	title := "Recent Files"
	empty := "No recent files"
	if m.mode == ModeThemes {
		title = "Themes"
		empty = "No matching theme"
	}

	var content strings.Builder
	content.WriteString(m.filter.View())
	content.WriteString("\n\n")

	if len(m.pickerItems) == 0 {
		content.WriteString(styleSubtle.Render(empty))
	}
	for i, item := range m.pickerItems {
		marker := "  "
		if m.mode == ModeThemes && item.value == m.themeID {
			marker = "● "
		}
		line := fmt.Sprintf("%s%-24s %s", marker, item.title, styleSubtle.Render(item.detail))
		if item.missing {
			line = fmt.Sprintf("%s%-24s %s", marker, item.title, styleError.Render("(missing)"))
		}
		if i == m.pickerIndex {
			line = styleSelected.Render(line)
		}
		content.WriteString(line + "\n")
	}

	footer := "[↑/↓] select [enter] open [esc] close | type to filter"
	// Two lines of filter input above the rows
	return m.renderModal(modal{title: title, body: content.String(), footer: footer, width: 76, height: PickerVisibleRows + 10, follow: m.pickerIndex + 2})
}

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/mdpad/internal/keybinds"
	"github.com/studiowebux/mdpad/internal/theme"
)

// menuEntry is one selectable row of the main menu. Theme rows carry the
// theme id instead of an action.
type menuEntry struct {
	label   string
	action  keybinds.Action
	themeID string
}

type menuGroup struct {
	title   string
	entries []menuEntry
}

// buildMenu lays out the main menu: File, Export, Theme, View, Quit
func buildMenu(registry *theme.Registry) []menuGroup {
	themes := make([]menuEntry, 0, registry.Len())
	for _, t := range registry.List() {
		themes = append(themes, menuEntry{label: t.Name, themeID: t.ID})
	}

	return []menuGroup{
		{title: "File", entries: []menuEntry{
			{label: "New", action: keybinds.ActionNew},
			{label: "Open...", action: keybinds.ActionOpen},
			{label: "Save", action: keybinds.ActionSave},
			{label: "Save As...", action: keybinds.ActionSaveAs},
			{label: "Recent Files...", action: keybinds.ActionRecent},
		}},
		{title: "Export", entries: []menuEntry{
			{label: "Export to HTML...", action: keybinds.ActionExport},
			{label: "Copy HTML", action: keybinds.ActionCopyHTML},
		}},
		{title: "Theme", entries: themes},
		{title: "View", entries: []menuEntry{
			{label: "Toggle Preview", action: keybinds.ActionTogglePreview},
			{label: "Toggle HTML Source", action: keybinds.ActionToggleSource},
			{label: "Help", action: keybinds.ActionOpenHelp},
		}},
		{title: "Quit", entries: []menuEntry{
			{label: "Quit", action: keybinds.ActionQuit},
		}},
	}
}

func (m *Model) openMenu() {
	m.menuItem = 0
	if m.menuGroups[m.menuGroup].title == "Theme" {
		m.selectCurrentTheme()
	}
	m.modalView.GotoTop()
	m.mode = ModeMenu
}

// selectCurrentTheme moves the menu cursor onto the active theme
func (m *Model) selectCurrentTheme() {
	for i, e := range m.menuGroups[m.menuGroup].entries {
		if e.themeID == m.themeID {
			m.menuItem = i
			return
		}
	}
}

// handleMenuKeys handles keyboard input in the main menu
func (m *Model) handleMenuKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextMenu, msg.String())
	if !ok {
		return nil
	}

	entries := m.menuGroups[m.menuGroup].entries
	switch action {
	case keybinds.ActionCloseModal:
		m.mode = ModeNormal

	case keybinds.ActionNavigateUp:
		m.menuItem = (m.menuItem - 1 + len(entries)) % len(entries)

	case keybinds.ActionNavigateDown:
		m.menuItem = (m.menuItem + 1) % len(entries)

	case keybinds.ActionNavigateLeft:
		m.switchMenuGroup(-1)

	case keybinds.ActionNavigateRight:
		m.switchMenuGroup(1)

	case keybinds.ActionSelect:
		entry := entries[m.menuItem]
		m.mode = ModeNormal
		if entry.themeID != "" {
			return m.applyTheme(entry.themeID)
		}
		return m.runAction(entry.action)
	}
	return nil
}

func (m *Model) switchMenuGroup(delta int) {
	n := len(m.menuGroups)
	m.menuGroup = (m.menuGroup + delta + n) % n
	m.menuItem = 0
	if m.menuGroups[m.menuGroup].title == "Theme" {
		m.selectCurrentTheme()
	}
	m.modalView.GotoTop()
}

// renderMenu renders the menu bar with the open group's entries below it
func (m *Model) renderMenu() string {
	var bar []string
	for i, g := range m.menuGroups {
		title := " " + g.title + " "
		if i == m.menuGroup {
			bar = append(bar, styleSelected.Bold(true).Render(title))
		} else {
			bar = append(bar, title)
		}
	}

	var content strings.Builder
	content.WriteString(strings.Join(bar, " "))
	content.WriteString("\n\n")

	for i, e := range m.menuGroups[m.menuGroup].entries {
		marker := "  "
		if e.themeID != "" && e.themeID == m.themeID {
			marker = "● "
		}
		line := marker + e.label
		if e.action != "" {
			if key := m.keybinds.GetBindingString(keybinds.ContextEditor, e.action); key != "" {
				line = fmt.Sprintf("%-24s %s", line, styleSubtle.Render(key))
			}
		}
		if i == m.menuItem {
			line = styleSelected.Render(line)
		}
		content.WriteString(line + "\n")
	}

	footer := "[←/→] menus [↑/↓] select [enter] run [esc] close"
	// Two lines of menu bar above the entries
	return m.renderModal(modal{title: "Menu", body: content.String(), footer: footer, width: 60, height: 20, follow: m.menuItem + 2})
}

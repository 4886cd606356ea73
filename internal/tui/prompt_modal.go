package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/mdpad/internal/keybinds"
	"github.com/studiowebux/mdpad/internal/storage"
)

// promptKind selects what a file name prompt does on submit
type promptKind int

const (
	promptOpen promptKind = iota
	promptSaveAs
	promptExport
)

func (k promptKind) title() string {
	switch k {
	case promptSaveAs:
		return "Save As"
	case promptExport:
		return "Export to HTML"
	default:
		return "Open File"
	}
}

// extension is appended when the user types a name without one
func (k promptKind) extension() string {
	if k == promptExport {
		return ".html"
	}
	return ".md"
}

// openPrompt shows the file name prompt prefilled with a sensible path
func (m *Model) openPrompt(kind promptKind) tea.Cmd {
	m.promptKind = kind
	m.promptErr = ""
	m.prompt.Reset()
	m.prompt.Placeholder = "path/to/file" + kind.extension()
	m.prompt.CharLimit = 0

	switch kind {
	case promptSaveAs:
		m.prompt.SetValue(m.doc.Path())
	case promptExport:
		m.prompt.SetValue(storage.ExportPathFor(m.doc.Path()))
	}
	m.prompt.CursorEnd()

	m.mode = ModePrompt
	return m.prompt.Focus()
}

// handlePromptKeys handles keyboard input in the file name prompt
func (m *Model) handlePromptKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextPrompt, msg.String())
	if ok {
		switch action {
		case keybinds.ActionTextCancel:
			m.closePrompt()
			// Cancelling Save As also drops the action that was waiting for it
			m.pending = nil
			return nil
		case keybinds.ActionTextSubmit:
			return m.submitPrompt()
		}
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	m.promptErr = ""
	return cmd
}

func (m *Model) closePrompt() {
	m.prompt.Blur()
	m.mode = ModeNormal
}

// submitPrompt resolves the typed path and runs the prompt's action. An
// empty or unusable name keeps the prompt open.
func (m *Model) submitPrompt() tea.Cmd {
	path, err := storage.ResolvePath(m.prompt.Value(), m.promptKind.extension())
	if err != nil {
		m.promptErr = err.Error()
		return nil
	}
	m.closePrompt()

	switch m.promptKind {
	case promptOpen:
		return m.openPath(path)

	case promptSaveAs:
		cmd := m.saveTo(path)
		if m.pending != nil {
			if m.doc.Modified() {
				// Save failed: the error is in the status bar and the
				// pending action is dropped
				m.pending = nil
				return cmd
			}
			return tea.Batch(cmd, m.continuePending(m.pending))
		}
		return cmd

	case promptExport:
		return m.exportTo(path)
	}
	return nil
}

// renderPromptModal renders the file name prompt
func (m *Model) renderPromptModal() string {
	var content strings.Builder
	content.WriteString(m.prompt.View())
	if m.promptErr != "" {
		content.WriteString("\n\n")
		content.WriteString(styleError.Render(m.promptErr))
	}

	footer := "[enter] confirm [esc] cancel | ~ expands to your home directory"
	return m.renderModal(modal{title: m.promptKind.title(), body: content.String(), footer: footer, width: 70, height: 10, follow: -1})
}

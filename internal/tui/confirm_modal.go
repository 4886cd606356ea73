package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/mdpad/internal/keybinds"
)

type pendingKind int

const (
	pendingQuit pendingKind = iota
	pendingNew
	pendingOpenPrompt
	pendingOpenPath
)

// pendingAction is what the user asked for before being told about
// unsaved changes
type pendingAction struct {
	kind pendingKind
	path string // pendingOpenPath only
}

func (p *pendingAction) verb() string {
	switch p.kind {
	case pendingQuit:
		return "quitting"
	case pendingNew:
		return "starting a new document"
	default:
		return "opening another file"
	}
}

// handleConfirmKeys handles the unsaved changes dialog
func (m *Model) handleConfirmKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextConfirm, msg.String())
	if !ok || m.pending == nil {
		return nil
	}

	switch action {
	case keybinds.ActionConfirm:
		// Discard changes
		return m.continuePending(m.pending)

	case keybinds.ActionSaveAndContinue:
		if m.doc.Path() == "" {
			// Save As continues with the pending action once it succeeds
			return m.openPrompt(promptSaveAs)
		}
		cmd := m.saveTo(m.doc.Path())
		if m.doc.Modified() {
			m.pending = nil
			m.mode = ModeNormal
			return cmd
		}
		return tea.Batch(cmd, m.continuePending(m.pending))

	case keybinds.ActionCancel:
		m.pending = nil
		m.mode = ModeNormal
	}
	return nil
}

// renderConfirmModal renders the unsaved changes dialog
func (m *Model) renderConfirmModal() string {
	verb := "continuing"
	if m.pending != nil {
		verb = m.pending.verb()
	}
	content := fmt.Sprintf("%s has unsaved changes.\n\nSave them before %s?",
		styleWarning.Render(m.documentName()), verb)

	footer := fmt.Sprintf("[%s] save [%s] discard [%s] cancel",
		m.keybinds.GetBindingString(keybinds.ContextConfirm, keybinds.ActionSaveAndContinue),
		m.keybinds.GetBindingString(keybinds.ContextConfirm, keybinds.ActionConfirm),
		m.keybinds.GetBindingString(keybinds.ContextConfirm, keybinds.ActionCancel))
	return m.renderModal(modal{title: "Unsaved Changes", body: content, footer: footer, width: 60, height: 11, follow: -1})
}

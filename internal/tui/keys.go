package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/mdpad/internal/keybinds"
)

// handleKeyPress sends a key to the handler of the current mode. The
// force quit binding works everywhere.
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.Match(keybinds.ContextGlobal, msg.String()); ok && action == keybinds.ActionQuitForce {
		m.Cleanup()
		return tea.Quit
	}

	switch m.mode {
	case ModeNormal:
		if m.focusedPanel == panelPreview {
			return m.handlePreviewKeys(msg)
		}
		return m.handleEditorKeys(msg)
	case ModeMenu:
		return m.handleMenuKeys(msg)
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeRecent, ModeThemes:
		return m.handlePickerKeys(msg)
	case ModeConfirm:
		return m.handleConfirmKeys(msg)
	case ModeHelp:
		return m.handleHelpKeys(msg)
	case ModeErrorDetail, ModeStatusDetail:
		return m.handleMessageDetailKeys(msg)
	}

	return nil
}

// handleEditorKeys runs editor shortcuts and hands everything else to
// the textarea
func (m *Model) handleEditorKeys(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.Match(keybinds.ContextEditor, msg.String()); ok {
		return m.runAction(action)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.syncDocument()
	return cmd
}

// scroll moves view for the navigation actions and reports whether
// action was one of them
func scroll(view *viewport.Model, action keybinds.Action) bool {
	switch action {
	case keybinds.ActionNavigateUp:
		view.LineUp(1)
	case keybinds.ActionNavigateDown:
		view.LineDown(1)
	case keybinds.ActionPageUp:
		view.ViewUp()
	case keybinds.ActionPageDown:
		view.ViewDown()
	case keybinds.ActionGoToTop:
		view.GotoTop()
	case keybinds.ActionGoToBottom:
		view.GotoBottom()
	default:
		return false
	}
	return true
}

// handlePreviewKeys scrolls the preview pane; other preview actions run
// as they would from the editor
func (m *Model) handlePreviewKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok, pending := m.keybinds.MatchMultiKey(keybinds.ContextPreview, msg.String())
	if pending || !ok || scroll(&m.previewView, action) {
		return nil
	}
	return m.runAction(action)
}

func (m *Model) handleHelpKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextHelp, msg.String())
	if !ok {
		return nil
	}
	if action == keybinds.ActionCloseModal {
		m.mode = ModeNormal
		return nil
	}
	scroll(&m.helpView, action)
	return nil
}

// handleMessageDetailKeys serves the error and status detail modals.
// Closing the error modal also dismisses the error.
func (m *Model) handleMessageDetailKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextHelp, msg.String())
	if !ok {
		return nil
	}
	if action != keybinds.ActionCloseModal {
		scroll(&m.modalView, action)
		return nil
	}

	if m.mode == ModeErrorDetail {
		m.errorMsg = ""
		m.fullErrorMsg = ""
	}
	m.mode = ModeNormal
	return nil
}

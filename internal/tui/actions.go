package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/mdpad/internal/document"
	"github.com/studiowebux/mdpad/internal/history"
	"github.com/studiowebux/mdpad/internal/keybinds"
	"github.com/studiowebux/mdpad/internal/logging"
	"github.com/studiowebux/mdpad/internal/render"
	"github.com/studiowebux/mdpad/internal/storage"
)

// runAction performs a document or view action from the editor, the
// preview pane or the menu
func (m *Model) runAction(action keybinds.Action) tea.Cmd {
	switch action {
	case keybinds.ActionQuit:
		return m.guardUnsaved(&pendingAction{kind: pendingQuit})

	case keybinds.ActionNew:
		return m.guardUnsaved(&pendingAction{kind: pendingNew})

	case keybinds.ActionOpen:
		return m.guardUnsaved(&pendingAction{kind: pendingOpenPrompt})

	case keybinds.ActionSave:
		if m.doc.Path() == "" {
			return m.openPrompt(promptSaveAs)
		}
		return m.saveTo(m.doc.Path())

	case keybinds.ActionSaveAs:
		return m.openPrompt(promptSaveAs)

	case keybinds.ActionRecent:
		return m.openRecentPicker()

	case keybinds.ActionExport:
		return m.openPrompt(promptExport)

	case keybinds.ActionCopyHTML:
		return m.copyHTML()

	case keybinds.ActionThemes:
		return m.openThemePicker()

	case keybinds.ActionTogglePreview:
		return m.togglePreview()

	case keybinds.ActionToggleSource:
		return m.toggleHTMLSource()

	case keybinds.ActionSwitchFocus:
		m.switchFocus()

	case keybinds.ActionOpenMenu:
		m.openMenu()

	case keybinds.ActionOpenHelp:
		m.updateHelpView()
		m.mode = ModeHelp

	case keybinds.ActionShowMessage:
		switch {
		case m.fullErrorMsg != "":
			m.modalView.GotoTop()
			m.mode = ModeErrorDetail
		case m.fullStatusMsg != "":
			m.modalView.GotoTop()
			m.mode = ModeStatusDetail
		}

	case keybinds.ActionQuitForce:
		m.Cleanup()
		return tea.Quit
	}
	return nil
}

// continuePending carries out an action that was waiting for the user to
// deal with unsaved changes
func (m *Model) continuePending(p *pendingAction) tea.Cmd {
	m.pending = nil
	m.mode = ModeNormal

	switch p.kind {
	case pendingQuit:
		m.Cleanup()
		return tea.Quit
	case pendingNew:
		m.newDocument()
		return m.setStatusMessage("New document")
	case pendingOpenPrompt:
		return m.openPrompt(promptOpen)
	case pendingOpenPath:
		return m.openPath(p.path)
	}
	return nil
}

// guardUnsaved runs p right away when the document is saved, otherwise
// asks the user first
func (m *Model) guardUnsaved(p *pendingAction) tea.Cmd {
	if !m.doc.Modified() {
		return m.continuePending(p)
	}
	m.pending = p
	m.mode = ModeConfirm
	return nil
}

// newDocument replaces the buffer with an empty, unnamed document
func (m *Model) newDocument() {
	m.doc.Load("", "")
	m.doc.SetCRLF(false)
	m.setEditorText("")
	m.previewView.GotoTop()
}

// openPath opens path and reports the outcome in the status bar
func (m *Model) openPath(path string) tea.Cmd {
	notice, err := m.openFile(path)
	if err != nil {
		return m.setErrorMessage(describeError(err))
	}
	msg := "Opened " + displayPath(m.doc.Path())
	if notice != "" {
		msg += " (" + notice + ")"
	}
	return m.setStatusMessage(msg)
}

// openFile loads path into the document. On failure the current
// document is left untouched. The returned notice is non-empty when the
// editor could not show the file byte for byte.
func (m *Model) openFile(input string) (notice string, err error) {
	path, err := storage.ResolvePath(input, ".md")
	if err != nil {
		return "", err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	raw, err := storage.Open(path)
	if err != nil {
		return "", err
	}

	text, crlf := document.NormalizeLineEndings(raw)
	if rows := strings.Count(text, "\n") + 1; rows > EditorMaxLines {
		return "", &storage.IOError{
			Op:   "open",
			Path: path,
			Err:  fmt.Errorf("%d lines is more than the editor holds (%d)", rows, EditorMaxLines),
		}
	}

	m.doc.Load(path, text)
	m.doc.SetCRLF(crlf)
	if !m.setEditorText(text) {
		// The editor expands tabs and drops control characters. The
		// document follows the editor so saving writes what is on screen.
		m.doc.SetText(m.editorValue)
		notice = "tabs or control characters converted"
		logging.L().Warn("document converted for editing", "path", path)
	}

	m.previewView.GotoTop()
	m.recordRecent(path, history.ActionOpen)
	if err := m.sessionMgr.SetLastFile(path); err != nil {
		logging.Error("failed to save session", err)
	}
	logging.L().Info("opened document", "path", path, "words", m.doc.WordCount(), "crlf", crlf)
	return notice, nil
}

// setEditorText replaces the editor contents, puts the cursor at the
// start of the document and reports whether the editor holds text
// unchanged
func (m *Model) setEditorText(text string) bool {
	m.editor.SetValue(text)
	for i := len(text); m.editor.Line() > 0 && i >= 0; i-- {
		m.editor.CursorUp()
	}
	m.editor.CursorStart()
	m.editorValue = m.editor.Value()
	return m.editorValue == text
}

// saveTo writes the document to path and makes it the document's file
func (m *Model) saveTo(path string) tea.Cmd {
	if err := storage.Save(path, m.doc.FileText()); err != nil {
		return m.setErrorMessage(describeError(err))
	}

	m.doc.SetPath(path)
	m.doc.MarkSaved()
	m.recordRecent(path, history.ActionSave)
	if err := m.sessionMgr.SetLastFile(path); err != nil {
		logging.Error("failed to save session", err)
	}
	logging.L().Info("saved document", "path", path, "words", m.doc.WordCount())
	return m.setStatusMessage("Saved " + displayPath(path))
}

// exportTo renders the document with the export renderer and writes it
func (m *Model) exportTo(path string) tea.Cmd {
	html, err := render.NewExportRenderer().Render(m.doc.Text())
	if err != nil {
		return m.setErrorMessage(describeError(err))
	}
	if err := storage.ExportHTML(path, html); err != nil {
		return m.setErrorMessage(describeError(err))
	}

	m.recordRecent(path, history.ActionExport)
	logging.L().Info("exported document", "path", path)
	return m.setStatusMessage("Exported to " + displayPath(path))
}

// copyHTML puts the rendered preview HTML on the system clipboard
func (m *Model) copyHTML() tea.Cmd {
	if err := m.copyToClipboard(m.output.HTML); err != nil {
		return m.setErrorMessage(fmt.Sprintf("Failed to copy HTML: %v", err))
	}
	return m.setStatusMessage("HTML copied to clipboard")
}

// recordRecent remembers path in the recent files database, or in the
// session when the database is unavailable
func (m *Model) recordRecent(path string, action history.Action) {
	if m.historyMgr != nil {
		if err := m.historyMgr.Record(path, action, m.doc.WordCount()); err != nil {
			logging.Error("failed to record recent file", err, "path", path)
		}
		return
	}
	if action == history.ActionExport {
		return
	}
	if err := m.sessionMgr.AddRecentFile(path); err != nil {
		logging.Error("failed to save session", err)
	}
}

// applyTheme paints the editor with the theme for id and remembers it.
// Unknown ids fall back to the default theme.
func (m *Model) applyTheme(id string) tea.Cmd {
	th := m.themes.Lookup(id)
	m.themeID = th.ID
	m.themes.Apply(th.ID, m)
	m.rebuildPreview()
	if m.server != nil {
		m.server.SetTheme(th)
	}

	if err := m.sessionMgr.SetTheme(th.ID); err != nil {
		logging.Error("failed to save session", err)
	}
	return m.setStatusMessage("Theme: " + th.Name)
}

func (m *Model) togglePreview() tea.Cmd {
	m.showPreview = !m.showPreview
	if !m.showPreview && m.focusedPanel == panelPreview {
		m.focusEditor()
	}
	m.updateLayout()
	m.saveViewState()

	if m.showPreview {
		return m.setStatusMessage("Preview shown")
	}
	return m.setStatusMessage("Preview hidden")
}

func (m *Model) toggleHTMLSource() tea.Cmd {
	m.showHTMLSource = !m.showHTMLSource
	m.refreshPreview()
	m.previewView.GotoTop()
	m.saveViewState()

	if m.showHTMLSource {
		return m.setStatusMessage("Preview: HTML source")
	}
	return m.setStatusMessage("Preview: rendered")
}

func (m *Model) saveViewState() {
	if err := m.sessionMgr.SetPreview(m.showPreview, m.showHTMLSource); err != nil {
		logging.Error("failed to save session", err)
	}
}

func (m *Model) switchFocus() {
	if m.focusedPanel == panelEditor {
		if _, previewWidth := m.paneWidths(); previewWidth == 0 {
			return
		}
		m.focusedPanel = panelPreview
		m.editor.Blur()
		return
	}
	m.focusEditor()
}

func (m *Model) focusEditor() {
	m.focusedPanel = panelEditor
	m.keybinds.ClearMultiKeyState(keybinds.ContextPreview)
	m.editor.Focus()
}

// displayPath shortens a path for the status bar
func displayPath(path string) string {
	return filepath.Base(path)
}

// describeError turns I/O errors into short status bar messages
func describeError(err error) string {
	var ioErr *storage.IOError
	if errors.As(err, &ioErr) {
		return fmt.Sprintf("Cannot %s %s: %v", ioErr.Op, displayPath(ioErr.Path), ioErr.Err)
	}
	return err.Error()
}

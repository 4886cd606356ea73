package tui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/mdpad/internal/config"
	"github.com/studiowebux/mdpad/internal/document"
	"github.com/studiowebux/mdpad/internal/history"
	"github.com/studiowebux/mdpad/internal/keybinds"
	"github.com/studiowebux/mdpad/internal/logging"
	"github.com/studiowebux/mdpad/internal/preview"
	"github.com/studiowebux/mdpad/internal/render"
	"github.com/studiowebux/mdpad/internal/session"
	"github.com/studiowebux/mdpad/internal/theme"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal       Mode = iota
	ModeMenu              // Main menu (File, Export, Theme, View, Quit)
	ModePrompt            // File name prompt (open, save as, export)
	ModeRecent            // Recent files picker
	ModeThemes            // Theme picker
	ModeConfirm           // Unsaved changes confirmation
	ModeHelp              // Keybinding reference
	ModeErrorDetail       // Full error message
	ModeStatusDetail      // Full status message
)

// Focused panels
const (
	panelEditor  = "editor"
	panelPreview = "preview"
)

// Options carries everything the editor needs from the outside
type Options struct {
	Settings config.Settings
	Session  *session.Manager
	Themes   *theme.Registry
	Keybinds *keybinds.Registry
	History  *history.Manager // nil keeps recent files in the session only
	FilePath string           // opened on start when set
}

// Model represents the TUI state
type Model struct {
	settings   config.Settings
	sessionMgr *session.Manager
	historyMgr *history.Manager
	themes     *theme.Registry
	keybinds   *keybinds.Registry
	server     *preview.Server

	// Document and its render chain
	doc          *document.Document
	pipeline     *render.Pipeline // HTML: word count, source view, browser, clipboard
	termPipeline *render.Pipeline // glamour: preview pane
	output       render.Output
	previewText  string
	renderErr    error
	editorValue  string // editor contents last pushed to the document

	// UI state
	mode         Mode
	focusedPanel string
	width        int
	height       int

	editor      textarea.Model
	previewView viewport.Model
	helpView    viewport.Model
	modalView   viewport.Model

	// Theme surfaces
	themeID      string
	windowStyle  lipgloss.Style
	editorStyle  lipgloss.Style
	previewStyle lipgloss.Style

	showPreview    bool
	showHTMLSource bool

	// Messages
	statusMsg     string
	fullStatusMsg string
	errorMsg      string
	fullErrorMsg  string
	statusSeq     int
	errorSeq      int

	// Menu state
	menuGroups []menuGroup
	menuGroup  int
	menuItem   int

	// Prompt state
	prompt     textinput.Model
	promptKind promptKind
	promptErr  string

	// Picker state (recent files, themes)
	filter      textinput.Model
	pickerItems []pickerItem
	pickerIndex int

	// Unsaved changes confirmation
	pending *pendingAction

	copyToClipboard func(string) error
	startup         tea.Cmd
}

// New creates the editor model. The optional file is opened right away;
// failing to open it leaves an empty document with the error in the
// status bar.
func New(opts Options) *Model {
	registry := opts.Themes
	if registry == nil {
		registry = theme.Builtin()
	}
	binds := opts.Keybinds
	if binds == nil {
		binds = keybinds.NewDefaultRegistry()
	}
	sessionMgr := opts.Session
	if sessionMgr == nil {
		sessionMgr = session.NewManager()
	}

	m := &Model{
		settings:        opts.Settings,
		sessionMgr:      sessionMgr,
		historyMgr:      opts.History,
		themes:          registry,
		keybinds:        binds,
		doc:             document.New(""),
		mode:            ModeNormal,
		focusedPanel:    panelEditor,
		editor:          newEditor(),
		previewView:     viewport.New(40, 20),
		helpView:        viewport.New(80, 20),
		modalView:       viewport.New(80, 20),
		prompt:          textinput.New(),
		filter:          textinput.New(),
		copyToClipboard: clipboard.WriteAll,
	}
	m.filter.Placeholder = "type to filter"
	m.filter.Prompt = "/ "

	state := sessionMgr.Get()
	m.showPreview = state.ShowPreview
	m.showHTMLSource = state.ShowHTMLSource

	themeID := opts.Settings.Theme
	if state.Theme != "" {
		themeID = state.Theme
	}
	m.themeID = registry.Lookup(themeID).ID
	registry.Apply(m.themeID, m)

	m.pipeline = render.NewPipeline(render.NewPreviewRenderer(m.renderOptions()))
	m.pipeline.Subscribe(m.onRender)
	m.termPipeline = render.NewPipeline(m.terminalRenderer())
	m.termPipeline.Subscribe(m.onTerminalRender)
	m.pipeline.Attach(m.doc)
	m.termPipeline.Attach(m.doc)

	m.menuGroups = buildMenu(registry)

	if opts.FilePath != "" {
		notice, err := m.openFile(opts.FilePath)
		switch {
		case err != nil:
			m.startup = m.setErrorMessage(describeError(err))
		case notice != "":
			m.startup = m.setStatusMessage("Opened " + displayPath(m.doc.Path()) + " (" + notice + ")")
		}
	}

	return m
}

func newEditor() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Start writing Markdown..."
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Focus()
	return ta
}

// Init starts the cursor blink
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.startup)
}

// Cleanup stops the preview server and closes the recent files database
func (m *Model) Cleanup() {
	if m.server != nil {
		if err := m.server.Stop(); err != nil {
			logging.Error("failed to stop preview server", err)
		}
		m.server = nil
	}
	if m.historyMgr != nil {
		if err := m.historyMgr.Close(); err != nil {
			logging.Error("failed to close recent files database", err)
		}
		m.historyMgr = nil
	}
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	// Mouse events are swallowed so the terminal does not scroll underneath
	case tea.MouseMsg:

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusMsg = ""
		}

	case clearErrorMsg:
		if msg.seq == m.errorSeq {
			m.errorMsg = ""
		}

	default:
		// Cursor blinks and other component messages go to whatever has focus
		switch m.mode {
		case ModeNormal:
			if m.focusedPanel == panelEditor {
				m.editor, cmd = m.editor.Update(msg)
			}
		case ModePrompt:
			m.prompt, cmd = m.prompt.Update(msg)
		case ModeRecent, ModeThemes:
			m.filter, cmd = m.filter.Update(msg)
		}
	}

	return m, cmd
}

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeMenu:
		return m.renderMenu()
	case ModePrompt:
		return m.renderPromptModal()
	case ModeRecent, ModeThemes:
		return m.renderPickerModal()
	case ModeConfirm:
		return m.renderConfirmModal()
	case ModeHelp:
		return m.renderHelp()
	case ModeErrorDetail:
		return m.renderMessageModal(true)
	case ModeStatusDetail:
		return m.renderMessageModal(false)
	default:
		return m.renderMain()
	}
}

// SetWindowColors implements theme.Surface
func (m *Model) SetWindowColors(c theme.Colors) {
	m.windowStyle = c.Style()
}

// SetEditorColors implements theme.Surface
func (m *Model) SetEditorColors(c theme.Colors) {
	m.editorStyle = c.Style()
	for _, s := range []*textarea.Style{&m.editor.FocusedStyle, &m.editor.BlurredStyle} {
		s.Base = m.editorStyle
		s.Text = m.editorStyle
		s.CursorLine = m.editorStyle
		s.EndOfBuffer = m.editorStyle
		s.Placeholder = m.editorStyle.Faint(true)
	}
}

// SetPreviewColors implements theme.Surface
func (m *Model) SetPreviewColors(c theme.Colors) {
	m.previewStyle = c.Style()
	m.previewView.Style = m.previewStyle
}

// onRender receives every HTML render of the document
func (m *Model) onRender(out render.Output) {
	m.output = out
	m.renderErr = out.Err
	if m.showHTMLSource {
		m.refreshPreview()
	}
}

// onTerminalRender receives every glamour render of the document
func (m *Model) onTerminalRender(out render.Output) {
	m.previewText = out.HTML
	if out.Err != nil {
		m.renderErr = out.Err
	}
	if !m.showHTMLSource {
		m.refreshPreview()
	}
}

func (m *Model) refreshPreview() {
	content := m.previewText
	if m.showHTMLSource {
		content = wrapText(m.output.HTML, m.previewView.Width)
	}
	m.previewView.SetContent(content)
}

func (m *Model) renderOptions() render.Options {
	opts := render.DefaultOptions()
	if hl := m.themes.Lookup(m.themeID).Highlight; hl != "" {
		opts.HighlightStyle = hl
	}
	return opts
}

// terminalRenderer builds a glamour renderer for the current theme and
// preview width. Creation failures fall back to echoing the source.
func (m *Model) terminalRenderer() render.Renderer {
	th := m.themes.Lookup(m.themeID)
	width := m.previewView.Width
	if m.settings.WordWrap > 0 && width > m.settings.WordWrap {
		width = m.settings.WordWrap
	}
	tr, err := render.NewTerminalRenderer(width, th.Glamour, th.IsDark())
	if err != nil {
		logging.Error("terminal preview unavailable", err)
		return render.RendererFunc(func(source string) (string, error) {
			return source, nil
		})
	}
	return tr
}

// rebuildPreview re-creates the renderers after a theme or size change
func (m *Model) rebuildPreview() {
	m.pipeline.SetRenderer(render.NewPreviewRenderer(m.renderOptions()))
	m.termPipeline.SetRenderer(m.terminalRenderer())
	m.termPipeline.Update(m.doc.Text())
	if m.showHTMLSource {
		m.refreshPreview()
	}
}

// syncDocument pushes the editor contents into the document when they
// changed. Every change re-renders before the next frame is drawn.
func (m *Model) syncDocument() {
	text := m.editor.Value()
	if text == m.editorValue {
		return
	}
	m.editorValue = text
	m.doc.SetText(text)
}

// Custom message types
type clearStatusMsg struct{ seq int }
type clearErrorMsg struct{ seq int }

// Helper methods for setting messages with optional timeout
func (m *Model) setStatusMessage(msg string) tea.Cmd {
	m.statusMsg = msg
	m.fullStatusMsg = msg
	m.errorMsg = ""
	m.statusSeq++

	if m.settings.MessageTimeout > 0 {
		seq := m.statusSeq
		timeout := time.Duration(m.settings.MessageTimeout) * time.Second
		return tea.Tick(timeout, func(time.Time) tea.Msg {
			return clearStatusMsg{seq: seq}
		})
	}
	return nil
}

func (m *Model) setErrorMessage(msg string) tea.Cmd {
	m.errorMsg = msg
	m.fullErrorMsg = msg
	m.errorSeq++
	logging.L().Warn("editor error", "message", msg)

	if m.settings.MessageTimeout > 0 {
		seq := m.errorSeq
		timeout := time.Duration(m.settings.MessageTimeout) * time.Second
		return tea.Tick(timeout, func(time.Time) tea.Msg {
			return clearErrorMsg{seq: seq}
		})
	}
	return nil
}

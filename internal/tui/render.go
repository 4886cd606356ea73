package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/studiowebux/mdpad/internal/keybinds"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#0000ff"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// paneWidths splits the screen between editor and preview. The preview
// width is 0 when it is hidden or the terminal is too narrow.
func (m *Model) paneWidths() (editor, preview int) {
	if !m.showPreview || m.width < 2*MinPaneWidth {
		return m.width, 0
	}
	editor = int(float64(m.width) * EditorWidthRatio)
	return editor, m.width - editor
}

// updateLayout sizes the editor and viewports after a resize or a
// preview toggle. MUST match the box sizes in renderMain.
func (m *Model) updateLayout() {
	if m.width == 0 {
		return
	}
	mainHeight := m.height - StatusBarHeight - ViewportBorderWidth
	if mainHeight < 1 {
		mainHeight = 1
	}

	editorWidth, previewWidth := m.paneWidths()
	m.editor.SetWidth(max(editorWidth-ViewportBorderWidth, 1))
	m.editor.SetHeight(mainHeight)

	resized := false
	if previewWidth > 0 {
		width := max(previewWidth-ViewportBorderWidth, 1)
		resized = width != m.previewView.Width
		m.previewView.Width = width
		m.previewView.Height = mainHeight
	}

	m.helpView.Width = m.width - ViewportPaddingHorizontal
	m.helpView.Height = m.height - ModalOverheadMinimal

	if resized {
		m.rebuildPreview()
	}
}

// renderMain renders the editor, the preview pane and the status bar
func (m *Model) renderMain() string {
	editorWidth, previewWidth := m.paneWidths()
	boxHeight := m.height - StatusBarHeight - ViewportBorderWidth
	if boxHeight < 1 {
		boxHeight = 1
	}

	editorBorder, previewBorder := lipgloss.TerminalColor(colorGray), lipgloss.TerminalColor(colorGray)
	if m.focusedPanel == panelEditor {
		editorBorder = colorGreen
	} else {
		previewBorder = colorGreen
	}

	editorBox := m.paneStyle(editorBorder).
		Width(editorWidth - ViewportBorderWidth).
		Height(boxHeight).
		Render(m.editor.View())

	mainView := editorBox
	if previewWidth > 0 {
		previewBox := m.paneStyle(previewBorder).
			Width(previewWidth - ViewportBorderWidth).
			Height(boxHeight).
			Render(m.previewView.View())
		mainView = lipgloss.JoinHorizontal(lipgloss.Top, editorBox, previewBox)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		mainView,
		m.renderStatusBar(),
	)
}

func (m *Model) paneStyle(border lipgloss.TerminalColor) lipgloss.Style {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)
	if bg := m.windowStyle.GetBackground(); bg != (lipgloss.NoColor{}) {
		style = style.BorderBackground(bg)
	}
	return style
}

// documentName is the file name shown in the status bar
func (m *Model) documentName() string {
	if m.doc.Path() == "" {
		return "untitled"
	}
	return displayPath(m.doc.Path())
}

// renderStatusBar renders the status bar at the bottom:
// file name, modified marker, word count, theme and messages
func (m *Model) renderStatusBar() string {
	name := m.documentName()
	if m.doc.Modified() {
		name += " *"
	}
	left := fmt.Sprintf(" %s | Words: %d | %s ", name, m.output.Words, m.themes.Lookup(m.themeID).Name)

	avail := m.width - lipgloss.Width(left) - 1
	if avail < 0 {
		avail = 0
	}

	var right string
	switch {
	case m.errorMsg != "":
		right = styleError.Render(truncate(m.errorMsg, avail))
	case m.renderErr != nil:
		right = styleWarning.Render(truncate("Preview not updated: "+m.renderErr.Error(), avail))
	case m.statusMsg != "":
		right = styleSuccess.Render(truncate(m.statusMsg, avail))
	default:
		hint := fmt.Sprintf("%s menu | %s help",
			m.keybinds.GetBindingString(keybinds.ContextEditor, keybinds.ActionOpenMenu),
			m.keybinds.GetBindingString(keybinds.ContextEditor, keybinds.ActionOpenHelp))
		right = styleSubtle.Render(truncate(hint, avail))
	}

	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 0 {
		spacing = 0
	}

	return m.windowStyle.Render(left + strings.Repeat(" ", spacing) + right)
}

// truncate cuts s to width terminal cells
func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "...")
}

// wrapText hard-wraps every line of text at width terminal cells
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			result.WriteString("\n")
		}
		for runewidth.StringWidth(line) > width {
			head := runewidth.Truncate(line, width, "")
			if head == "" {
				break
			}
			result.WriteString(head)
			result.WriteString("\n")
			line = line[len(head):]
		}
		result.WriteString(line)
	}
	return result.String()
}

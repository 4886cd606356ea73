package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/mdpad/internal/keybinds"
)

// modal describes a boxed dialog drawn over the editor
type modal struct {
	title  string
	body   string
	footer string
	width  int
	height int

	// follow is the body line kept in view, -1 to keep the scroll offset
	follow int
}

// clampSize fits the requested size into the terminal, keeping a usable
// minimum when the terminal allows it
func (m *Model) clampSize(width, height int) (int, int) {
	width = min(width, m.width-ViewportPaddingHorizontal)
	height = min(height, m.height-ModalHeightMarginSmall)
	if m.width >= 30 {
		width = max(width, 30)
	}
	if m.height >= 8 {
		height = max(height, 8)
	}
	return width, height
}

// renderModal draws d with its body in the shared modal viewport
func (m *Model) renderModal(d modal) string {
	width, height := m.clampSize(d.width, d.height)

	footerLines := 0
	if d.footer != "" {
		footerLines = 2
	}
	bodyHeight := height - ModalOverheadLines - footerLines
	if bodyHeight < 1 {
		bodyHeight = max(height-ModalOverheadMinimal-footerLines, 1)
	}

	m.modalView.Width = max(width-ViewportPaddingHorizontal, 10)
	m.modalView.Height = bodyHeight

	// SetContent resets the offset
	offset := m.modalView.YOffset
	m.modalView.SetContent(d.body)
	if d.follow >= 0 {
		if d.follow < offset {
			offset = d.follow
		} else if d.follow >= offset+bodyHeight {
			offset = d.follow - bodyHeight + 1
		}
	}
	m.modalView.SetYOffset(offset)

	parts := []string{styleTitle.Render(d.title), "", m.modalView.View()}
	if d.footer != "" {
		parts = append(parts, "", styleSubtle.Render(d.footer))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(strings.Join(parts, "\n"))

	if width >= m.width-2 || height >= m.height-1 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// helpContexts are listed in the help view in this order
var helpContexts = []struct {
	context keybinds.Context
	title   string
}{
	{keybinds.ContextEditor, "Editor"},
	{keybinds.ContextPreview, "Preview"},
	{keybinds.ContextMenu, "Menu"},
	{keybinds.ContextPicker, "Pickers"},
	{keybinds.ContextConfirm, "Unsaved changes"},
}

// updateHelpView fills the help viewport from the active keybindings
func (m *Model) updateHelpView() {
	var content strings.Builder

	for i, hc := range helpContexts {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(styleTitle.Render(hc.title) + "\n")

		seen := make(map[keybinds.Action]bool)
		for _, b := range m.keybinds.ListBindings(hc.context) {
			if seen[b.Action] || b.Action == keybinds.ActionGoToTopPrepare {
				continue
			}
			seen[b.Action] = true
			keys := m.keybinds.GetBindingString(b.Context, b.Action)
			content.WriteString(fmt.Sprintf("  %-22s %s\n", keys, b.Action.Description()))
		}
	}

	content.WriteString("\n" + styleSubtle.Render("Key bindings can be changed in keybinds.json (mdpad keybinds --export)"))

	m.helpView.SetContent(content.String())
	m.helpView.GotoTop()
}

// renderHelp renders the help modal
func (m *Model) renderHelp() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Width(m.width-ViewportBorderWidth).
		Padding(0, 1).
		Render(styleTitle.Render("mdpad help") + "\n" + m.helpView.View())

	footer := styleSubtle.Render("[↑/↓] scroll [esc] close")
	return lipgloss.JoinVertical(lipgloss.Left, box, footer)
}

// renderMessageModal shows the full text of the last error or status
func (m *Model) renderMessageModal(isError bool) string {
	width := max(m.width-ModalWidthMargin, 50)
	wrap := width - ViewportPaddingHorizontal

	if isError {
		return m.renderModal(modal{
			title:  "Error Details",
			body:   styleError.Render(wrapText(m.fullErrorMsg, wrap)),
			footer: "[↑/↓] scroll [esc] close",
			width:  width,
			height: max(m.height-ModalOverheadMinimal, 10),
			follow: -1,
		})
	}
	return m.renderModal(modal{
		title:  "Status Message",
		body:   wrapText(m.fullStatusMsg, wrap),
		footer: "[esc] close",
		width:  width,
		height: max(m.height-ModalHeightMarginSmall, 10),
		follow: -1,
	})
}

package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/mdpad/internal/logging"
	"github.com/studiowebux/mdpad/internal/preview"
	"github.com/studiowebux/mdpad/internal/render"
)

// StartPreviewServer serves the live preview to browsers at addr. The
// server follows every render and theme change of the editor.
func (m *Model) StartPreviewServer(addr string) (string, error) {
	server := preview.NewServer(addr, m.themes.Lookup(m.themeID))
	server.SetTitle(m.documentName())
	if err := server.Start(); err != nil {
		return "", err
	}

	m.server = server
	m.pipeline.Subscribe(func(out render.Output) {
		server.SetTitle(m.documentName())
		server.Publish(out)
	})
	logging.L().Info("browser preview started", "url", server.URL())
	return server.URL(), nil
}

// Run starts the TUI and blocks until the user quits
func Run(opts Options) error {
	m := New(opts)
	defer m.Cleanup()

	if addr := opts.Settings.PreviewAddr; addr != "" {
		url, err := m.StartPreviewServer(addr)
		if err != nil {
			m.startup = tea.Batch(m.startup, m.setErrorMessage("Browser preview unavailable: "+err.Error()))
		} else {
			m.startup = tea.Batch(m.startup, m.setStatusMessage("Browser preview at "+url))
		}
	}

	// Pass pointer since Update uses pointer receiver
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}

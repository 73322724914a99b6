package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"whatsfind/internal/render"
	"whatsfind/internal/search"
	"whatsfind/internal/store"
)

// previewContext is how many messages to load on each side of the hit.
const previewContext = 25

// previewRenderedMsg is sent when an async thread render completes.
type previewRenderedMsg struct {
	messageID  int64
	content    string
	centerLine int
	err        error
}

// loadPreviewCmd renders the thread around a hit message asynchronously.
func loadPreviewCmd(db *store.DB, m store.MessageRow, chatTitle, query string, width int) tea.Cmd {
	return func() tea.Msg {
		thread, _, err := search.GetThread(db, m.ID, previewContext)
		if err != nil {
			return previewRenderedMsg{messageID: m.ID, err: err}
		}
		content, centerLine := render.RenderThread(chatTitle, thread, render.Options{
			CenterID: m.ID,
			Width:    width,
			Query:    query,
		})
		return previewRenderedMsg{
			messageID:  m.ID,
			content:    content,
			centerLine: centerLine,
		}
	}
}

// newViewport creates a viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}

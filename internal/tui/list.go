package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"whatsfind/internal/store"
)

// linesPerItem is the number of terminal lines each result occupies.
const linesPerItem = 2

// renderList renders the left panel: search results with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No results")
		return empty
	}

	var lines []string
	for i, r := range m.results {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		rows := m.formatResultLine(r, width, i == m.cursor)
		lines = append(lines, rows...)
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatResultLine formats one result as two lines:
//
//	line 1: [>] sender  MM-DD  chat title
//	line 2:    message text (dimmed)
func (m model) formatResultLine(r store.MessageRow, width int, selected bool) []string {
	var sender string
	if r.Sender == "" {
		sender = styleSystem.Render(padSender("system"))
	} else {
		sender = styleSender.Render(padSender(r.Sender))
	}

	date := time.UnixMilli(r.TS).UTC().Format("01-02")

	title := strings.ReplaceAll(m.chatTitles[r.ChatID], "\n", " ")
	titleMax := width - 2 - 12 - 6 - 2 // prefix + sender + date + padding
	if titleMax < 0 {
		titleMax = 0
	}
	if runewidth.StringWidth(title) > titleMax {
		title = runewidth.Truncate(title, titleMax, "")
	}

	line1 := fmt.Sprintf("%s %s %s", sender, date, title)
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	text := strings.ReplaceAll(r.Text, "\n", " ")
	text = strings.ReplaceAll(text, "\t", " ")
	textMax := width - 4
	if textMax < 0 {
		textMax = 0
	}
	if runewidth.StringWidth(text) > textMax {
		text = runewidth.Truncate(text, textMax, "")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(text)

	return []string{line1, line2}
}

func padSender(s string) string {
	const w = 12
	if runewidth.StringWidth(s) > w {
		return runewidth.Truncate(s, w, "…")
	}
	return s + strings.Repeat(" ", w-runewidth.StringWidth(s))
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}

package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsfind/internal/store"
)

func TestHighlightKeywords(t *testing.T) {
	out := highlightKeywords("the Trip was great", "trip")
	assert.Contains(t, out, colorBoldRed+"Trip"+colorReset)

	// operators pass through unhighlighted
	out = highlightKeywords("this OR that", "this OR that")
	assert.NotContains(t, out, colorBoldRed+"OR")
	assert.Contains(t, out, colorBoldRed+"this"+colorReset)

	assert.Equal(t, "untouched", highlightKeywords("untouched", ""))
}

func TestWrapLine(t *testing.T) {
	parts := wrapLine("abcdefghij", 4)
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, parts)

	// ANSI escapes carry zero width
	colored := colorDim + "abcd" + colorReset
	parts = wrapLine(colored, 4)
	require.Len(t, parts, 1)

	assert.Equal(t, []string{"short"}, wrapLine("short", 0))
	assert.Equal(t, []string{""}, wrapLine("", 10))
}

func TestSenderColorStable(t *testing.T) {
	assert.Equal(t, senderColor("Alice"), senderColor("Alice"))
	assert.Equal(t, colorSystem, senderColor(""))
}

func TestRenderThread(t *testing.T) {
	thread := []store.MessageRow{
		{ID: 1, TS: 1672655700000, Sender: "Alice", Kind: store.KindMessage, Text: "booked the flights"},
		{ID: 2, TS: 1672655760000, Sender: "Bob", Kind: store.KindMessage, Text: "nice", HasMedia: true, MediaPath: "IMG-1.jpg"},
		{ID: 3, TS: 1672655820000, Kind: store.KindSystem, Text: "Alice added Carol"},
	}

	out, centerLine := RenderThread("Family", thread, Options{CenterID: 2, Query: "flights"})

	assert.Contains(t, out, "--- Family ---")
	assert.Contains(t, out, colorBoldRed+"flights"+colorReset)
	assert.Contains(t, out, ">> #2 Bob >")
	assert.Contains(t, out, "[media: IMG-1.jpg]")
	assert.Contains(t, out, "SYSTEM")

	require.GreaterOrEqual(t, centerLine, 0)
	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[centerLine], ">> #2")
}

func TestRenderThreadEmpty(t *testing.T) {
	out, centerLine := RenderThread("Family", nil, Options{})
	assert.Equal(t, "(no messages)", out)
	assert.Equal(t, -1, centerLine)
}

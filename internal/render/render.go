package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"whatsfind/internal/store"
)

const (
	colorReset   = "\033[0m"
	colorDim     = "\033[2m"
	colorHit     = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // keyword highlights
	colorSystem  = "\033[2;35m" // dim magenta
	colorMedia   = "\033[1;36m" // media reference line
)

// senderPalette cycles across participants so each keeps a stable color.
var senderPalette = []string{
	"\033[1;34m", // bold blue
	"\033[1;32m", // bold green
	"\033[1;33m", // bold yellow
	"\033[1;35m", // bold magenta
	"\033[1;36m", // bold cyan
}

type Options struct {
	CenterID int64  // message id to highlight, 0 = none
	Width    int    // wrap width, 0 = no wrap
	Query    string // search query for keyword highlighting
}

// fts5Operators should not be highlighted as keywords.
var fts5Operators = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "NEAR": true,
	"and": true, "or": true, "not": true, "near": true,
}

// highlightKeywords wraps case-insensitive matches of query terms in bold red.
func highlightKeywords(text, query string) string {
	if query == "" {
		return text
	}
	var filtered []string
	for _, t := range strings.Fields(query) {
		t = strings.Trim(t, `"()`)
		if t != "" && !fts5Operators[t] {
			filtered = append(filtered, t)
		}
	}
	for _, term := range filtered {
		lower := strings.ToLower(term)
		i := 0
		for i < len(text) {
			idx := strings.Index(strings.ToLower(text[i:]), lower)
			if idx < 0 {
				break
			}
			pos := i + idx
			orig := text[pos : pos+len(term)]
			replacement := colorBoldRed + orig + colorReset
			text = text[:pos] + replacement + text[pos+len(term):]
			i = pos + len(replacement)
		}
	}
	return text
}

func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a line into maxWidth-column pieces, skipping ANSI escape
// sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}
	if len(result) == 0 {
		return []string{""}
	}
	return result
}

func senderColor(sender string) string {
	if sender == "" {
		return colorSystem
	}
	h := 0
	for _, r := range sender {
		h = h*31 + int(r)
	}
	if h < 0 {
		h = -h
	}
	return senderPalette[h%len(senderPalette)]
}

func formatTS(ts int64) string {
	return time.UnixMilli(ts).UTC().Format("2006-01-02 15:04")
}

// RenderThread renders a context window around a message. Returns the content
// and the 0-based output line of the center message header (-1 when absent).
func RenderThread(chatTitle string, thread []store.MessageRow, opts Options) (string, int) {
	if len(thread) == 0 {
		return "(no messages)", -1
	}

	var b strings.Builder
	centerLine := -1
	lineCount := 0
	separator := colorDim + "--------------------------------------------------" + colorReset

	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
			lineCount++
		}
	}

	writeLine(fmt.Sprintf("%s--- %s ---%s", colorDim, chatTitle, colorReset))

	for i, m := range thread {
		if i > 0 {
			writeLine(separator)
		}

		isCenter := opts.CenterID != 0 && m.ID == opts.CenterID
		if isCenter {
			centerLine = lineCount
		}

		label := m.Sender
		if m.Kind == store.KindSystem || label == "" {
			label = "SYSTEM"
		}

		if isCenter {
			writeLine(fmt.Sprintf("%s>> #%d %s > %s <<%s", colorHit, m.ID, label, formatTS(m.TS), colorReset))
		} else {
			writeLine(fmt.Sprintf("%s#%d %s%s >%s %s%s%s",
				colorDim, m.ID, senderColor(m.Sender), label, colorReset,
				colorDim, formatTS(m.TS), colorReset))
		}

		text := m.Text
		if m.Kind == store.KindSystem {
			text = colorDim + text + colorReset
		}
		text = highlightKeywords(text, opts.Query)
		text = indentLines(text, "  ")
		for _, tl := range strings.Split(text, "\n") {
			writeLine(tl)
		}
		if m.HasMedia {
			ref := m.MediaPath
			if ref == "" {
				ref = "(unresolved)"
			}
			writeLine(fmt.Sprintf("  %s[media: %s]%s", colorMedia, ref, colorReset))
		}
		writeLine("")
	}

	return b.String(), centerLine
}

package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Header is a classified message-opening line.
type Header struct {
	TS     int64  // epoch milliseconds, UTC
	Sender string // empty when the line carries no "sender: " prefix
	Text   string
}

// headerPattern couples a layout regex with how its groups are laid out.
// Both layouts capture (date, time, rest); kept as a table so new export
// dialects are additive.
type headerPattern struct {
	layout string
	re     *regexp.Regexp
}

var headerPatterns = []headerPattern{
	// [5/3/23, 9:15 AM] Alice: hi
	{"bracket", regexp.MustCompile(`^\[(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}),\s+(\d{1,2}:\d{2}(?:\s?[AaPp][Mm])?)\]\s*(.*)$`)},
	// 5/3/23, 9:15 AM - Alice: hi (WhatsApp also emits a non-ASCII dash)
	{"dash", regexp.MustCompile(`^(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}),\s+(\d{1,2}:\d{2}(?:\s?[AaPp][Mm])?)\s*[-\x{2013}]\s*(.*)$`)},
}

var timeRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?:\s*([AaPp][Mm]))?$`)

// ParseHeader classifies one raw line. ok is false when the line does not
// match a header layout or when its date/time fails validation; such lines
// are continuations of the previous message, never errors.
func ParseHeader(line string) (Header, bool) {
	line = strings.TrimSpace(line)

	for _, p := range headerPatterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		ts, ok := parseInstant(m[1], m[2])
		if !ok {
			return Header{}, false
		}

		rest := m[3]
		h := Header{TS: ts, Text: rest}
		if i := strings.Index(rest, ": "); i >= 0 {
			h.Sender = rest[:i]
			h.Text = rest[i+2:]
		}
		return h, true
	}
	return Header{}, false
}

// parseInstant normalizes a transcript date+time into epoch milliseconds UTC.
//
// Day/month/year order is disambiguated with fixed rules: a part > 31 is the
// year, a part > 12 forces itself to be the day, and the remaining ambiguous
// case defaults to day-first. Two-digit years split at 50 (2000+ vs 1900+).
// Some archives will be silently misdated by the day-first default; the true
// format is not recoverable from the data alone.
func parseInstant(dateStr, timeStr string) (int64, bool) {
	parts := splitDate(dateStr)
	if len(parts) != 3 {
		return 0, false
	}
	p1, p2, p3 := parts[0], parts[1], parts[2]

	var year, month, day int
	switch {
	case p3 > 31: // 4-digit year last
		year = p3
		switch {
		case p1 > 12:
			day, month = p1, p2
		case p2 > 12:
			month, day = p1, p2
		default:
			day, month = p1, p2
		}
	case p1 > 31: // year first
		year = p1
		if p2 > 12 {
			month, day = p3, p2
		} else {
			month, day = p2, p3
		}
	default: // 2-digit year last
		if p3 < 50 {
			year = 2000 + p3
		} else {
			year = 1900 + p3
		}
		switch {
		case p1 > 12:
			day, month = p1, p2
		case p2 > 12:
			month, day = p1, p2
		default:
			day, month = p1, p2
		}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 || year > 2100 {
		return 0, false
	}

	tm := timeRe.FindStringSubmatch(strings.TrimSpace(timeStr))
	if tm == nil {
		return 0, false
	}
	hour, _ := strconv.Atoi(tm[1])
	minute, _ := strconv.Atoi(tm[2])
	if ampm := strings.ToUpper(tm[3]); ampm != "" {
		if ampm == "PM" && hour != 12 {
			hour += 12
		} else if ampm == "AM" && hour == 12 {
			hour = 0
		}
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}

	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC).UnixMilli(), true
}

func splitDate(s string) []int {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '-'
	})
	parts := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil
		}
		parts = append(parts, n)
	}
	return parts
}

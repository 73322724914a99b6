package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"whatsfind/internal/store"
)

var header = []string{"id", "chat_id", "timestamp", "sender", "type", "text", "has_media", "media_path"}

// WriteCSV streams message rows as CSV with a header line. Timestamps are
// rendered as RFC 3339 UTC.
func WriteCSV(w io.Writer, rows []store.MessageRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, m := range rows {
		rec := []string{
			strconv.FormatInt(m.ID, 10),
			strconv.FormatInt(m.ChatID, 10),
			time.UnixMilli(m.TS).UTC().Format(time.RFC3339),
			m.Sender,
			m.Kind,
			m.Text,
			strconv.FormatBool(m.HasMedia),
			m.MediaPath,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", m.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

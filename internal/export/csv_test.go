package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsfind/internal/store"
)

func TestWriteCSV(t *testing.T) {
	rows := []store.MessageRow{
		{ID: 1, ChatID: 2, TS: 1672655700000, Sender: "Alice", Kind: store.KindMessage,
			Text: "line one\nline two", HasMedia: true, MediaPath: "IMG-20230101-WA0001.jpg"},
		{ID: 2, ChatID: 2, TS: 1672655760000, Kind: store.KindSystem, Text: "Alice added Bob"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, []string{"id", "chat_id", "timestamp", "sender", "type", "text", "has_media", "media_path"}, recs[0])
	assert.Equal(t, []string{"1", "2", "2023-01-02T10:35:00Z", "Alice", "message", "line one\nline two", "true", "IMG-20230101-WA0001.jpg"}, recs[1])
	assert.Equal(t, []string{"2", "2", "2023-01-02T10:36:00Z", "", "system", "Alice added Bob", "false", ""}, recs[2])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "id,chat_id,timestamp,sender,type,text,has_media,media_path\n", buf.String())
}

package importer

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsfind/internal/archive"
	"whatsfind/internal/search"
	"whatsfind/internal/store"
)

const familyTranscript = "[1/2/23, 9:15] Alice: morning all\n" +
	"[1/2/23, 9:16] Bob: morning\n" +
	"still waking up\n" +
	"[1/2/23, 9:20] Alice: IMG-20230101-WA0001.jpg (file attached)\n" +
	"[1/2/23, 9:25] Alice added Carol\n"

func buildArchive(t *testing.T, entries map[string][]byte) *archive.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	rd, err := archive.NewReader(buf.Bytes())
	require.NoError(t, err)
	return rd
}

func openTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func familyArchive(t *testing.T) *archive.Reader {
	return buildArchive(t, map[string][]byte{
		"WhatsApp Chat with Family.txt": []byte(familyTranscript),
		"IMG-20230101-WA0001.jpg":       {0xff, 0xd8},
	})
}

func TestImportEndToEnd(t *testing.T) {
	db := openTestDB(t)

	stats, err := Import(db, familyArchive(t), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Chats)
	assert.Equal(t, 4, stats.Messages)
	assert.Equal(t, 0, stats.SkippedChats)

	chat, err := db.GetChatByTitle("WhatsApp Chat with Family")
	require.NoError(t, err)
	require.NotNil(t, chat)

	rows, err := search.Search(db, search.Options{ChatID: chat.ID})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	byText := make(map[string]store.MessageRow, len(rows))
	for _, r := range rows {
		byText[r.Text] = r
	}

	multi := byText["morning\nstill waking up"]
	assert.Equal(t, "Bob", multi.Sender)

	mediaMsg := byText["IMG-20230101-WA0001.jpg (file attached)"]
	assert.True(t, mediaMsg.HasMedia)
	assert.Equal(t, "IMG-20230101-WA0001.jpg", mediaMsg.MediaPath)

	system := byText["Alice added Carol"]
	assert.Equal(t, store.KindSystem, system.Kind)
	assert.Empty(t, system.Sender)

	// only real senders become participants
	var participants int
	require.NoError(t, db.Raw().QueryRow("SELECT COUNT(*) FROM participants").Scan(&participants))
	assert.Equal(t, 2, participants)

	fts, err := db.FTSCount()
	require.NoError(t, err)
	assert.Equal(t, 4, fts)
}

func TestImportPolicySkip(t *testing.T) {
	db := openTestDB(t)

	_, err := Import(db, familyArchive(t), Options{})
	require.NoError(t, err)

	stats, err := Import(db, familyArchive(t), Options{Policy: PolicySkip})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Chats)
	assert.Equal(t, 1, stats.SkippedChats)

	n, err := db.MessageCount()
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestImportPolicyReplace(t *testing.T) {
	db := openTestDB(t)

	_, err := Import(db, familyArchive(t), Options{})
	require.NoError(t, err)

	stats, err := Import(db, familyArchive(t), Options{Policy: PolicyReplace})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Chats)
	assert.Equal(t, 4, stats.Messages)

	n, err := db.MessageCount()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	chats, err := db.ChatCount()
	require.NoError(t, err)
	assert.Equal(t, 1, chats)
}

func TestImportPolicyAppend(t *testing.T) {
	db := openTestDB(t)

	_, err := Import(db, familyArchive(t), Options{})
	require.NoError(t, err)

	_, err = Import(db, familyArchive(t), Options{Policy: PolicyAppend})
	require.NoError(t, err)

	n, err := db.MessageCount()
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestImportMultipleChats(t *testing.T) {
	db := openTestDB(t)

	rd := buildArchive(t, map[string][]byte{
		"Family.txt": []byte("[1/2/23, 9:15] Alice: hi\n"),
		"Work.txt":   []byte("[1/2/23, 9:15] Carol: standup in 5\n[1/2/23, 9:16] Dave: omw\n"),
	})

	stats, err := Import(db, rd, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Chats)
	assert.Equal(t, 3, stats.Messages)
}

func TestParsePolicy(t *testing.T) {
	for _, valid := range []string{"skip", "replace", "append"} {
		p, err := ParsePolicy(valid)
		require.NoError(t, err)
		assert.Equal(t, Policy(valid), p)
	}
	_, err := ParsePolicy("merge")
	assert.Error(t, err)
}

func TestStatsString(t *testing.T) {
	s := Stats{Chats: 2, Messages: 10, SkippedChats: 1}
	assert.Equal(t, "chats=2 messages=10 skipped_chats=1 skipped_entries=0", s.String())
}

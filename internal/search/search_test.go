package search

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsfind/internal/store"
)

type seedMsg struct {
	chat     string
	ts       int64
	sender   string
	kind     string
	text     string
	hasMedia bool
	media    string
}

func seedDB(t *testing.T, msgs []seedMsg) *store.DB {
	t.Helper()
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()
	for _, m := range msgs {
		chatID, err := tx.UpsertChat(m.chat)
		require.NoError(t, err)
		kind := m.kind
		if kind == "" {
			kind = store.KindMessage
		}
		require.NoError(t, tx.InsertMessage(store.MessageRow{
			ChatID: chatID, TS: m.ts, Sender: m.sender, Kind: kind,
			Text: m.text, HasMedia: m.hasMedia, MediaPath: m.media,
		}))
	}
	require.NoError(t, tx.Commit())
	return db
}

func defaultSeed(t *testing.T) *store.DB {
	return seedDB(t, []seedMsg{
		{chat: "Family", ts: 1000, sender: "Alice", text: "shall we plan the trip"},
		{chat: "Family", ts: 2000, sender: "Bob", text: "trip sounds great"},
		{chat: "Family", ts: 3000, sender: "Alice", text: "booked the flights", hasMedia: true, media: "IMG-20230101-WA0001.jpg"},
		{chat: "Work", ts: 2500, sender: "Carol", text: "deadline moved to friday"},
		{chat: "Work", ts: 4000, sender: "", kind: store.KindSystem, text: "Carol added Dave"},
	})
}

func TestSearchFullText(t *testing.T) {
	db := defaultSeed(t)

	rows, err := Search(db, Options{Query: "trip"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// newest first
	assert.Equal(t, int64(2000), rows[0].TS)
	assert.Equal(t, int64(1000), rows[1].TS)
}

func TestSearchPorterStemming(t *testing.T) {
	db := defaultSeed(t)

	rows, err := Search(db, Options{Query: "flight"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "booked the flights", rows[0].Text)
}

func TestSearchEmptyQueryBrowses(t *testing.T) {
	db := defaultSeed(t)

	rows, err := Search(db, Options{})
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	assert.Equal(t, int64(4000), rows[0].TS)
}

func TestSearchFilters(t *testing.T) {
	db := defaultSeed(t)

	family, err := db.GetChatByTitle("Family")
	require.NoError(t, err)

	rows, err := Search(db, Options{ChatID: family.ID})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = Search(db, Options{Sender: "Alice"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	from, to := int64(2000), int64(3000)
	rows, err = Search(db, Options{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	hm := true
	rows, err = Search(db, Options{HasMedia: &hm})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "IMG-20230101-WA0001.jpg", rows[0].MediaPath)

	hm = false
	rows, err = Search(db, Options{HasMedia: &hm})
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestSearchFiltersCombineWithQuery(t *testing.T) {
	db := defaultSeed(t)

	rows, err := Search(db, Options{Query: "trip", Sender: "Bob"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "trip sounds great", rows[0].Text)
}

func TestSearchPagination(t *testing.T) {
	db := defaultSeed(t)

	page1, err := Search(db, Options{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page1, 2)

	page2, err := Search(db, Options{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page2, 2)

	assert.Less(t, page2[0].TS, page1[1].TS)
}

func TestSearchTimestampTieBreaksOnID(t *testing.T) {
	db := seedDB(t, []seedMsg{
		{chat: "C", ts: 1000, sender: "A", text: "first"},
		{chat: "C", ts: 1000, sender: "A", text: "second"},
		{chat: "C", ts: 1000, sender: "A", text: "third"},
	})

	rows, err := Search(db, Options{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "third", rows[0].Text)
	assert.Equal(t, "second", rows[1].Text)
	assert.Equal(t, "first", rows[2].Text)
}

func TestListFacets(t *testing.T) {
	db := seedDB(t, []seedMsg{
		{chat: "Work", ts: 1672567200000, sender: "Carol", text: "x"},  // 2023
		{chat: "Family", ts: 1420113600000, sender: "Alice", text: "y"}, // 2015
		{chat: "Family", ts: 1420117200000, kind: store.KindSystem, text: "Alice joined"},
	})

	f, err := ListFacets(db)
	require.NoError(t, err)

	require.Len(t, f.Chats, 2)
	assert.Equal(t, "Family", f.Chats[0].Title) // alphabetical
	assert.Equal(t, "Work", f.Chats[1].Title)

	// NULL senders (system rows) never show up
	assert.Equal(t, []string{"Alice", "Carol"}, f.Senders)
	assert.Equal(t, []int{2015, 2023}, f.Years)
}

func TestListFacetsEmptyStore(t *testing.T) {
	db := seedDB(t, nil)

	f, err := ListFacets(db)
	require.NoError(t, err)
	assert.Empty(t, f.Chats)
	assert.Empty(t, f.Senders)
	assert.Empty(t, f.Years)
}

func TestGetThreadWindow(t *testing.T) {
	db := seedDB(t, []seedMsg{
		{chat: "C", ts: 1000, sender: "A", text: "m1"},
		{chat: "C", ts: 2000, sender: "B", text: "m2"},
		{chat: "C", ts: 3000, sender: "A", text: "m3"},
		{chat: "C", ts: 4000, sender: "B", text: "m4"},
		{chat: "C", ts: 5000, sender: "A", text: "m5"},
		{chat: "Other", ts: 2500, sender: "X", text: "noise"},
	})

	center, err := db.GetMessage(2) // m2
	require.NoError(t, err)
	require.NotNil(t, center)

	thread, got, err := GetThread(db, center.ID, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, center.ID, got.ID)

	// one message exists before m2, two fit after; other chats are excluded
	require.Len(t, thread, 4)
	assert.Equal(t, "m1", thread[0].Text)
	assert.Equal(t, "m2", thread[1].Text)
	assert.Equal(t, "m3", thread[2].Text)
	assert.Equal(t, "m4", thread[3].Text)
}

func TestGetThreadTimestampTies(t *testing.T) {
	db := seedDB(t, []seedMsg{
		{chat: "C", ts: 1000, sender: "A", text: "a"},
		{chat: "C", ts: 1000, sender: "A", text: "b"},
		{chat: "C", ts: 1000, sender: "A", text: "c"},
	})

	thread, center, err := GetThread(db, 2, 5)
	require.NoError(t, err)
	require.NotNil(t, center)
	require.Len(t, thread, 3)
	assert.Equal(t, "a", thread[0].Text)
	assert.Equal(t, "b", thread[1].Text)
	assert.Equal(t, "c", thread[2].Text)
}

func TestGetThreadMissingID(t *testing.T) {
	db := seedDB(t, nil)

	thread, center, err := GetThread(db, 99, 5)
	require.NoError(t, err)
	assert.Nil(t, center)
	assert.Empty(t, thread)
}

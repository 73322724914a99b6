package search

import (
	"fmt"
	"strings"

	"whatsfind/internal/store"
)

// Options are the search filters. Zero values mean "no filter"; From, To and
// HasMedia use pointers so absent and zero stay distinct.
type Options struct {
	Query    string // FTS5 query: words, quoted phrases, AND/OR, parentheses
	ChatID   int64
	Sender   string
	From     *int64 // inclusive, epoch ms
	To       *int64 // inclusive, epoch ms
	HasMedia *bool
	Limit    int
	Offset   int
}

// Facets enumerate the filter choices derivable from the store.
type Facets struct {
	Chats   []store.Chat
	Senders []string
	Years   []int
}

// Search runs a filtered full-text query. Results are ordered by timestamp
// descending with id descending as the stable tie-break; Limit/Offset page
// over that fixed order. An empty Query browses by the relational filters
// alone, without the FTS join.
func Search(db *store.DB, opts Options) ([]store.MessageRow, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	var conditions []string
	var args []any

	from := "messages m"
	if opts.Query != "" {
		from = "messages m JOIN messages_fts f ON f.rowid = m.id"
		conditions = append(conditions, "f.text MATCH ?")
		args = append(args, opts.Query)
	}
	if opts.ChatID != 0 {
		conditions = append(conditions, "m.chat_id = ?")
		args = append(args, opts.ChatID)
	}
	if opts.Sender != "" {
		conditions = append(conditions, "m.sender = ?")
		args = append(args, opts.Sender)
	}
	if opts.From != nil {
		conditions = append(conditions, "m.ts >= ?")
		args = append(args, *opts.From)
	}
	if opts.To != nil {
		conditions = append(conditions, "m.ts <= ?")
		args = append(args, *opts.To)
	}
	if opts.HasMedia != nil {
		hm := 0
		if *opts.HasMedia {
			hm = 1
		}
		conditions = append(conditions, "m.has_media = ?")
		args = append(args, hm)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT m.id, m.chat_id, m.ts, m.sender, m.type, m.text, m.has_media, m.media_path
		FROM %s
		%s
		ORDER BY m.ts DESC, m.id DESC
		LIMIT ? OFFSET ?`, from, where)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	return store.ScanMessages(rows)
}

// ListFacets enumerates chats by title, distinct senders, and distinct years
// (ascending) present in the store.
func ListFacets(db *store.DB) (Facets, error) {
	var f Facets

	rows, err := db.Raw().Query("SELECT id, title FROM chats ORDER BY title")
	if err != nil {
		return f, fmt.Errorf("facet chats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c store.Chat
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return f, err
		}
		f.Chats = append(f.Chats, c)
	}
	if err := rows.Err(); err != nil {
		return f, err
	}

	srows, err := db.Raw().Query(
		"SELECT DISTINCT sender FROM messages WHERE sender IS NOT NULL ORDER BY sender")
	if err != nil {
		return f, fmt.Errorf("facet senders: %w", err)
	}
	defer srows.Close()
	for srows.Next() {
		var s string
		if err := srows.Scan(&s); err != nil {
			return f, err
		}
		f.Senders = append(f.Senders, s)
	}
	if err := srows.Err(); err != nil {
		return f, err
	}

	yrows, err := db.Raw().Query(`
		SELECT DISTINCT CAST(strftime('%Y', datetime(ts/1000, 'unixepoch')) AS INTEGER) AS y
		FROM messages ORDER BY y`)
	if err != nil {
		return f, fmt.Errorf("facet years: %w", err)
	}
	defer yrows.Close()
	for yrows.Next() {
		var y int
		if err := yrows.Scan(&y); err != nil {
			return f, err
		}
		f.Years = append(f.Years, y)
	}
	return f, yrows.Err()
}

// GetThread returns up to context messages on each side of messageID within
// its chat, in chronological order with the center included, plus the center
// row itself. A missing id yields an empty thread and nil center, not an
// error. Adjacency is by (ts, id) so timestamp ties stay stable.
func GetThread(db *store.DB, messageID int64, context int) ([]store.MessageRow, *store.MessageRow, error) {
	center, err := db.GetMessage(messageID)
	if err != nil {
		return nil, nil, fmt.Errorf("get message: %w", err)
	}
	if center == nil {
		return nil, nil, nil
	}

	const cols = "id, chat_id, ts, sender, type, text, has_media, media_path"

	brows, err := db.Raw().Query(fmt.Sprintf(`
		SELECT %s FROM messages
		WHERE chat_id = ? AND (ts < ? OR (ts = ? AND id < ?))
		ORDER BY ts DESC, id DESC LIMIT ?`, cols),
		center.ChatID, center.TS, center.TS, center.ID, context)
	if err != nil {
		return nil, nil, fmt.Errorf("thread before: %w", err)
	}
	before, err := store.ScanMessages(brows)
	if err != nil {
		return nil, nil, err
	}

	arows, err := db.Raw().Query(fmt.Sprintf(`
		SELECT %s FROM messages
		WHERE chat_id = ? AND (ts > ? OR (ts = ? AND id > ?))
		ORDER BY ts ASC, id ASC LIMIT ?`, cols),
		center.ChatID, center.TS, center.TS, center.ID, context)
	if err != nil {
		return nil, nil, fmt.Errorf("thread after: %w", err)
	}
	after, err := store.ScanMessages(arows)
	if err != nil {
		return nil, nil, err
	}

	thread := make([]store.MessageRow, 0, len(before)+1+len(after))
	for i := len(before) - 1; i >= 0; i-- {
		thread = append(thread, before[i])
	}
	thread = append(thread, *center)
	thread = append(thread, after...)
	return thread, center, nil
}

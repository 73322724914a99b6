package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS chats (
    id    INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS participants (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    chat_id INTEGER NOT NULL,
    name    TEXT NOT NULL,
    UNIQUE (chat_id, name)
);

CREATE TABLE IF NOT EXISTS messages (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    chat_id    INTEGER NOT NULL,
    ts         INTEGER NOT NULL,
    sender     TEXT,
    type       TEXT NOT NULL DEFAULT 'message' CHECK (type IN ('message','system')),
    text       TEXT NOT NULL DEFAULT '',
    has_media  INTEGER NOT NULL DEFAULT 0,
    media_path TEXT
);

CREATE INDEX IF NOT EXISTS idx_messages_chat_ts ON messages (chat_id, ts, id);

CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
    text,
    content='messages',
    content_rowid='id',
    tokenize='porter'
);

-- triggers keep FTS in sync within the same unit of work as the row change
CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
    INSERT INTO messages_fts(rowid, text) VALUES (new.id, new.text);
END;

CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, text) VALUES ('delete', old.id, old.text);
END;

CREATE TRIGGER IF NOT EXISTS messages_au AFTER UPDATE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, text) VALUES ('delete', old.id, old.text);
    INSERT INTO messages_fts(rowid, text) VALUES (new.id, new.text);
END;
`

// Message kinds accepted by the type CHECK constraint.
const (
	KindMessage = "message"
	KindSystem  = "system"
)

// StorageError is a failed write, annotated with the chat being loaded so the
// caller can tell where a rolled-back import died.
type StorageError struct {
	Chat string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Chat != "" {
		return fmt.Sprintf("storage: chat %q: %v", e.Chat, e.Err)
	}
	return fmt.Sprintf("storage: %v", e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Chat is a conversation, keyed for upsert by its transcript-derived title.
type Chat struct {
	ID    int64
	Title string
}

// Participant is a sender observed within one chat.
type Participant struct {
	ID     int64
	ChatID int64
	Name   string
}

// MessageRow is one stored message. Sender is empty for system messages;
// MediaPath is empty when no archive filename was resolved.
type MessageRow struct {
	ID        int64
	ChatID    int64
	TS        int64 // epoch milliseconds, UTC
	Sender    string
	Kind      string
	Text      string
	HasMedia  bool
	MediaPath string
}

// ChatStats is a chat plus its message summary, for listings.
type ChatStats struct {
	Chat
	MessageCount     int64
	FirstTS          int64
	LastTS           int64
	ParticipantCount int64
}

type DB struct {
	db *sql.DB
}

// OpenDB opens (creating on first use) the store file at dbPath.
func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

// Begin starts a write transaction. All import writes for one archive run on
// a single Tx so a failure rolls back every chat in it.
func (d *DB) Begin() (*Tx, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	return &Tx{tx: tx}, nil
}

func (d *DB) HasMessages(chatID int64) (bool, error) {
	var n int64
	err := d.db.QueryRow("SELECT COUNT(*) FROM messages WHERE chat_id = ?", chatID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *DB) ChatCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM chats").Scan(&n)
	return n, err
}

func (d *DB) MessageCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n)
	return n, err
}

func (d *DB) FTSCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM messages_fts").Scan(&n)
	return n, err
}

// GetMessage returns the message with the given id, or nil when absent.
func (d *DB) GetMessage(id int64) (*MessageRow, error) {
	row := d.db.QueryRow(
		"SELECT id, chat_id, ts, sender, type, text, has_media, media_path FROM messages WHERE id = ?", id)
	m, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetChatByTitle returns nil when no chat carries the title.
func (d *DB) GetChatByTitle(title string) (*Chat, error) {
	var c Chat
	err := d.db.QueryRow("SELECT id, title FROM chats WHERE title = ?", title).Scan(&c.ID, &c.Title)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ChatsWithStats lists every chat with message counts and date ranges,
// most recently active first.
func (d *DB) ChatsWithStats() ([]ChatStats, error) {
	rows, err := d.db.Query(`
		SELECT c.id, c.title,
		       COUNT(m.id),
		       COALESCE(MIN(m.ts), 0),
		       COALESCE(MAX(m.ts), 0),
		       COUNT(DISTINCT m.sender)
		FROM chats c
		LEFT JOIN messages m ON m.chat_id = c.id
		GROUP BY c.id, c.title
		ORDER BY MAX(m.ts) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ChatStats
	for rows.Next() {
		var s ChatStats
		if err := rows.Scan(&s.ID, &s.Title, &s.MessageCount, &s.FirstTS, &s.LastTS, &s.ParticipantCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ClearMessages removes every message of one chat, FTS entries included.
func (d *DB) ClearMessages(chatID int64) error {
	tx, err := d.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := tx.ClearMessages(chatID); err != nil {
		return err
	}
	return tx.Commit()
}

// ClearAll removes all chats, participants, and messages and resets the
// identity counters.
func (d *DB) ClearAll() error {
	tx, err := d.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := tx.ClearAll(); err != nil {
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(r rowScanner) (*MessageRow, error) {
	var m MessageRow
	var sender, mediaPath sql.NullString
	var hasMedia int64
	err := r.Scan(&m.ID, &m.ChatID, &m.TS, &sender, &m.Kind, &m.Text, &hasMedia, &mediaPath)
	if err != nil {
		return nil, err
	}
	m.Sender = sender.String
	m.MediaPath = mediaPath.String
	m.HasMedia = hasMedia != 0
	return &m, nil
}

// ScanMessages drains a message query's rows into typed records.
func ScanMessages(rows *sql.Rows) ([]MessageRow, error) {
	defer rows.Close()
	var out []MessageRow
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

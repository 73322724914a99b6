package store

import (
	"database/sql"
)

// Tx is one write transaction. The importer runs a whole archive inside a
// single Tx; either every chat's messages commit or none do.
type Tx struct {
	tx   *sql.Tx
	stmt *sql.Stmt // prepared message insert, lazily created
}

func (t *Tx) Commit() error {
	if t.stmt != nil {
		t.stmt.Close()
		t.stmt = nil
	}
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	if t.stmt != nil {
		t.stmt.Close()
		t.stmt = nil
	}
	return t.tx.Rollback()
}

// UpsertChat returns the id for title, inserting on first encounter.
func (t *Tx) UpsertChat(title string) (int64, error) {
	var id int64
	err := t.tx.QueryRow("SELECT id FROM chats WHERE title = ?", title).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	res, err := t.tx.Exec("INSERT INTO chats (title) VALUES (?)", title)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpsertParticipant returns the id for (chatID, name), inserting on first
// encounter of the sender within the chat.
func (t *Tx) UpsertParticipant(chatID int64, name string) (int64, error) {
	var id int64
	err := t.tx.QueryRow("SELECT id FROM participants WHERE chat_id = ? AND name = ?", chatID, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	res, err := t.tx.Exec("INSERT INTO participants (chat_id, name) VALUES (?, ?)", chatID, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertMessage appends one message row. The FTS triggers keep the index in
// step inside this same transaction. The prepared statement is reused across
// the whole Tx.
func (t *Tx) InsertMessage(m MessageRow) error {
	if t.stmt == nil {
		stmt, err := t.tx.Prepare(
			"INSERT INTO messages (chat_id, ts, sender, type, text, has_media, media_path) VALUES (?, ?, ?, ?, ?, ?, ?)")
		if err != nil {
			return err
		}
		t.stmt = stmt
	}

	var sender, mediaPath any
	if m.Sender != "" {
		sender = m.Sender
	}
	if m.MediaPath != "" {
		mediaPath = m.MediaPath
	}
	hasMedia := 0
	if m.HasMedia {
		hasMedia = 1
	}
	_, err := t.stmt.Exec(m.ChatID, m.TS, sender, m.Kind, m.Text, hasMedia, mediaPath)
	return err
}

func (t *Tx) HasMessages(chatID int64) (bool, error) {
	var n int64
	if err := t.tx.QueryRow("SELECT COUNT(*) FROM messages WHERE chat_id = ?", chatID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (t *Tx) ClearMessages(chatID int64) error {
	_, err := t.tx.Exec("DELETE FROM messages WHERE chat_id = ?", chatID)
	return err
}

// ClearAll wipes messages, chats, and participants and resets autoincrement
// counters. Children first so no orphans survive a partial failure.
func (t *Tx) ClearAll() error {
	for _, stmt := range []string{
		"DELETE FROM messages",
		"DELETE FROM participants",
		"DELETE FROM chats",
	} {
		if _, err := t.tx.Exec(stmt); err != nil {
			return err
		}
	}

	// sqlite_sequence only exists once an AUTOINCREMENT insert has happened
	var name string
	err := t.tx.QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence'").Scan(&name)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = t.tx.Exec("DELETE FROM sqlite_sequence WHERE name IN ('messages','participants','chats')")
	return err
}

package importer

import (
	"fmt"
	"os"
	"strings"

	"whatsfind/internal/archive"
	"whatsfind/internal/parse"
	"whatsfind/internal/store"
)

// Policy decides what happens when a chat title in the archive already has
// messages in the store. The key is title equality only, so two distinct
// conversations exported under the same title collide; accepted limitation.
type Policy string

const (
	PolicySkip    Policy = "skip"    // leave the existing chat untouched
	PolicyReplace Policy = "replace" // delete its messages first
	PolicyAppend  Policy = "append"  // insert unconditionally, duplicates possible
)

// ParsePolicy validates a policy flag value.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicySkip, PolicyReplace, PolicyAppend:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown policy %q (want skip, replace, or append)", s)
}

type Options struct {
	Policy    Policy
	BatchSize int // progress reporting granularity, default 1000
}

type Stats struct {
	Chats          int
	Messages       int
	SkippedChats   int
	SkippedEntries int
}

func (s Stats) String() string {
	return fmt.Sprintf("chats=%d messages=%d skipped_chats=%d skipped_entries=%d",
		s.Chats, s.Messages, s.SkippedChats, s.SkippedEntries)
}

// Import loads every transcript of the archive into the store as one atomic
// unit: any failure rolls back all of it. The duplicate policy is evaluated
// per chat title.
func Import(db *store.DB, rd *archive.Reader, opts Options) (Stats, error) {
	var stats Stats
	if opts.Policy == "" {
		opts.Policy = PolicySkip
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1000
	}

	transcripts := rd.Transcripts()
	for _, sk := range rd.Skipped() {
		fmt.Fprintf(os.Stderr, "  WARN: skipped entry %s: %v\n", sk.Name, sk.Err)
	}
	stats.SkippedEntries = len(rd.Skipped())

	tx, err := db.Begin()
	if err != nil {
		return stats, err
	}
	defer tx.Rollback()

	media := rd.Media()
	for _, t := range transcripts {
		n, skipped, err := importChat(tx, t, media, opts)
		if err != nil {
			return stats, &store.StorageError{Chat: t.Title, Err: err}
		}
		if skipped {
			stats.SkippedChats++
			continue
		}
		stats.Chats++
		stats.Messages += n
	}

	if err := tx.Commit(); err != nil {
		return stats, &store.StorageError{Err: err}
	}
	return stats, nil
}

func importChat(tx *store.Tx, t archive.Transcript, media map[string]struct{}, opts Options) (int, bool, error) {
	chatID, err := tx.UpsertChat(t.Title)
	if err != nil {
		return 0, false, err
	}

	has, err := tx.HasMessages(chatID)
	if err != nil {
		return 0, false, err
	}
	if has {
		switch opts.Policy {
		case PolicySkip:
			return 0, true, nil
		case PolicyReplace:
			if err := tx.ClearMessages(chatID); err != nil {
				return 0, false, err
			}
		}
	}

	seenSenders := make(map[string]struct{})
	ra := parse.NewReassembler(strings.NewReader(t.Text), media)

	n := 0
	for {
		msg, ok := ra.Next()
		if !ok {
			break
		}
		if msg.Sender != "" {
			if _, seen := seenSenders[msg.Sender]; !seen {
				if _, err := tx.UpsertParticipant(chatID, msg.Sender); err != nil {
					return n, false, err
				}
				seenSenders[msg.Sender] = struct{}{}
			}
		}
		err := tx.InsertMessage(store.MessageRow{
			ChatID:    chatID,
			TS:        msg.TS,
			Sender:    msg.Sender,
			Kind:      msg.Kind,
			Text:      msg.Text,
			HasMedia:  msg.HasMedia,
			MediaPath: msg.MediaPath,
		})
		if err != nil {
			return n, false, err
		}
		n++
		if n%opts.BatchSize == 0 {
			fmt.Fprintf(os.Stderr, "  %s: %d messages...\n", t.Title, n)
		}
	}
	if err := ra.Err(); err != nil {
		return n, false, err
	}
	return n, false, nil
}

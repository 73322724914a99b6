package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"whatsfind/internal/search"
	"whatsfind/internal/store"
)

// ContextMessage is one retrieved message formatted for the model.
type ContextMessage struct {
	ChatTitle string
	Sender    string
	TS        int64
	Text      string
}

// Retrieve pulls the most relevant stored messages for a question via the
// full-text index. Questions that make poor FTS queries (stray punctuation,
// no matches) fall back to the most recent messages so the model always gets
// some context.
func Retrieve(db *store.DB, question string, chatID int64, limit int) ([]ContextMessage, error) {
	if limit <= 0 {
		limit = 10
	}

	titles, err := chatTitles(db)
	if err != nil {
		return nil, err
	}

	rows, err := search.Search(db, search.Options{
		Query:  ftsQuery(question),
		ChatID: chatID,
		Limit:  limit,
	})
	if err != nil || len(rows) == 0 {
		rows, err = search.Search(db, search.Options{ChatID: chatID, Limit: limit})
		if err != nil {
			return nil, fmt.Errorf("retrieve context: %w", err)
		}
	}

	out := make([]ContextMessage, 0, len(rows))
	for _, m := range rows {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		sender := m.Sender
		if sender == "" {
			sender = "System"
		}
		out = append(out, ContextMessage{
			ChatTitle: titles[m.ChatID],
			Sender:    sender,
			TS:        m.TS,
			Text:      m.Text,
		})
	}
	return out, nil
}

// ftsQuery turns a natural-language question into an OR query of its words,
// dropping characters FTS5 would treat as syntax.
func ftsQuery(question string) string {
	fields := strings.FieldsFunc(question, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, " OR ")
}

// BuildPrompt formats retrieved messages into the question prompt.
func BuildPrompt(question string, msgs []ContextMessage) string {
	if len(msgs) == 0 {
		return fmt.Sprintf("No relevant messages found for the question: %s", question)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on the following chat messages, please answer this question: %s\n\nCHAT MESSAGES:\n", question)
	for i, m := range msgs {
		ts := time.UnixMilli(m.TS).UTC().Format("2006-01-02 15:04")
		fmt.Fprintf(&b, "\nMessage %d:\n- Chat: %s\n- Sender: %s\n- Time: %s\n- Content: %s\n",
			i+1, m.ChatTitle, m.Sender, ts, m.Text)
	}
	b.WriteString("\n\nPlease provide a helpful and accurate answer based on these messages. " +
		"If the messages don't contain enough information to answer the question, say so. " +
		"Include specific details and quotes from the messages when relevant.")
	return b.String()
}

// Ask answers a question about the stored chats using the given provider.
func Ask(ctx context.Context, db *store.DB, p Provider, question string, chatID int64, limit int) (string, error) {
	msgs, err := Retrieve(db, question, chatID, limit)
	if err != nil {
		return "", err
	}
	return p.Generate(ctx, BuildPrompt(question, msgs))
}

func chatTitles(db *store.DB) (map[int64]string, error) {
	facets, err := search.ListFacets(db)
	if err != nil {
		return nil, err
	}
	titles := make(map[int64]string, len(facets.Chats))
	for _, c := range facets.Chats {
		titles[c.ID] = c.Title
	}
	return titles, nil
}

package parse

// Message kinds as stored in the messages table.
const (
	KindMessage = "message"
	KindSystem  = "system"
)

// Message is one reassembled transcript message.
type Message struct {
	TS        int64  // epoch milliseconds, UTC
	Sender    string // empty for system messages
	Kind      string // "message" or "system"
	Text      string
	HasMedia  bool
	MediaPath string // base filename inside the archive, "" if unresolved
}

package parse

import (
	"bufio"
	"io"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB

// Reassembler folds a transcript's line stream back into logical messages.
// It holds exactly one pending message at a time, so arbitrarily large
// transcripts stream in constant memory.
type Reassembler struct {
	scanner   *bufio.Scanner
	available map[string]struct{}
	pending   *Message
	done      bool
}

// NewReassembler reads transcript lines from r. available is the set of base
// filenames present in the originating archive, used to resolve inline media
// references.
func NewReassembler(r io.Reader, available map[string]struct{}) *Reassembler {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reassembler{
		scanner:   sc,
		available: available,
	}
}

// Next returns the next finalized message. ok is false once the transcript is
// exhausted.
func (ra *Reassembler) Next() (Message, bool) {
	for !ra.done && ra.scanner.Scan() {
		line := ra.scanner.Text()

		h, isHeader := ParseHeader(line)
		if !isHeader {
			// Continuation: append to the pending message, or drop the
			// line when there is no message context to attach it to.
			if ra.pending != nil {
				ra.pending.Text += "\n" + line
				ra.resolveMedia()
			}
			continue
		}

		msg := ra.startPending(h)
		if msg != nil {
			return *msg, true
		}
	}

	ra.done = true
	if ra.pending != nil {
		msg := *ra.pending
		ra.pending = nil
		return msg, true
	}
	return Message{}, false
}

// Err reports any underlying read error after Next returns false.
func (ra *Reassembler) Err() error {
	return ra.scanner.Err()
}

// startPending finalizes the current pending message (returned, may be nil)
// and opens a new one from the header.
func (ra *Reassembler) startPending(h Header) *Message {
	var finalized *Message
	if ra.pending != nil {
		finalized = ra.pending
	}

	kind := KindMessage
	if h.Sender == "" {
		kind = KindSystem
	}
	ra.pending = &Message{
		TS:     h.TS,
		Sender: h.Sender,
		Kind:   kind,
		Text:   h.Text,
	}
	ra.resolveMedia()
	return finalized
}

// resolveMedia re-scans the pending text after a text update. The first
// resolved filename wins and is never overwritten by later matches within the
// same message.
func (ra *Reassembler) resolveMedia() {
	if HasMediaPlaceholder(ra.pending.Text) {
		ra.pending.HasMedia = true
	}
	if ra.pending.MediaPath != "" {
		return
	}
	if path, ok := FindMediaRef(ra.pending.Text, ra.available); ok {
		ra.pending.HasMedia = true
		ra.pending.MediaPath = path
	}
}

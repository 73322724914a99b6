package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const transcriptExt = ".txt"

// ErrMediaNotFound is returned by MediaFile when no entry matches.
var ErrMediaNotFound = errors.New("media file not found in archive")

// ArchiveError marks the whole archive as unusable: unreadable container or
// no transcript entries at all.
type ArchiveError struct {
	Reason string
	Err    error
}

func (e *ArchiveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("archive: %s: %v", e.Reason, e.Err)
	}
	return "archive: " + e.Reason
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// Transcript is one decoded chat log from the archive.
type Transcript struct {
	Title string // base entry name without the .txt extension
	Text  string
}

// SkippedEntry records a transcript entry that could not be read. The import
// continues without it.
type SkippedEntry struct {
	Name string
	Err  error
}

// Reader is the session handle over one uploaded archive. It retains the raw
// bytes so media lookups can re-open entries for as long as the caller keeps
// it; nothing is persisted.
type Reader struct {
	zr      *zip.Reader
	media   map[string]struct{}
	skipped []SkippedEntry
}

// NewReader opens an export archive held in memory. A malformed container or
// an archive with zero transcript entries fails with *ArchiveError.
func NewReader(data []byte) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ArchiveError{Reason: "unreadable archive", Err: err}
	}

	r := &Reader{zr: zr, media: make(map[string]struct{})}
	transcripts := 0
	for _, f := range zr.File {
		if isTranscript(f.Name) {
			transcripts++
			continue
		}
		if base := path.Base(f.Name); base != "." && base != "/" && !strings.HasSuffix(f.Name, "/") {
			r.media[base] = struct{}{}
		}
	}
	if transcripts == 0 {
		return nil, &ArchiveError{Reason: "no transcript (.txt) entries"}
	}
	return r, nil
}

// Transcripts decodes every .txt entry. Decoding is strict UTF-8 first; bytes
// that are not valid UTF-8 fall back to ISO-8859-1 with replacement rather
// than failing the import. Entries that cannot be read at all are skipped and
// recorded.
func (r *Reader) Transcripts() []Transcript {
	var out []Transcript
	for _, f := range r.zr.File {
		if !isTranscript(f.Name) {
			continue
		}
		text, err := r.readEntry(f)
		if err != nil {
			r.skipped = append(r.skipped, SkippedEntry{Name: f.Name, Err: err})
			continue
		}
		title := strings.TrimSuffix(path.Base(f.Name), path.Ext(f.Name))
		out = append(out, Transcript{Title: title, Text: text})
	}
	return out
}

// Skipped lists transcript entries dropped during Transcripts.
func (r *Reader) Skipped() []SkippedEntry {
	return r.skipped
}

// Media returns the base filenames of all non-transcript entries.
func (r *Reader) Media() map[string]struct{} {
	return r.media
}

// MediaFile returns the bytes of a media entry by base filename, preferring
// an exact match and falling back to a case-insensitive one.
func (r *Reader) MediaFile(name string) ([]byte, error) {
	for _, f := range r.zr.File {
		if path.Base(f.Name) == name {
			return readAll(f)
		}
	}
	lower := strings.ToLower(name)
	for _, f := range r.zr.File {
		if strings.ToLower(path.Base(f.Name)) == lower {
			return readAll(f)
		}
	}
	return nil, ErrMediaNotFound
}

func (r *Reader) readEntry(f *zip.File) (string, error) {
	raw, err := readAll(f)
	if err != nil {
		return "", err
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("fallback decode: %w", err)
	}
	return string(decoded), nil
}

func readAll(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return data, nil
}

func isTranscript(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), transcriptExt)
}

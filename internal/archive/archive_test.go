package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	name string
	data []byte
}

func buildZip(t *testing.T, entries ...entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write(e.data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestNewReaderSeparatesTranscriptsAndMedia(t *testing.T) {
	data := buildZip(t,
		entry{"WhatsApp Chat with Alice.txt", []byte("[1/2/23, 9:15] Alice: hi\n")},
		entry{"IMG-20230101-WA0001.jpg", []byte{0xff, 0xd8}},
		entry{"media/VID-20230101-WA0002.mp4", []byte{0x00}},
	)

	r, err := NewReader(data)
	require.NoError(t, err)

	ts := r.Transcripts()
	require.Len(t, ts, 1)
	assert.Equal(t, "WhatsApp Chat with Alice", ts[0].Title)
	assert.Equal(t, "[1/2/23, 9:15] Alice: hi\n", ts[0].Text)

	media := r.Media()
	assert.Contains(t, media, "IMG-20230101-WA0001.jpg")
	assert.Contains(t, media, "VID-20230101-WA0002.mp4")
	assert.NotContains(t, media, "WhatsApp Chat with Alice.txt")
}

func TestNewReaderRejectsCorruptArchive(t *testing.T) {
	_, err := NewReader([]byte("this is not a zip"))
	var ae *ArchiveError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "unreadable archive", ae.Reason)
}

func TestNewReaderRejectsArchiveWithoutTranscripts(t *testing.T) {
	data := buildZip(t, entry{"IMG-20230101-WA0001.jpg", []byte{0xff}})

	_, err := NewReader(data)
	var ae *ArchiveError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "no transcript (.txt) entries", ae.Reason)
}

func TestTranscriptLatin1Fallback(t *testing.T) {
	// 0xE9 is é in ISO-8859-1 but invalid as a standalone UTF-8 byte.
	data := buildZip(t, entry{"chat.txt", []byte{'c', 'a', 'f', 0xE9}})

	r, err := NewReader(data)
	require.NoError(t, err)

	ts := r.Transcripts()
	require.Len(t, ts, 1)
	assert.Equal(t, "café", ts[0].Text)
	assert.Empty(t, r.Skipped())
}

func TestTranscriptUppercaseExtension(t *testing.T) {
	data := buildZip(t, entry{"CHAT.TXT", []byte("hello")})

	r, err := NewReader(data)
	require.NoError(t, err)
	require.Len(t, r.Transcripts(), 1)
}

func TestMediaFileLookup(t *testing.T) {
	data := buildZip(t,
		entry{"chat.txt", []byte("x")},
		entry{"media/IMG-20230101-WA0001.jpg", []byte("jpegbytes")},
	)

	r, err := NewReader(data)
	require.NoError(t, err)

	got, err := r.MediaFile("IMG-20230101-WA0001.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpegbytes"), got)

	got, err = r.MediaFile("img-20230101-wa0001.JPG")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpegbytes"), got)

	_, err = r.MediaFile("missing.jpg")
	assert.True(t, errors.Is(err, ErrMediaNotFound))
}

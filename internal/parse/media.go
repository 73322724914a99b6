package parse

import (
	"regexp"
	"strings"
)

// mediaPattern tags one filename shape so new naming schemes are additive.
type mediaPattern struct {
	tag string
	re  *regexp.Regexp
}

var mediaPatterns = []mediaPattern{
	{"image", regexp.MustCompile(`(?i)IMG-\d{8}-WA\d{4}\.jpg`)},
	{"voice", regexp.MustCompile(`(?i)PTT-\d{8}-WA\d{4}\.opus`)},
	{"video", regexp.MustCompile(`(?i)VID-\d{8}-WA\d{4}\.mp4`)},
	{"audio", regexp.MustCompile(`(?i)AUD-\d{8}-WA\d{4}\.opus`)},
	{"document", regexp.MustCompile(`(?i)DOC-\d{8}-WA\d{4}\.?\w*`)},
	{"sticker", regexp.MustCompile(`(?i)STK-\d{8}-WA\d{4}\.webp`)},
	{"pdf", regexp.MustCompile(`(?i)\w+\.pdf`)},
	{"word", regexp.MustCompile(`(?i)\w+\.docx?`)},
	{"excel", regexp.MustCompile(`(?i)\w+\.xlsx?`)},
	{"powerpoint", regexp.MustCompile(`(?i)\w+\.pptx?`)},
}

// placeholderPhrases mark media that was stripped from the export; they set
// the media flag even when no filename can be resolved.
var placeholderPhrases = []string{
	"<media omitted>",
	"image omitted",
}

// FindMediaRef returns the first media filename referenced in text that is
// actually present in the available set. Patterns are tried in table order,
// each match checked literally against the archive's filenames.
func FindMediaRef(text string, available map[string]struct{}) (string, bool) {
	for _, p := range mediaPatterns {
		for _, m := range p.re.FindAllString(text, -1) {
			if _, ok := available[m]; ok {
				return m, true
			}
		}
	}
	return "", false
}

// HasMediaPlaceholder reports whether text contains an explicit omitted-media
// phrase, case-insensitively.
func HasMediaPlaceholder(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range placeholderPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

package youtube

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var textElemRe = regexp.MustCompile(`<text start="([^"]*)" dur="([^"]*)"[^>]*>(?s:(.*?))</text>`)

// Caption is a single timed caption line.
type Caption struct {
	Start float64 `json:"start"`
	Dur   float64 `json:"dur"`
	Text  string  `json:"text"`
}

// End returns the time at which the caption stops being shown.
func (c Caption) End() float64 {
	return c.Start + c.Dur
}

// DecodeTimedText parses every <text start dur> element of a timed-text document,
// in document order. A malformed number fails the whole document.
func DecodeTimedText(doc string) ([]Caption, error) {
	matches := textElemRe.FindAllStringSubmatch(doc, -1)
	captions := make([]Caption, 0, len(matches))
	for _, m := range matches {
		start, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: start %q: %v", ErrTimedTextParse, m[1], err)
		}
		dur, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: dur %q: %v", ErrTimedTextParse, m[2], err)
		}
		captions = append(captions, Caption{Start: start, Dur: dur, Text: decodeText(m[3])})
	}
	return captions, nil
}

func decodeText(raw string) string {
	s := html.UnescapeString(raw)
	s = strings.ReplaceAll(s, "\n", " ")
	// Separate from entity decoding: catches apostrophes that were escaped twice.
	return strings.ReplaceAll(s, "&#39;", "'")
}

// JoinText concatenates caption texts separated by single spaces.
func JoinText(captions []Caption) string {
	parts := make([]string, len(captions))
	for i, c := range captions {
		parts[i] = c.Text
	}
	return strings.Join(parts, " ")
}

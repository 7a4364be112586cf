package youtube

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const captionTracksMarker = "captionTracks"

// captionTracksRe captures the manifest array lazily, up to the first "]".
// Track records containing nested arrays can end the match early.
var captionTracksRe = regexp.MustCompile(`"captionTracks":(\[.*?\])`)

// CaptionTrack is one caption stream advertised by a watch page.
type CaptionTrack struct {
	VssID        string `json:"vssId"`
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode,omitempty"`
	Kind         string `json:"kind,omitempty"`
	Name         string `json:"name,omitempty"`
}

// ExtractTracks pulls the caption track manifest out of a watch page body.
func ExtractTracks(page string) ([]CaptionTrack, error) {
	if !strings.Contains(page, captionTracksMarker) {
		return nil, ErrCaptionsUnavailable
	}

	m := captionTracksRe.FindStringSubmatch(page)
	if len(m) != 2 {
		return nil, fmt.Errorf("%w: captionTracks array not found", ErrManifestParse)
	}

	var manifest map[string]any
	if err := json.Unmarshal([]byte(`{"captionTracks":`+m[1]+`}`), &manifest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestParse, err)
	}
	items, ok := manifest["captionTracks"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: captionTracks is not an array", ErrManifestParse)
	}

	tracks := make([]CaptionTrack, 0, len(items))
	for _, it := range items {
		t, _ := it.(map[string]any)
		vss, _ := t["vssId"].(string)
		base, _ := t["baseUrl"].(string)
		lang, _ := t["languageCode"].(string)
		kind, _ := t["kind"].(string)
		tracks = append(tracks, CaptionTrack{
			VssID:        vss,
			BaseURL:      base,
			LanguageCode: lang,
			Kind:         kind,
			Name:         trackName(t["name"]),
		})
	}
	return tracks, nil
}

// trackName reads either {"simpleText": ...} or {"runs": [{"text": ...}]}.
func trackName(v any) string {
	n, _ := v.(map[string]any)
	if s, ok := n["simpleText"].(string); ok {
		return s
	}
	runs, _ := n["runs"].([]any)
	var sb strings.Builder
	for _, r := range runs {
		run, _ := r.(map[string]any)
		if s, ok := run["text"].(string); ok {
			sb.WriteString(s)
		}
	}
	return sb.String()
}

// SelectTrack returns the first track whose vssId ends with lang.
// Tracks without a vssId never match.
func SelectTrack(tracks []CaptionTrack, lang string) (CaptionTrack, error) {
	for _, t := range tracks {
		if t.VssID != "" && strings.HasSuffix(t.VssID, lang) {
			return t, nil
		}
	}
	return CaptionTrack{}, fmt.Errorf("%w %s", ErrLanguageUnavailable, lang)
}

func (t CaptionTrack) String() string {
	var sb strings.Builder
	sb.WriteString(t.VssID)
	if t.Name != "" {
		sb.WriteString(" (" + t.Name + ")")
	}
	if t.Kind != "" {
		sb.WriteString(" - " + t.Kind)
	}
	return sb.String()
}

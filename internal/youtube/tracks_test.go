package youtube

import (
	"errors"
	"testing"
)

const samplePage = `<html><script>var ytInitialPlayerResponse = {"captions":{"playerCaptionsTracklistRenderer":` +
	`{"captionTracks":[{"vssId":"a.en","baseUrl":"X"},{"vssId":"a.fr","baseUrl":"Y"}],"audioTracks":[]}}};</script></html>`

func TestExtractTracks(t *testing.T) {
	tracks, err := ExtractTracks(samplePage)
	if err != nil {
		t.Fatalf("ExtractTracks returned error: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if tracks[0].VssID != "a.en" || tracks[0].BaseURL != "X" {
		t.Errorf("unexpected first track: %+v", tracks[0])
	}
	if tracks[1].VssID != "a.fr" || tracks[1].BaseURL != "Y" {
		t.Errorf("unexpected second track: %+v", tracks[1])
	}
}

func TestExtractTracksMetadata(t *testing.T) {
	page := `"captionTracks":[{"baseUrl":"https://example.com/tt?v=1&lang=de","name":{"simpleText":"German"},` +
		`"vssId":".de","languageCode":"de","kind":"asr"},{"baseUrl":"Z","name":{"runs":{"text":"x"}},"vssId":7}]`

	tracks, err := ExtractTracks(page)
	if err != nil {
		t.Fatalf("ExtractTracks returned error: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	want := CaptionTrack{
		VssID:        ".de",
		BaseURL:      "https://example.com/tt?v=1&lang=de",
		LanguageCode: "de",
		Kind:         "asr",
		Name:         "German",
	}
	if tracks[0] != want {
		t.Errorf("first track = %+v, want %+v", tracks[0], want)
	}
	if tracks[1].VssID != "" {
		t.Errorf("non-string vssId should be dropped, got %q", tracks[1].VssID)
	}
}

func TestExtractTracksNoMarker(t *testing.T) {
	_, err := ExtractTracks(`<html><body>no captions here</body></html>`)
	if !errors.Is(err, ErrCaptionsUnavailable) {
		t.Fatalf("expected ErrCaptionsUnavailable, got %v", err)
	}
}

func TestExtractTracksManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{name: "marker without array", page: `{"captionTracks": "none"}`},
		{name: "marker in text only", page: `captionTracks are disabled`},
		{name: "invalid json", page: `"captionTracks":[{"vssId":.en}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractTracks(tt.page)
			if !errors.Is(err, ErrManifestParse) {
				t.Fatalf("expected ErrManifestParse, got %v", err)
			}
		})
	}
}

// The lazy pattern stops at the first closing bracket, so a nested array
// inside a track cuts the manifest short and the JSON no longer parses.
func TestExtractTracksNestedArrayMisbounds(t *testing.T) {
	page := `"captionTracks":[{"vssId":".en","baseUrl":"X","tags":["a"]}]`
	_, err := ExtractTracks(page)
	if !errors.Is(err, ErrManifestParse) {
		t.Fatalf("expected ErrManifestParse, got %v", err)
	}
}

func TestSelectTrack(t *testing.T) {
	tracks, err := ExtractTracks(samplePage)
	if err != nil {
		t.Fatalf("ExtractTracks returned error: %v", err)
	}

	got, err := SelectTrack(tracks, "en")
	if err != nil {
		t.Fatalf("SelectTrack(en) returned error: %v", err)
	}
	if got != tracks[0] {
		t.Errorf("SelectTrack(en) = %+v, want %+v", got, tracks[0])
	}

	_, err = SelectTrack(tracks, "de")
	if !errors.Is(err, ErrLanguageUnavailable) {
		t.Fatalf("SelectTrack(de) error = %v, want ErrLanguageUnavailable", err)
	}
}

func TestSelectTrackSuffixAndOrder(t *testing.T) {
	tracks := []CaptionTrack{
		{BaseURL: "missing-vss"},
		{VssID: ".pt-BR", BaseURL: "br"},
		{VssID: "a.en", BaseURL: "asr"},
		{VssID: ".en", BaseURL: "manual"},
	}

	got, err := SelectTrack(tracks, "en")
	if err != nil {
		t.Fatalf("SelectTrack returned error: %v", err)
	}
	if got.BaseURL != "asr" {
		t.Errorf("expected first matching track in input order, got %+v", got)
	}

	got, err = SelectTrack(tracks, "BR")
	if err != nil {
		t.Fatalf("SelectTrack returned error: %v", err)
	}
	if got.BaseURL != "br" {
		t.Errorf("expected suffix match on region, got %+v", got)
	}

	if _, err := SelectTrack(tracks, "pt"); !errors.Is(err, ErrLanguageUnavailable) {
		t.Errorf("suffix match must not match a prefix, got %v", err)
	}
	if _, err := SelectTrack(nil, "en"); !errors.Is(err, ErrLanguageUnavailable) {
		t.Errorf("expected ErrLanguageUnavailable for no tracks, got %v", err)
	}
}

package youtube

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"testing"
)

type fakeFetcher struct {
	pages    map[string]string
	requests []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.requests = append(f.requests, url)
	body, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("HTTP 404 for %s", url)
	}
	return body, nil
}

const watchPage = `<script>var ytInitialPlayerResponse = {"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":` +
	`[{"baseUrl":"https://example.com/api/timedtext?v=xpUtDk79dww&lang=en","vssId":".en"},` +
	`{"baseUrl":"https://example.com/api/timedtext?v=xpUtDk79dww&lang=fr","vssId":".fr"}]}}};</script>`

const enTrack = `<transcript><text start="0.5" dur="1.5">Hello &amp; welcome</text>` +
	`<text start="2" dur="2.25">to the show</text></transcript>`

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[string]string{
		"https://youtube.com/watch?v=xpUtDk79dww":                  watchPage,
		"https://example.com/api/timedtext?v=xpUtDk79dww&lang=en": enTrack,
		"https://youtube.com/watch?v=noCaptions1":                  `<html>nothing</html>`,
	}}
}

func TestGetSubtitles(t *testing.T) {
	f := newFakeFetcher()
	var logs bytes.Buffer
	client := NewClient(f, WithLogger(log.New(&logs, "", 0)))

	captions, err := client.GetSubtitles(context.Background(), "xpUtDk79dww", "en")
	if err != nil {
		t.Fatalf("GetSubtitles returned error: %v", err)
	}
	want := []Caption{
		{Start: 0.5, Dur: 1.5, Text: "Hello & welcome"},
		{Start: 2, Dur: 2.25, Text: "to the show"},
	}
	if len(captions) != len(want) {
		t.Fatalf("expected %d captions, got %d", len(want), len(captions))
	}
	for i := range want {
		if captions[i] != want[i] {
			t.Errorf("caption %d = %+v, want %+v", i, captions[i], want[i])
		}
	}
	if len(f.requests) != 2 {
		t.Errorf("expected 2 requests, got %v", f.requests)
	}
	if !strings.Contains(logs.String(), "selected track .en") {
		t.Errorf("expected debug log of the selected track, got %q", logs.String())
	}
}

func TestFetchCaptionsFromURL(t *testing.T) {
	client := NewClient(newFakeFetcher())
	captions, err := client.FetchCaptions(context.Background(), "https://youtu.be/xpUtDk79dww?t=3", "en")
	if err != nil {
		t.Fatalf("FetchCaptions returned error: %v", err)
	}
	if got := JoinText(captions); got != "Hello & welcome to the show" {
		t.Errorf("joined text = %q", got)
	}
}

func TestFetchTranscriptKeepsSelectedTrack(t *testing.T) {
	f := newFakeFetcher()
	f.pages["https://example.com/api/timedtext?v=xpUtDk79dww&lang=fr"] = `<text start="0" dur="1">Bonjour</text>`
	tr, err := NewClient(f).FetchTranscript(context.Background(), "https://www.youtube.com/watch?v=xpUtDk79dww", "fr")
	if err != nil {
		t.Fatalf("FetchTranscript returned error: %v", err)
	}
	if tr.VideoID != "xpUtDk79dww" {
		t.Errorf("VideoID = %q", tr.VideoID)
	}
	if tr.Track.VssID != ".fr" || !strings.HasSuffix(tr.Track.BaseURL, "lang=fr") {
		t.Errorf("Track = %+v, want the .fr track", tr.Track)
	}
	if len(tr.Captions) != 1 || tr.Captions[0].Text != "Bonjour" {
		t.Errorf("Captions = %+v", tr.Captions)
	}
}

func TestGetSubtitlesStepErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		lang     string
		fetcher  func() *fakeFetcher
		wantStep Step
		wantKind error
		requests int
	}{
		{
			name:     "invalid identifier",
			input:    "not a video",
			lang:     "en",
			fetcher:  newFakeFetcher,
			wantStep: StepResolveID,
			wantKind: ErrInvalidID,
			requests: 0,
		},
		{
			name:     "page fetch fails",
			input:    "unknownVid1",
			lang:     "en",
			fetcher:  newFakeFetcher,
			wantStep: StepFetchPage,
			wantKind: ErrTransport,
			requests: 1,
		},
		{
			name:     "no captions",
			input:    "noCaptions1",
			lang:     "en",
			fetcher:  newFakeFetcher,
			wantStep: StepExtractTracks,
			wantKind: ErrCaptionsUnavailable,
			requests: 1,
		},
		{
			name:     "language missing",
			input:    "xpUtDk79dww",
			lang:     "de",
			fetcher:  newFakeFetcher,
			wantStep: StepSelectTrack,
			wantKind: ErrLanguageUnavailable,
			requests: 1,
		},
		{
			name:     "track fetch fails",
			input:    "xpUtDk79dww",
			lang:     "fr",
			fetcher:  newFakeFetcher,
			wantStep: StepFetchTrack,
			wantKind: ErrTransport,
			requests: 2,
		},
		{
			name:  "malformed timed text",
			input: "xpUtDk79dww",
			lang:  "en",
			fetcher: func() *fakeFetcher {
				f := newFakeFetcher()
				f.pages["https://example.com/api/timedtext?v=xpUtDk79dww&lang=en"] = `<text start="x.1" dur="1">bad</text>`
				return f
			},
			wantStep: StepDecode,
			wantKind: ErrTimedTextParse,
			requests: 2,
		},
		{
			name:  "track without baseUrl",
			input: "xpUtDk79dww",
			lang:  "en",
			fetcher: func() *fakeFetcher {
				f := newFakeFetcher()
				f.pages["https://youtube.com/watch?v=xpUtDk79dww"] = `"captionTracks":[{"vssId":".en"}]`
				return f
			},
			wantStep: StepSelectTrack,
			wantKind: ErrManifestParse,
			requests: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.fetcher()
			captions, err := NewClient(f).FetchCaptions(context.Background(), tt.input, tt.lang)
			if err == nil {
				t.Fatalf("expected error, got captions %+v", captions)
			}
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("error = %v, want kind %v", err, tt.wantKind)
			}
			step, ok := FailedStep(err)
			if !ok || step != tt.wantStep {
				t.Errorf("failed step = %q (%v), want %q", step, ok, tt.wantStep)
			}
			if len(f.requests) != tt.requests {
				t.Errorf("expected %d requests, got %v", tt.requests, f.requests)
			}
		})
	}
}

func TestWithWatchURL(t *testing.T) {
	client := NewClient(newFakeFetcher(), WithWatchURL("http://127.0.0.1:8080/watch?v=%s"))
	if got := client.WatchURL("xpUtDk79dww"); got != "http://127.0.0.1:8080/watch?v=xpUtDk79dww" {
		t.Errorf("WatchURL = %q", got)
	}
	client = NewClient(newFakeFetcher(), WithWatchURL("  "))
	if got := client.WatchURL("xpUtDk79dww"); got != "https://youtube.com/watch?v=xpUtDk79dww" {
		t.Errorf("blank format should keep the default, got %q", got)
	}
}

func TestTimedTextURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "https://example.com/api/timedtext?v=a&lang=en", want: "https://example.com/api/timedtext?v=a&lang=en"},
		{in: "https://example.com/api/timedtext?fmt=srv3&lang=en", want: "https://example.com/api/timedtext?lang=en"},
		{in: "https://example.com/api/timedtext?fmt=json3", want: "https://example.com/api/timedtext?fmt=json3"},
		{in: "https://example.com/api/timedtext?fmt=srv3", want: "https://example.com/api/timedtext"},
		{in: "https://example.com/api/timedtext", want: "https://example.com/api/timedtext"},
		{
			in:   "https://example.com/api/timedtext?v=a&sparams=ip,ipbits,expire&fmt=srv3&signature=AB%2FCD&lang=en",
			want: "https://example.com/api/timedtext?v=a&sparams=ip,ipbits,expire&signature=AB%2FCD&lang=en",
		},
	}
	for _, tt := range tests {
		if got := timedTextURL(tt.in); got != tt.want {
			t.Errorf("timedTextURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

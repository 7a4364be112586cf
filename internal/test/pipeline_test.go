package test

import (
	"errors"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"yttext/internal/config"
	"yttext/internal/demo"
	"yttext/internal/httpclient"
	"yttext/internal/setup"
	"yttext/internal/youtube"
	"yttext/internal/yttextdb"
)

func newDemoClient(t *testing.T) *youtube.Client {
	t.Helper()
	server := httptest.NewServer(demo.NewHandler())
	t.Cleanup(server.Close)

	ac := config.Default()
	ac.YouTube.WatchURL = demo.WatchURLFormat(server.URL)
	ac.HTTP.TimeoutSec = 5
	return setup.NewClient(ac, "en", log.New(os.Stdout, "[yttext-test] ", log.LstdFlags))
}

func TestPipeline(t *testing.T) {
	client := newDemoClient(t)

	captions, err := client.FetchCaptions(t.Context(), "https://www.youtube.com/watch?v="+demo.VideoID+"&t=10s", "en")
	if err != nil {
		t.Fatalf("FetchCaptions returned error: %v", err)
	}
	want := []youtube.Caption{
		{Start: 0.32, Dur: 2.4, Text: "Welcome back to the channel."},
		{Start: 2.72, Dur: 3.1, Text: "Today we're talking about shipping & maintaining."},
		{Start: 5.82, Dur: 2.05, Text: "It's only two seasons, really."},
	}
	if len(captions) != len(want) {
		t.Fatalf("expected %d captions, got %d: %+v", len(want), len(captions), captions)
	}
	for i := range want {
		if captions[i] != want[i] {
			t.Errorf("caption %d = %+v, want %+v", i, captions[i], want[i])
		}
	}
}

func TestPipelineSuffixLanguage(t *testing.T) {
	client := newDemoClient(t)

	captions, err := client.GetSubtitles(t.Context(), demo.VideoID, "fr")
	if err != nil {
		t.Fatalf("GetSubtitles returned error: %v", err)
	}
	if len(captions) != 1 || captions[0].Text != "Bon retour sur la chaîne." {
		t.Errorf("unexpected captions %+v", captions)
	}
}

func TestPipelineFailures(t *testing.T) {
	client := newDemoClient(t)

	tests := []struct {
		name     string
		videoID  string
		lang     string
		wantStep youtube.Step
		wantKind error
	}{
		{name: "no captions", videoID: demo.NoCaptionsID, lang: "en", wantStep: youtube.StepExtractTracks, wantKind: youtube.ErrCaptionsUnavailable},
		{name: "missing language", videoID: demo.VideoID, lang: "de", wantStep: youtube.StepSelectTrack, wantKind: youtube.ErrLanguageUnavailable},
		{name: "unknown video", videoID: "unknownVid1", lang: "en", wantStep: youtube.StepFetchPage, wantKind: youtube.ErrTransport},
		{name: "broken timed text", videoID: demo.BrokenID, lang: "en", wantStep: youtube.StepDecode, wantKind: youtube.ErrTimedTextParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.GetSubtitles(t.Context(), tt.videoID, tt.lang)
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("error = %v, want kind %v", err, tt.wantKind)
			}
			if step, _ := youtube.FailedStep(err); step != tt.wantStep {
				t.Errorf("failed step = %q, want %q", step, tt.wantStep)
			}
		})
	}

	_, err := client.GetSubtitles(t.Context(), "unknownVid1", "en")
	var statusErr *httpclient.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != 404 {
		t.Errorf("expected the HTTP status to survive wrapping, got %v", err)
	}
}

func TestPipelineSaveToArchive(t *testing.T) {
	client := newDemoClient(t)

	tracks, err := client.ListTracks(t.Context(), demo.VideoID)
	if err != nil {
		t.Fatalf("ListTracks returned error: %v", err)
	}
	if len(tracks) != 2 || tracks[1].Kind != "asr" || tracks[0].Name != "English" {
		t.Fatalf("unexpected tracks %+v", tracks)
	}

	captions, err := client.GetSubtitles(t.Context(), demo.VideoID, "en")
	if err != nil {
		t.Fatalf("GetSubtitles returned error: %v", err)
	}

	db, err := yttextdb.Open(filepath.Join(t.TempDir(), "yttext.db"))
	if err != nil {
		t.Fatalf("could not open db: %v", err)
	}
	defer db.Close()

	err = yttextdb.SaveTranscript(t.Context(), db, yttextdb.TranscriptInsert{
		VideoID:  demo.VideoID,
		Lang:     "en",
		VssID:    tracks[0].VssID,
		URL:      client.WatchURL(demo.VideoID),
		Captions: captions,
	})
	if err != nil {
		t.Fatalf("SaveTranscript returned error: %v", err)
	}

	saved, err := yttextdb.GetSince(t.Context(), db, time.Now().Add(-time.Hour), 0)
	if err != nil {
		t.Fatalf("GetSince returned error: %v", err)
	}
	if len(saved) != 1 || saved[0].Content != youtube.JoinText(captions) {
		t.Fatalf("unexpected archive content %+v", saved)
	}
}

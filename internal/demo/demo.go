// Package demo serves mock watch pages and timed-text documents. It backs
// cmd/demo-server and the end-to-end tests.
package demo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

const (
	// VideoID has English and French captions.
	VideoID = "demoVideo01"
	// NoCaptionsID has a watch page without a caption manifest.
	NoCaptionsID = "noCaptions1"
	// BrokenID advertises a track whose timed text has a malformed start time.
	BrokenID = "brokenTT001"
)

type video struct {
	title  string
	tracks map[string]track
}

type track struct {
	vssID string
	name  string
	kind  string
	doc   string
}

var videos = map[string]video{
	VideoID: {
		title: "The Two Seasons of Software",
		tracks: map[string]track{
			"en": {vssID: ".en", name: "English", doc: `<?xml version="1.0" encoding="utf-8" ?><transcript>` +
				`<text start="0.32" dur="2.4">Welcome back to the channel.</text>` +
				`<text start="2.72" dur="3.1">Today we&amp;#39;re talking about
shipping &amp; maintaining.</text>` +
				`<text start="5.82" dur="2.05">It&#39;s only two seasons, really.</text>` +
				`</transcript>`},
			"fr": {vssID: "a.fr", name: "French (auto-generated)", kind: "asr", doc: `<?xml version="1.0" encoding="utf-8" ?><transcript>` +
				`<text start="0.32" dur="2.4">Bon retour sur la cha&#238;ne.</text>` +
				`</transcript>`},
		},
	},
	NoCaptionsID: {title: "A video without captions"},
	BrokenID: {
		title: "Broken captions",
		tracks: map[string]track{
			"en": {vssID: ".en", name: "English", doc: `<transcript><text start="1..2" dur="1">oops</text></transcript>`},
		},
	},
}

// NewHandler returns the demo HTTP handler.
func NewHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", watchHandler)
	mux.HandleFunc("/api/timedtext", timedTextHandler)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			homeHandler(w, r)
		} else {
			http.NotFound(w, r)
		}
	})
	return mux
}

// WatchURLFormat returns a watch URL format pointing at a demo server.
func WatchURLFormat(serverURL string) string {
	return strings.TrimSuffix(serverURL, "/") + "/watch?v=%s"
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

func homeHandler(w http.ResponseWriter, r *http.Request) {
	ids := make([]string, 0, len(videos))
	for id := range videos {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html><html><head><title>yttext demo server</title></head><body>")
	sb.WriteString("<h1>yttext demo server</h1><ul>")
	for _, id := range ids {
		fmt.Fprintf(&sb, `<li><a href="%s/watch?v=%s">%s</a> (%s)</li>`, baseURL(r), id, id, videos[id].title)
	}
	sb.WriteString("</ul></body></html>")

	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(sb.String()))
}

// watchHandler renders a page embedding the caption manifest in a script blob.
func watchHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("v")
	v, ok := videos[id]
	if !ok {
		http.Error(w, "Video unavailable", http.StatusNotFound)
		return
	}

	var player string
	if len(v.tracks) > 0 {
		langs := make([]string, 0, len(v.tracks))
		for lang := range v.tracks {
			langs = append(langs, lang)
		}
		sort.Strings(langs)

		tracks := make([]map[string]any, 0, len(langs))
		for _, lang := range langs {
			t := v.tracks[lang]
			entry := map[string]any{
				"baseUrl":      fmt.Sprintf("%s/api/timedtext?v=%s&lang=%s", baseURL(r), id, lang),
				"name":         map[string]string{"simpleText": t.name},
				"vssId":        t.vssID,
				"languageCode": lang,
			}
			if t.kind != "" {
				entry["kind"] = t.kind
			}
			tracks = append(tracks, entry)
		}
		b, _ := json.Marshal(tracks)
		player = fmt.Sprintf(`{"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":%s,"audioTracks":[{"captionTrackIndices":[0]}]}}}`, b)
	} else {
		player = `{"playabilityStatus":{"status":"OK"}}`
	}

	page := fmt.Sprintf(`<!DOCTYPE html><html><head><title>%s - YouTube</title></head><body>`+
		`<script>var ytInitialPlayerResponse = %s;var meta = {"videoId":"%s"};</script></body></html>`,
		v.title, player, id)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

func timedTextHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v, ok := videos[q.Get("v")]
	if !ok {
		http.Error(w, "Unknown video", http.StatusNotFound)
		return
	}
	t, ok := v.tracks[q.Get("lang")]
	if !ok {
		http.Error(w, "Unknown track", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.Write([]byte(t.doc))
}

package list

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"yttext/internal/yttextdb"
)

// Run prints the transcripts saved in the last hours.
func Run(ctx context.Context, w io.Writer, dbPath string, hours int) error {
	if hours <= 0 {
		hours = 24
	}

	if !fileExists(dbPath) {
		fmt.Fprintf(w, "yttext archive not found at %s\n", dbPath)
		fmt.Fprintln(w, "Hint: fetch a video with --save to create it, or set database.path in ~/.config/yttext/config.yaml.")
		return nil
	}

	db, err := yttextdb.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed opening the yttext archive: %w", err)
	}
	defer db.Close()

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	rows, err := yttextdb.GetSince(ctx, db, since, 0)
	if err != nil {
		return fmt.Errorf("query failed while reading from the yttext archive: %w", err)
	}

	if len(rows) == 0 {
		fmt.Fprintf(w, "No transcripts saved in the last %d hours.\n", hours)
		return nil
	}

	fmt.Fprintf(w, "Found %d transcripts from the last %d hours:\n\n", len(rows), hours)

	for _, r := range rows {
		preview := r.Content
		if len(preview) > 400 {
			preview = preview[:400] + "..."
		}

		fmt.Fprintf(w, "Video: %s\n", r.VideoID)
		fmt.Fprintf(w, "Language: %s\n", r.Lang)
		if r.URL.Valid {
			fmt.Fprintf(w, "URL: %s\n", r.URL.String)
		}
		fmt.Fprintf(w, "Captions: %d\n", r.CaptionCount)
		fmt.Fprintf(w, "Fetched: %s\n", r.FetchedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Preview: %s\n", preview)
		fmt.Fprintln(w, strings.Repeat("-", 80))
	}

	return nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	if _, err := os.Stat(path); err == nil {
		return true
	}
	return false
}

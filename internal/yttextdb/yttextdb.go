package yttextdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"yttext/internal/youtube"
)

// Transcript is a saved set of captions for one video and language.
type Transcript struct {
	VideoID      string
	Lang         string
	VssID        sql.NullString
	URL          sql.NullString
	Content      string
	Captions     []youtube.Caption
	CaptionCount int64
	FetchedAt    time.Time
}

// Open opens (creating if needed) the archive at dbPath and ensures its schema.
func Open(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(ON)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// TranscriptInsert captures data for upserting into transcripts.
type TranscriptInsert struct {
	VideoID   string
	Lang      string
	VssID     string
	URL       string
	Captions  []youtube.Caption
	FetchedAt time.Time
}

func SaveTranscript(ctx context.Context, db *sql.DB, t TranscriptInsert) error {
	if strings.TrimSpace(t.VideoID) == "" || strings.TrimSpace(t.Lang) == "" {
		return errors.New("missing video id or language")
	}
	captions := t.Captions
	if captions == nil {
		captions = []youtube.Caption{}
	}
	b, err := json.Marshal(captions)
	if err != nil {
		return fmt.Errorf("failed to encode captions: %w", err)
	}
	if t.FetchedAt.IsZero() {
		t.FetchedAt = time.Now()
	}
	_, err = db.ExecContext(ctx, `INSERT INTO transcripts
        (video_id, lang, vss_id, url, content, captions, caption_count, fetched_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(video_id, lang) DO UPDATE SET
           vss_id=excluded.vss_id,
           url=excluded.url,
           content=excluded.content,
           captions=excluded.captions,
           caption_count=excluded.caption_count,
           fetched_at=excluded.fetched_at
        `,
		t.VideoID, t.Lang, nullIfEmpty(t.VssID), nullIfEmpty(t.URL), youtube.JoinText(captions), string(b), len(captions), t.FetchedAt.UTC(),
	)
	return err
}

const selectColumns = `SELECT video_id, lang, vss_id, url, content, captions, caption_count, fetched_at FROM transcripts`

// GetTranscript returns the saved transcript for videoID in lang, or nil when absent.
func GetTranscript(ctx context.Context, db *sql.DB, videoID, lang string) (*Transcript, error) {
	row := db.QueryRowContext(ctx, selectColumns+` WHERE video_id = ? AND lang = ?`, videoID, lang)
	t, err := scanTranscript(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// GetSince lists transcripts fetched after since, newest first. A limit of 0 means no limit.
func GetSince(ctx context.Context, db *sql.DB, since time.Time, limit int) ([]Transcript, error) {
	q := selectColumns + ` WHERE fetched_at >= ? ORDER BY fetched_at DESC`
	args := []any{since.UTC()}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Transcript
	for rows.Next() {
		t, err := scanTranscript(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTranscript(s scanner) (*Transcript, error) {
	var t Transcript
	var captions string
	if err := s.Scan(&t.VideoID, &t.Lang, &t.VssID, &t.URL, &t.Content, &captions, &t.CaptionCount, &t.FetchedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(captions), &t.Captions); err != nil {
		return nil, fmt.Errorf("failed to decode captions of %s/%s: %w", t.VideoID, t.Lang, err)
	}
	return &t, nil
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

package yttextdb

import "database/sql"

// InitSchema ensures the DB has the tables needed for the transcript archive.
func InitSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transcripts (
            video_id TEXT NOT NULL,
            lang TEXT NOT NULL,
            vss_id TEXT,
            url TEXT,
            content TEXT NOT NULL,
            captions TEXT NOT NULL,
            caption_count INTEGER DEFAULT 0,
            fetched_at TIMESTAMP NOT NULL,
            PRIMARY KEY (video_id, lang)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_transcripts_fetched_at ON transcripts(fetched_at)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

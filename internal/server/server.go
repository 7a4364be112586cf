package server

import (
	"context"
	"fmt"
	"log"
	"strings"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"yttext/internal/captionfmt"
	"yttext/internal/config"
	"yttext/internal/setup"
	"yttext/internal/version"
	"yttext/internal/youtube"
	"yttext/internal/yttextdb"
)

type GetSubtitlesParams struct {
	Video  string  `json:"video" jsonschema:"video identifier or YouTube URL"`
	Lang   *string `json:"lang,omitempty" jsonschema:"caption language, matched as a suffix of the track vssId"`
	Format *string `json:"format,omitempty" jsonschema:"text, srt, vtt or json"`
	Save   bool    `json:"save,omitempty" jsonschema:"store the transcript in the local archive"`
}

type ListTracksParams struct {
	Video string `json:"video" jsonschema:"video identifier or YouTube URL"`
}

type GetSavedParams struct {
	Video string  `json:"video" jsonschema:"video identifier or YouTube URL"`
	Lang  *string `json:"lang,omitempty"`
}

type toolset struct {
	load   config.ConfigLoad
	logger *log.Logger
}

// Run serves the yttext tools over stdio. The configuration is re-read on every
// tool call so edits apply without restarting the server.
func Run(ctx context.Context, load config.ConfigLoad, logger *log.Logger) error {
	return newServer(load, logger).Run(ctx, &mcp.StdioTransport{})
}

func newServer(load config.ConfigLoad, logger *log.Logger) *mcp.Server {
	ts := &toolset{load: load, logger: logger}
	server := mcp.NewServer(&mcp.Implementation{Name: "yttext", Version: version.Version}, nil)

	mcp.AddTool(server, &mcp.Tool{Name: "get_subtitles", Description: "Fetch the captions of a YouTube video in a given language"}, ts.handleGetSubtitles)
	mcp.AddTool(server, &mcp.Tool{Name: "list_tracks", Description: "List the caption tracks available for a YouTube video"}, ts.handleListTracks)
	mcp.AddTool(server, &mcp.Tool{Name: "get_saved", Description: "Read a transcript from the local archive without fetching it"}, ts.handleGetSaved)

	return server
}

func (ts *toolset) configAndLanguage(p *string) (config.AppConfig, string, error) {
	ac, err := ts.load()
	if err != nil {
		return ac, "", fmt.Errorf("failed to load config: %w", err)
	}
	flag := ""
	if p != nil {
		flag = *p
	}
	lang, err := setup.Language(flag, ac)
	return ac, lang, err
}

// Fetch captions on the fly; failures are reported in the tool output with the failing step
func (ts *toolset) handleGetSubtitles(ctx context.Context, req *mcp.CallToolRequest, p GetSubtitlesParams) (*mcp.CallToolResult, any, error) {
	ac, lang, err := ts.configAndLanguage(p.Lang)
	if err != nil {
		return nil, nil, err
	}
	format := captionfmt.Text
	if p.Format != nil && strings.TrimSpace(*p.Format) != "" {
		if format, err = captionfmt.Parse(*p.Format); err != nil {
			return nil, nil, err
		}
	}

	client := setup.NewClient(ac, lang, ts.logger)
	t, err := client.FetchTranscript(ctx, p.Video, lang)
	if err != nil {
		return nil, failure(err), nil
	}

	var sb strings.Builder
	if err := captionfmt.Write(&sb, format, t.Captions); err != nil {
		return nil, nil, err
	}

	resp := map[string]any{
		"ok":       true,
		"video_id": t.VideoID,
		"lang":     lang,
		"track":    t.Track.VssID,
		"count":    len(t.Captions),
		"format":   string(format),
		"content":  sb.String(),
	}
	if p.Save {
		if err := save(ctx, ac.Database.Path, client, lang, t); err != nil {
			resp["save_error"] = err.Error()
		} else {
			resp["saved"] = true
		}
	}
	return nil, resp, nil
}

func (ts *toolset) handleListTracks(ctx context.Context, req *mcp.CallToolRequest, p ListTracksParams) (*mcp.CallToolResult, any, error) {
	ac, err := ts.load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	videoID, err := youtube.ResolveID(p.Video)
	if err != nil {
		return nil, failure(err), nil
	}
	tracks, err := setup.NewClient(ac, "", ts.logger).ListTracks(ctx, videoID)
	if err != nil {
		return nil, failure(err), nil
	}
	return nil, map[string]any{"ok": true, "video_id": videoID, "count": len(tracks), "tracks": tracks}, nil
}

func (ts *toolset) handleGetSaved(ctx context.Context, req *mcp.CallToolRequest, p GetSavedParams) (*mcp.CallToolResult, any, error) {
	ac, lang, err := ts.configAndLanguage(p.Lang)
	if err != nil {
		return nil, nil, err
	}
	videoID, err := youtube.ResolveID(p.Video)
	if err != nil {
		return nil, failure(err), nil
	}

	db, err := yttextdb.Open(ac.Database.Path)
	if err != nil {
		return nil, map[string]any{
			"ok":      false,
			"message": "Failed opening the yttext archive",
			"error":   err.Error(),
			"db_path": ac.Database.Path,
		}, nil
	}
	defer db.Close()

	t, err := yttextdb.GetTranscript(ctx, db, videoID, lang)
	if err != nil {
		return nil, nil, err
	}
	if t == nil {
		return nil, map[string]any{
			"ok":      false,
			"message": fmt.Sprintf("No saved transcript for %s in %s", videoID, lang),
			"hint":    "Call get_subtitles with save=true first.",
		}, nil
	}
	return nil, map[string]any{
		"ok":         true,
		"video_id":   t.VideoID,
		"lang":       t.Lang,
		"track":      t.VssID.String,
		"fetched_at": t.FetchedAt,
		"count":      t.CaptionCount,
		"content":    t.Content,
	}, nil
}

func save(ctx context.Context, dbPath string, client *youtube.Client, lang string, t *youtube.Transcript) error {
	db, err := yttextdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	return yttextdb.SaveTranscript(ctx, db, yttextdb.TranscriptInsert{
		VideoID:  t.VideoID,
		Lang:     lang,
		VssID:    t.Track.VssID,
		URL:      client.WatchURL(t.VideoID),
		Captions: t.Captions,
	})
}

func failure(err error) map[string]any {
	step, _ := youtube.FailedStep(err)
	return map[string]any{
		"ok":    false,
		"step":  string(step),
		"error": err.Error(),
	}
}

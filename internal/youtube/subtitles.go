package youtube

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// DefaultWatchURL is the watch page format; %s receives the video identifier.
const DefaultWatchURL = "https://youtube.com/watch?v=%s"

// Fetcher retrieves the body of a URL as text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Client runs the caption pipeline: watch page -> captionTracks -> timed text.
type Client struct {
	fetcher  Fetcher
	watchURL string
	logger   *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithWatchURL overrides the watch page URL format.
func WithWatchURL(format string) Option {
	return func(c *Client) {
		if strings.TrimSpace(format) != "" {
			c.watchURL = format
		}
	}
}

// WithLogger sets the logger used for per-step debug lines.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a caption client on top of fetcher.
func NewClient(fetcher Fetcher, opts ...Option) *Client {
	c := &Client{fetcher: fetcher, watchURL: DefaultWatchURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) debugf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

// WatchURL returns the watch page URL for videoID.
func (c *Client) WatchURL(videoID string) string {
	return fmt.Sprintf(c.watchURL, videoID)
}

// Transcript is the outcome of a pipeline run: the resolved identifier, the
// track that was selected and its decoded captions.
type Transcript struct {
	VideoID  string
	Track    CaptionTrack
	Captions []Caption
}

// FetchCaptions resolves input to a video identifier and returns its captions in lang.
func (c *Client) FetchCaptions(ctx context.Context, input, lang string) ([]Caption, error) {
	t, err := c.FetchTranscript(ctx, input, lang)
	if err != nil {
		return nil, err
	}
	return t.Captions, nil
}

// FetchTranscript resolves input and runs the whole pipeline, keeping the selected track.
func (c *Client) FetchTranscript(ctx context.Context, input, lang string) (*Transcript, error) {
	videoID, err := ResolveID(input)
	if err != nil {
		return nil, err
	}
	track, captions, err := c.transcript(ctx, videoID, lang)
	if err != nil {
		return nil, err
	}
	return &Transcript{VideoID: videoID, Track: track, Captions: captions}, nil
}

// GetSubtitles returns the captions of videoID in lang. The first failing step
// is reported as a *StepError.
func (c *Client) GetSubtitles(ctx context.Context, videoID, lang string) ([]Caption, error) {
	_, captions, err := c.transcript(ctx, videoID, lang)
	return captions, err
}

func (c *Client) transcript(ctx context.Context, videoID, lang string) (CaptionTrack, []Caption, error) {
	tracks, err := c.ListTracks(ctx, videoID)
	if err != nil {
		return CaptionTrack{}, nil, err
	}

	track, err := SelectTrack(tracks, lang)
	if err != nil {
		return CaptionTrack{}, nil, stepErr(StepSelectTrack, err)
	}
	if strings.TrimSpace(track.BaseURL) == "" {
		return CaptionTrack{}, nil, stepErr(StepSelectTrack, fmt.Errorf("%w: track %s has no baseUrl", ErrManifestParse, track.VssID))
	}
	c.debugf("video %s: selected track %s", videoID, track)

	doc, err := c.fetch(ctx, timedTextURL(track.BaseURL))
	if err != nil {
		return CaptionTrack{}, nil, stepErr(StepFetchTrack, err)
	}

	captions, err := DecodeTimedText(doc)
	if err != nil {
		return CaptionTrack{}, nil, stepErr(StepDecode, err)
	}
	c.debugf("video %s: decoded %d captions", videoID, len(captions))
	return track, captions, nil
}

// ListTracks fetches the watch page of videoID and returns its caption tracks.
func (c *Client) ListTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	page, err := c.fetch(ctx, c.WatchURL(videoID))
	if err != nil {
		return nil, stepErr(StepFetchPage, err)
	}

	tracks, err := ExtractTracks(page)
	if err != nil {
		return nil, stepErr(StepExtractTracks, err)
	}
	c.debugf("video %s: found %d caption tracks", videoID, len(tracks))
	return tracks, nil
}

func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	c.debugf("GET %s", url)
	body, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return body, nil
}

// timedTextURL drops the fmt=srv3 pair so the server answers with <text>
// elements. The rest of the query is kept byte for byte, since base URLs are signed.
func timedTextURL(baseURL string) string {
	base, query, ok := strings.Cut(baseURL, "?")
	if !ok {
		return baseURL
	}
	pairs := strings.Split(query, "&")
	kept := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p != "fmt=srv3" {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(pairs) {
		return baseURL
	}
	if len(kept) == 0 {
		return base
	}
	return base + "?" + strings.Join(kept, "&")
}

package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	neturl "net/url"
	"strings"
	"time"
)

const (
	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	// DefaultMaxBodyBytes caps the size of a fetched body.
	DefaultMaxBodyBytes = 16 << 20
)

// ErrBodyTooLarge is returned by Fetch when a body exceeds the configured cap.
var ErrBodyTooLarge = errors.New("response body too large")

// StatusError is returned by Fetch when the server answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Client provides a configurable HTTP client with common functionality
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	language   string
	maxBody    int64
	logger     *log.Logger
}

// Options configures a Client.
type Options struct {
	Timeout        time.Duration
	UserAgent      string
	AcceptLanguage string
	Proxy          *WebshareProxyConfig
	MaxBodyBytes   int64
	Logger         *log.Logger
}

// New creates a new HTTP client with the specified timeout
func New(timeout time.Duration) *Client {
	return NewWithOptions(Options{Timeout: timeout})
}

// NewWithOptions creates a client with optional Webshare proxy and sane defaults.
func NewWithOptions(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = DefaultUserAgent
	}

	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	if p := opts.Proxy.url(); p != "" {
		if u, err := neturl.Parse(p); err == nil {
			tr.Proxy = http.ProxyURL(u)
			// Rotating proxies: disable keep-alives to encourage rotation
			tr.DisableKeepAlives = true
		}
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout, Transport: tr},
		timeout:    timeout,
		userAgent:  ua,
		language:   strings.TrimSpace(opts.AcceptLanguage),
		maxBody:    maxBody,
		logger:     opts.Logger,
	}
}

func (c *Client) debugf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

// Get performs a GET request with proper context and headers
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return c.httpClient.Do(req)
}

// Fetch performs a GET request and returns the whole body as text.
// Non-2xx responses are reported as *StatusError.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	started := time.Now()
	resp, err := c.Get(ctx, url, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(b)) > c.maxBody {
		return "", fmt.Errorf("GET %s: %w (over %d bytes)", url, ErrBodyTooLarge, c.maxBody)
	}
	c.debugf("fetched %s: %d bytes in %s", url, len(b), time.Since(started).Round(time.Millisecond))
	return string(b), nil
}

// GetTimeout returns the client timeout
func (c *Client) GetTimeout() time.Duration {
	return c.timeout
}

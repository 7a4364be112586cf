// Package setup turns configuration into ready-to-use pipeline components.
package setup

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"yttext/internal/config"
	"yttext/internal/httpclient"
	"yttext/internal/locale"
	"yttext/internal/youtube"
)

// NewLogger returns the debug logger; it discards output unless verbose is set.
func NewLogger(verbose bool) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "[yttext] ", log.LstdFlags)
}

// NewFetcher builds the HTTP fetcher described by ac.
func NewFetcher(ac config.AppConfig, lang string, logger *log.Logger) *httpclient.Client {
	opts := httpclient.Options{
		Timeout:        ac.Timeout(),
		UserAgent:      ac.HTTP.UserAgent,
		AcceptLanguage: lang,
		Logger:         logger,
	}
	if ac.ProxyEnabled() {
		ws := ac.YouTube.Proxy.Webshare
		opts.Proxy = &httpclient.WebshareProxyConfig{
			Username: ws.Username,
			Password: ws.Password,
			Domain:   ws.Domain,
			Port:     ws.Port,
		}
	}
	return httpclient.NewWithOptions(opts)
}

// NewClient builds the caption client described by ac.
func NewClient(ac config.AppConfig, lang string, logger *log.Logger) *youtube.Client {
	return youtube.NewClient(
		NewFetcher(ac, lang, logger),
		youtube.WithWatchURL(ac.YouTube.WatchURL),
		youtube.WithLogger(logger),
	)
}

// Language picks the caption language: the explicit flag, then the configured
// language, then the primary subtag of the process locale.
func Language(flag string, ac config.AppConfig) (string, error) {
	return language(flag, ac, locale.Detect)
}

func language(flag string, ac config.AppConfig, detect func() (string, error)) (string, error) {
	if l := strings.TrimSpace(flag); l != "" {
		return l, nil
	}
	if l := strings.TrimSpace(ac.Language); l != "" {
		return l, nil
	}
	l, err := detect()
	if err != nil {
		return "", fmt.Errorf("failed to get locale: %w", err)
	}
	return l, nil
}

// WriteDefaultConfig writes a commented default config to path, or to the
// default location when path is empty, and returns the path written.
func WriteDefaultConfig(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return "", err
		}
		path = p
	}
	path = config.ExpandPath(path)
	ac := config.Default()
	if l, err := locale.Detect(); err == nil {
		ac.Language = l
	}
	if err := config.WriteConfig(path, ac); err != nil {
		return "", err
	}
	return path, nil
}

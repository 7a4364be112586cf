package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default config file location.
const EnvConfigPath = "YTTEXT_CONFIG"

const (
	DefaultFormat     = "text"
	DefaultTimeoutSec = 30
	DefaultWatchURL   = "https://youtube.com/watch?v=%s"
	DefaultPrompt     = `Summarize the following transcript of the YouTube video {{.URL}} in a few bullet points.

{{.Transcript}}`
)

// ConfigLoad reads the current configuration.
type ConfigLoad func() (AppConfig, error)

// AppConfigLoader returns a ConfigLoad that re-reads the file at path on every call.
func AppConfigLoader(path string) ConfigLoad {
	return func() (AppConfig, error) {
		return LoadAppConfigFrom(path)
	}
}

type AIConfig struct {
	BaseUrl string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
	Prompt  string `yaml:"prompt,omitempty"`
	Stream  bool   `yaml:"stream,omitempty"`
}

type WebshareConfig struct {
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Domain   string `yaml:"domain,omitempty"`
	Port     int    `yaml:"port,omitempty"`
}

type ProxyConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Webshare WebshareConfig `yaml:"webshare"`
}

type HTTPConfig struct {
	TimeoutSec int    `yaml:"timeout,omitempty"`
	UserAgent  string `yaml:"user_agent,omitempty"`
}

type YouTubeConfig struct {
	WatchURL string      `yaml:"watch_url,omitempty"`
	Proxy    ProxyConfig `yaml:"proxy"`
}

type DatabaseConfig struct {
	Path string `yaml:"path,omitempty"`
}

// AppConfig carries every setting read from config.yaml.
type AppConfig struct {
	Language string         `yaml:"language,omitempty"`
	Format   string         `yaml:"format,omitempty"`
	HTTP     HTTPConfig     `yaml:"http"`
	YouTube  YouTubeConfig  `yaml:"youtube"`
	Database DatabaseConfig `yaml:"database"`
	AIConf   AIConfig       `yaml:"ai"`
}

// Timeout returns the HTTP timeout as a duration.
func (c AppConfig) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSec) * time.Second
}

// ProxyEnabled reports whether a usable Webshare proxy is configured.
func (c AppConfig) ProxyEnabled() bool {
	ws := c.YouTube.Proxy.Webshare
	return c.YouTube.Proxy.Enabled && strings.TrimSpace(ws.Username) != "" && strings.TrimSpace(ws.Password) != ""
}

// Default returns the configuration used when no file is present.
func Default() AppConfig {
	return AppConfig{
		Format: DefaultFormat,
		HTTP: HTTPConfig{
			TimeoutSec: DefaultTimeoutSec,
		},
		YouTube: YouTubeConfig{
			WatchURL: DefaultWatchURL,
		},
		Database: DatabaseConfig{
			Path: FallbackDBPath(),
		},
		AIConf: AIConfig{
			Prompt: DefaultPrompt,
		},
	}
}

// LoadAppConfigFrom parses the config file at path. An empty path selects
// ~/.config/yttext/config.yaml, or the file named by YTTEXT_CONFIG; a missing
// file yields the defaults.
func LoadAppConfigFrom(path string) (AppConfig, error) {
	ac := Default()
	if strings.TrimSpace(path) == "" {
		p, err := ConfigPath()
		if err != nil {
			return ac, nil
		}
		path = p
	}

	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ac, nil
		}
		return ac, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &ac); err != nil {
		return Default(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	normalize(&ac)
	return ac, nil
}

func normalize(ac *AppConfig) {
	ac.Language = strings.TrimSpace(ac.Language)
	ac.Format = strings.ToLower(strings.TrimSpace(ac.Format))
	if ac.Format == "" {
		ac.Format = DefaultFormat
	}
	if ac.HTTP.TimeoutSec <= 0 {
		ac.HTTP.TimeoutSec = DefaultTimeoutSec
	}
	if strings.TrimSpace(ac.YouTube.WatchURL) == "" {
		ac.YouTube.WatchURL = DefaultWatchURL
	}
	if strings.TrimSpace(ac.Database.Path) == "" {
		ac.Database.Path = FallbackDBPath()
	}
	ac.Database.Path = ExpandPath(ac.Database.Path)
	if strings.TrimSpace(ac.AIConf.Prompt) == "" {
		ac.AIConf.Prompt = DefaultPrompt
	}
	ws := &ac.YouTube.Proxy.Webshare
	ws.Username = strings.TrimSpace(ws.Username)
	ws.Password = strings.TrimSpace(ws.Password)
}

// ConfigPath returns the config file location: $YTTEXT_CONFIG or ~/.config/yttext/config.yaml.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return ExpandPath(p), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "yttext", "config.yaml"), nil
}

// FallbackDBPath returns the transcript archive location used when none is configured.
func FallbackDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "yttext.db"
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "yttext", "yttext.db")
	}
	return filepath.Join(home, ".local", "share", "yttext", "yttext.db")
}

// ExpandPath expands leading ~ and environment variables in a filesystem path.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	// Expand environment variables like $HOME
	p = os.ExpandEnv(p)
	// Expand leading ~
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			if p == "~" {
				p = home
			} else if strings.HasPrefix(p, "~/") {
				p = filepath.Join(home, p[2:])
			}
		}
	}
	return p
}

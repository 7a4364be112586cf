package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WriteConfig renders ac as a commented YAML file at path.
// An existing file is backed up before being replaced.
func WriteConfig(path string, ac AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		if err := BackupFile(path); err != nil {
			return fmt.Errorf("failed to back up existing config: %w", err)
		}
	}

	// Manually render YAML so the file carries comments
	var sb strings.Builder
	sb.WriteString("# yttext configuration\n")

	sb.WriteString("# Caption language; empty means the process locale.\n")
	sb.WriteString(fmt.Sprintf("language: %q\n", ac.Language))
	sb.WriteString("# Output format: text, srt, vtt or json.\n")
	sb.WriteString(fmt.Sprintf("format: %q\n", ac.Format))

	sb.WriteString("http:\n")
	sb.WriteString(fmt.Sprintf("  timeout: %d\n", ac.HTTP.TimeoutSec))
	if strings.TrimSpace(ac.HTTP.UserAgent) != "" {
		sb.WriteString(fmt.Sprintf("  user_agent: %q\n", ac.HTTP.UserAgent))
	}

	sb.WriteString("youtube:\n")
	sb.WriteString(fmt.Sprintf("  watch_url: %q\n", ac.YouTube.WatchURL))
	sb.WriteString("  proxy:\n")
	sb.WriteString(fmt.Sprintf("    enabled: %t\n", ac.YouTube.Proxy.Enabled))
	sb.WriteString("    webshare:\n")
	sb.WriteString(fmt.Sprintf("      username: %q\n", ac.YouTube.Proxy.Webshare.Username))
	sb.WriteString(fmt.Sprintf("      password: %q\n", ac.YouTube.Proxy.Webshare.Password))

	if strings.TrimSpace(ac.Database.Path) != "" {
		sb.WriteString("database:\n")
		sb.WriteString(fmt.Sprintf("  path: %q\n", ac.Database.Path))
	}

	sb.WriteString("ai:\n")
	sb.WriteString(fmt.Sprintf("  base_url: %q\n", ac.AIConf.BaseUrl))
	sb.WriteString(fmt.Sprintf("  model: %q\n", ac.AIConf.Model))
	sb.WriteString(fmt.Sprintf("  stream: %t\n", ac.AIConf.Stream))
	if strings.TrimSpace(ac.AIConf.Prompt) != "" {
		sb.WriteString("  prompt: |\n")
		for _, line := range strings.Split(ac.AIConf.Prompt, "\n") {
			sb.WriteString("    " + line + "\n")
		}
	}

	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

// BackupFile creates a backup of the specified file with a timestamp
func BackupFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ts := time.Now().Format("20060102-150405")
	bak := path + ".bak-" + ts
	return os.WriteFile(bak, b, 0o644)
}

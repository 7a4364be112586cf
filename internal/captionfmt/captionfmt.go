// Package captionfmt renders decoded captions as plain text, SRT, WebVTT or JSON.
package captionfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"yttext/internal/youtube"
)

// Format names an output rendering.
type Format string

const (
	Text Format = "text"
	SRT  Format = "srt"
	VTT  Format = "vtt"
	JSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{Text, SRT, VTT, JSON}

// Parse validates a format name.
func Parse(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want text, srt, vtt or json)", name)
}

// Write renders captions to w in format f.
func Write(w io.Writer, f Format, captions []youtube.Caption) error {
	var out string
	switch f {
	case Text, "":
		out = PlainText(captions) + "\n"
	case SRT:
		out = SRTText(captions)
	case VTT:
		out = VTTText(captions)
	case JSON:
		b, err := json.MarshalIndent(captions, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal captions: %w", err)
		}
		out = string(b) + "\n"
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
	_, err := io.WriteString(w, out)
	return err
}

// PlainText joins all caption texts with single spaces.
func PlainText(captions []youtube.Caption) string {
	return youtube.JoinText(captions)
}

func SRTText(captions []youtube.Caption) string {
	var result strings.Builder
	for i, c := range captions {
		result.WriteString(fmt.Sprintf("%d\n", i+1))
		result.WriteString(fmt.Sprintf("%s --> %s\n", formatSRTTime(c.Start), formatSRTTime(c.End())))
		result.WriteString(c.Text)
		result.WriteString("\n\n")
	}
	return result.String()
}

func VTTText(captions []youtube.Caption) string {
	var result strings.Builder
	result.WriteString("WEBVTT\n\n")
	for _, c := range captions {
		result.WriteString(fmt.Sprintf("%s --> %s\n", formatVTTTime(c.Start), formatVTTTime(c.End())))
		result.WriteString(c.Text)
		result.WriteString("\n\n")
	}
	return result.String()
}

func formatSRTTime(seconds float64) string {
	h, m, s, ms := split(seconds)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func formatVTTTime(seconds float64) string {
	h, m, s, ms := split(seconds)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// Timestamp renders seconds as H:MM:SS, or M:SS under an hour.
func Timestamp(seconds float64) string {
	h, m, s, _ := split(seconds)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func split(seconds float64) (h, m, s, ms int) {
	t := time.Duration(seconds*1000+0.5) * time.Millisecond
	h = int(t.Hours())
	m = int(t.Minutes()) % 60
	s = int(t.Seconds()) % 60
	ms = int(t.Milliseconds()) % 1000
	return h, m, s, ms
}

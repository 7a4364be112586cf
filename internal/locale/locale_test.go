package locale

import (
	"errors"
	"testing"
)

func TestPrimarySubtag(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "en-US", want: "en", ok: true},
		{in: "en_US.UTF-8", want: "en", ok: true},
		{in: "de_DE@euro", want: "de", ok: true},
		{in: "fr", want: "fr", ok: true},
		{in: "pt_BR", want: "pt", ok: true},
		{in: "zh-Hant-TW", want: "zh", ok: true},
		{in: "iw_IL", want: "iw", ok: true},
		{in: "C", ok: false},
		{in: "POSIX", ok: false},
		{in: "C.UTF-8", ok: false},
		{in: "", ok: false},
	}

	for _, tt := range tests {
		got, ok := PrimarySubtag(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("PrimarySubtag(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDetectPrecedence(t *testing.T) {
	env := map[string]string{
		"LC_ALL": "",
		"LANG":   "es_ES.UTF-8",
	}
	lang, err := detect(func(k string) string { return env[k] })
	if err != nil || lang != "es" {
		t.Fatalf("detect = %q, %v; want es", lang, err)
	}

	env["LC_MESSAGES"] = "it_IT"
	lang, _ = detect(func(k string) string { return env[k] })
	if lang != "it" {
		t.Errorf("LC_MESSAGES should win over LANG, got %q", lang)
	}

	env["LC_ALL"] = "ja_JP"
	lang, _ = detect(func(k string) string { return env[k] })
	if lang != "ja" {
		t.Errorf("LC_ALL should win, got %q", lang)
	}
}

func TestDetectNoLocale(t *testing.T) {
	env := map[string]string{"LANG": "C"}
	_, err := detect(func(k string) string { return env[k] })
	if !errors.Is(err, ErrNoLocale) {
		t.Fatalf("expected ErrNoLocale, got %v", err)
	}
}

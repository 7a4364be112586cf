package youtube

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeTimedText(t *testing.T) {
	captions, err := DecodeTimedText(`<text start="1.5" dur="2.0">Hello&#39;s&amp;world</text>`)
	if err != nil {
		t.Fatalf("DecodeTimedText returned error: %v", err)
	}
	if len(captions) != 1 {
		t.Fatalf("expected 1 caption, got %d", len(captions))
	}
	want := Caption{Start: 1.5, Dur: 2.0, Text: "Hello's&world"}
	if captions[0] != want {
		t.Errorf("caption = %+v, want %+v", captions[0], want)
	}
}

func TestDecodeTimedTextDocument(t *testing.T) {
	doc := `<?xml version="1.0" encoding="utf-8" ?><transcript>` +
		`<text start="0" dur="1.54">first line</text>` +
		`<text start="1.54" dur="4.16" extra="ignored">two
lines</text>` +
		`<text start="5.7" dur="3">&lt;i&gt;quoted&lt;/i&gt; &quot;x&quot;</text>` +
		`</transcript>`

	captions, err := DecodeTimedText(doc)
	if err != nil {
		t.Fatalf("DecodeTimedText returned error: %v", err)
	}
	want := []Caption{
		{Start: 0, Dur: 1.54, Text: "first line"},
		{Start: 1.54, Dur: 4.16, Text: "two lines"},
		{Start: 5.7, Dur: 3, Text: `<i>quoted</i> "x"`},
	}
	if len(captions) != len(want) {
		t.Fatalf("expected %d captions, got %d: %+v", len(want), len(captions), captions)
	}
	for i := range want {
		if captions[i] != want[i] {
			t.Errorf("caption %d = %+v, want %+v", i, captions[i], want[i])
		}
	}
}

func TestDecodeTimedTextNewlines(t *testing.T) {
	captions, err := DecodeTimedText("<text start=\"2\" dur=\"1\">a\nb&#10;c</text>")
	if err != nil {
		t.Fatalf("DecodeTimedText returned error: %v", err)
	}
	if len(captions) != 1 {
		t.Fatalf("expected 1 caption, got %d", len(captions))
	}
	if strings.Contains(captions[0].Text, "\n") {
		t.Errorf("text still contains a newline: %q", captions[0].Text)
	}
	if captions[0].Text != "a b c" {
		t.Errorf("text = %q, want %q", captions[0].Text, "a b c")
	}
}

func TestDecodeTimedTextDoubleEncodedApostrophe(t *testing.T) {
	captions, err := DecodeTimedText(`<text start="0" dur="1">it&amp;#39;s</text>`)
	if err != nil {
		t.Fatalf("DecodeTimedText returned error: %v", err)
	}
	if captions[0].Text != "it's" {
		t.Errorf("text = %q, want %q", captions[0].Text, "it's")
	}
}

func TestDecodeTimedTextEmpty(t *testing.T) {
	for _, doc := range []string{"", `<transcript></transcript>`} {
		captions, err := DecodeTimedText(doc)
		if err != nil {
			t.Fatalf("DecodeTimedText(%q) returned error: %v", doc, err)
		}
		if captions == nil || len(captions) != 0 {
			t.Errorf("DecodeTimedText(%q) = %#v, want empty slice", doc, captions)
		}
	}
}

func TestDecodeTimedTextMalformedNumber(t *testing.T) {
	docs := []string{
		`<text start="1.2.3" dur="1">x</text>`,
		`<text start="1" dur="...">x</text>`,
		`<text start="0" dur="1">ok</text><text start="." dur="1">bad</text>`,
		`<text start="x.1" dur="1">bad</text>`,
		`<text start="2" dur="">empty</text>`,
		`<text start="0" dur="1">ok</text><text start="1s" dur="1">unit</text>`,
	}
	for _, doc := range docs {
		captions, err := DecodeTimedText(doc)
		if !errors.Is(err, ErrTimedTextParse) {
			t.Errorf("DecodeTimedText(%q) error = %v, want ErrTimedTextParse", doc, err)
		}
		if captions != nil {
			t.Errorf("DecodeTimedText(%q) returned captions on error: %+v", doc, captions)
		}
	}
}

func TestJoinText(t *testing.T) {
	got := JoinText([]Caption{{Text: "hello"}, {Text: "there"}, {Text: "world"}})
	if got != "hello there world" {
		t.Errorf("JoinText = %q", got)
	}
	if JoinText(nil) != "" {
		t.Errorf("JoinText(nil) should be empty")
	}
}

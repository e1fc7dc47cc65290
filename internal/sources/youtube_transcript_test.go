package sources

import (
	"errors"
	"testing"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

func TestParseTimedText(t *testing.T) {
	body := []byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.12" dur="2.5">hello &amp;amp; welcome</text>
  <text start="2.62" dur="1.8">second &lt;i&gt;line&lt;/i&gt;</text>
  <text start="4.42" dur="0.9"></text>
  <text start="5.32" dur="2.1">third line</text>
</transcript>`)

	segments, err := parseTimedText(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("got %d segments, want 3 (empty line dropped)", len(segments))
	}
	if segments[0].Text != "hello & welcome" {
		t.Errorf("entities not unescaped: %q", segments[0].Text)
	}
	if segments[1].Text != "second line" {
		t.Errorf("markup not stripped: %q", segments[1].Text)
	}
	if segments[0].Start != 0.12 || segments[0].Duration != 2.5 {
		t.Errorf("timing not parsed: %+v", segments[0])
	}
}

func TestParseTimedTextOrdering(t *testing.T) {
	// Out-of-order input must come back sorted by start time.
	body := []byte(`<transcript>
  <text start="9.0" dur="1">late</text>
  <text start="1.0" dur="1">early</text>
  <text start="5.0" dur="1">middle</text>
</transcript>`)

	segments, err := parseTimedText(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(segments); i++ {
		if segments[i].Start < segments[i-1].Start {
			t.Errorf("segments not ordered: %v before %v", segments[i-1].Start, segments[i].Start)
		}
	}
	if segments[0].Text != "early" || segments[2].Text != "late" {
		t.Errorf("unexpected order: %+v", segments)
	}
}

func TestParseTimedTextInvalidXML(t *testing.T) {
	if _, err := parseTimedText([]byte("not xml at all <<<")); err == nil {
		t.Error("expected error for invalid XML")
	}
}

func TestPickBestTrack(t *testing.T) {
	tracks := []captionTrack{
		{BaseURL: "u1", LanguageCode: "en", Kind: "asr"},
		{BaseURL: "u2", LanguageCode: "en"},
		{BaseURL: "u3", LanguageCode: "es"},
		{BaseURL: "u4", LanguageCode: "de", Kind: "asr"},
	}

	t.Run("manual beats ASR in preferred language", func(t *testing.T) {
		got, ok := pickBestTrack(tracks, []string{"en"})
		if !ok || got.BaseURL != "u2" {
			t.Errorf("got %+v, want manual en track", got)
		}
	})

	t.Run("preferred language order", func(t *testing.T) {
		got, ok := pickBestTrack(tracks, []string{"es", "en"})
		if !ok || got.LanguageCode != "es" {
			t.Errorf("got %+v, want es track", got)
		}
	})

	t.Run("asr fallback when no manual track", func(t *testing.T) {
		got, ok := pickBestTrack(tracks, []string{"de"})
		if !ok || got.BaseURL != "u4" {
			t.Errorf("got %+v, want de asr track", got)
		}
	})

	t.Run("english fallback", func(t *testing.T) {
		got, ok := pickBestTrack(tracks, []string{"ja"})
		if !ok || got.LanguageCode != "en" {
			t.Errorf("got %+v, want an en track", got)
		}
	})

	t.Run("potoken tracks skipped", func(t *testing.T) {
		gated := []captionTrack{
			{BaseURL: "u1&exp=xpe", LanguageCode: "en"},
			{BaseURL: "u2", LanguageCode: "es"},
		}
		got, ok := pickBestTrack(gated, []string{"en"})
		if !ok || got.BaseURL != "u2" {
			t.Errorf("got %+v, want the non-gated track", got)
		}
	})

	t.Run("all gated", func(t *testing.T) {
		gated := []captionTrack{{BaseURL: "u1&exp=xpe", LanguageCode: "en"}}
		if _, ok := pickBestTrack(gated, []string{"en"}); ok {
			t.Error("expected ok=false when every track requires PoToken")
		}
	})
}

func TestClassifyPlayability(t *testing.T) {
	tests := []struct {
		name   string
		status string
		reason string
		want   error
	}{
		{"error status", "ERROR", "Video unavailable", engine.ErrVideoNotFound},
		{"login required", "LOGIN_REQUIRED", "Sign in", engine.ErrNoCaptions},
		{"unplayable", "UNPLAYABLE", "", engine.ErrNoCaptions},
		{"no status", "", "", engine.ErrNoCaptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyPlayability(tt.status, tt.reason)
			if !errors.Is(err, tt.want) {
				t.Errorf("classifyPlayability(%q) = %v, want %v", tt.status, err, tt.want)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", `{"a":1};rest`, `{"a":1}`},
		{"nested", `{"a":{"b":2}}`, `{"a":{"b":2}}`},
		{"brace in string", `{"a":"}{"}`, `{"a":"}{"}`},
		{"escaped quote", `{"a":"\"}"}tail`, `{"a":"\"}"}`},
		{"not json", `hello`, ""},
		{"unterminated", `{"a":1`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(extractJSON([]byte(tt.in)))
			if got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractTranscriptToken(t *testing.T) {
	data := []byte(`..."getTranscriptEndpoint":{"params":"CgNhc3ISAmVuGgA%3D"}...`)
	token, err := extractTranscriptToken(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "CgNhc3ISAmVuGgA=" {
		t.Errorf("token not URL-decoded: %q", token)
	}

	if _, err := extractTranscriptToken([]byte("no panels here")); err == nil {
		t.Error("expected error when token missing")
	}
}

package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

func newGtxServer(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		q := r.FormValue("q")
		fmt.Fprintf(w, `[[[%q,%q,null,null,10]],null,"en"]`, "X:"+q, q)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTranslateUnsupportedLanguage(t *testing.T) {
	var calls atomic.Int64
	srv := newGtxServer(t, &calls)
	engine.Init(engine.Config{TranslateEndpoint: srv.URL})

	_, err := Translate(context.Background(), Request{Text: "hello", Target: "xx"})
	if !errors.Is(err, engine.ErrUnsupportedLanguage) {
		t.Fatalf("want ErrUnsupportedLanguage, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("translation service was called %d times for an unsupported language", calls.Load())
	}
}

func TestTranslateEmptyText(t *testing.T) {
	var calls atomic.Int64
	srv := newGtxServer(t, &calls)
	engine.Init(engine.Config{TranslateEndpoint: srv.URL})

	res, err := Translate(context.Background(), Request{Text: "   ", Target: "es"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "" {
		t.Errorf("want empty result, got %q", res.Text)
	}
	if calls.Load() != 0 {
		t.Errorf("translation service called for empty text")
	}
}

func TestTranslateGoogle(t *testing.T) {
	var calls atomic.Int64
	srv := newGtxServer(t, &calls)
	engine.Init(engine.Config{TranslateEndpoint: srv.URL})

	res, err := Translate(context.Background(), Request{Text: "hello world", Target: "ES"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "X:hello world" {
		t.Errorf("got %q", res.Text)
	}
	if res.TargetLanguage != "es" {
		t.Errorf("target not normalised: %q", res.TargetLanguage)
	}
	if res.DetectedSource != "en" {
		t.Errorf("detected source not surfaced: %q", res.DetectedSource)
	}
	if res.Provider != ProviderGoogle {
		t.Errorf("provider = %q", res.Provider)
	}
}

func TestTranslateChunking(t *testing.T) {
	var calls atomic.Int64
	srv := newGtxServer(t, &calls)
	engine.Init(engine.Config{TranslateEndpoint: srv.URL, ChunkSize: 16})

	res, err := Translate(context.Background(), Request{
		Text:   "one two three four five six seven",
		Target: "de",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() < 2 {
		t.Errorf("expected multiple chunk requests, got %d", calls.Load())
	}
	if res.Text == "" {
		t.Error("joined translation is empty")
	}
}

func TestTranslateRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	engine.Init(engine.Config{TranslateEndpoint: srv.URL})

	_, err := Translate(context.Background(), Request{Text: "hello", Target: "fr"})
	if !errors.Is(err, engine.ErrRateLimited) {
		t.Fatalf("want ErrRateLimited, got %v", err)
	}
}

func TestParseGtxResponse(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		want         string
		wantDetected string
		wantErr      bool
	}{
		{
			name:         "single sentence",
			body:         `[[["Hola","Hello",null,null,10]],null,"en"]`,
			want:         "Hola",
			wantDetected: "en",
		},
		{
			name: "multiple sentences joined",
			body: `[[["Hola. ","Hello. ",null,null,10],["Adiós.","Bye.",null,null,10]],null,"en"]`,
			want: "Hola. Adiós.",
		},
		{
			name:    "not json",
			body:    `<html>blocked</html>`,
			wantErr: true,
		},
		{
			name:    "empty array",
			body:    `[]`,
			wantErr: true,
		},
		{
			name:    "no sentences",
			body:    `[null,null,"en"]`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, detected, err := parseGtxResponse([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
			if tt.wantDetected != "" && detected != tt.wantDetected {
				t.Errorf("detected = %q, want %q", detected, tt.wantDetected)
			}
		})
	}
}

func TestNormTarget(t *testing.T) {
	tests := []struct{ in, want string }{
		{"ES", "es"},
		{" fr ", "fr"},
		{"zh", "zh-CN"},
		{"zh-cn", "zh-CN"},
		{"ZH-TW", "zh-TW"},
	}
	for _, tt := range tests {
		if got := normTarget(tt.in); got != tt.want {
			t.Errorf("normTarget(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package speech

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

func writeTestAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, []byte("RIFFfake"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenAITranscribe(t *testing.T) {
	var gotPath, gotAuth string
	var gotModel, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotLang = r.FormValue("language")
		w.Write([]byte(`{
			"language": "spanish",
			"text": "hola mundo",
			"segments": [
				{"start": 0.0, "end": 1.5, "text": "hola"},
				{"start": 1.5, "end": 3.0, "text": "mundo"}
			]
		}`))
	}))
	defer srv.Close()

	engine.Init(engine.Config{
		SpeechBackend: "openai",
		OpenAIAPIKey:  "sk-test",
		OpenAIAPIBase: srv.URL,
		WhisperModel:  "whisper-1",
	})

	b := &openaiBackend{}
	res, err := b.Transcribe(context.Background(), writeTestAudio(t), Options{Language: "es"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/audio/transcriptions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotModel != "whisper-1" {
		t.Errorf("model = %q", gotModel)
	}
	if gotLang != "es" {
		t.Errorf("language hint = %q", gotLang)
	}
	if res.Text != "hola mundo" || len(res.Segments) != 2 {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Segments[1].Start != 1.5 || res.Segments[1].End != 3.0 {
		t.Errorf("segment timing: %+v", res.Segments[1])
	}
}

func TestOpenAITranslateEndpoint(t *testing.T) {
	var gotPath, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		r.ParseMultipartForm(1 << 20)
		gotLang = r.FormValue("language")
		w.Write([]byte(`{"language":"english","text":"hello world","segments":[]}`))
	}))
	defer srv.Close()

	engine.Init(engine.Config{OpenAIAPIKey: "sk-test", OpenAIAPIBase: srv.URL})

	b := &openaiBackend{}
	res, err := b.Transcribe(context.Background(), writeTestAudio(t), Options{
		Language:  "es",
		Translate: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/audio/translations" {
		t.Errorf("path = %q, want translations endpoint", gotPath)
	}
	if gotLang != "" {
		t.Errorf("language hint must be dropped on translate, got %q", gotLang)
	}
	if res.Text != "hello world" {
		t.Errorf("text = %q", res.Text)
	}
}

func TestOpenAIServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad model", http.StatusBadRequest)
	}))
	defer srv.Close()

	engine.Init(engine.Config{OpenAIAPIKey: "sk-test", OpenAIAPIBase: srv.URL})

	b := &openaiBackend{}
	_, err := b.Transcribe(context.Background(), writeTestAudio(t), Options{})
	if !errors.Is(err, engine.ErrServiceUnavailable) {
		t.Fatalf("want ErrServiceUnavailable, got %v", err)
	}
}

func TestNewBackend(t *testing.T) {
	tests := []struct {
		name    string
		cfg     engine.Config
		want    string
		wantNil bool
		wantErr bool
	}{
		{"openai", engine.Config{SpeechBackend: "openai", OpenAIAPIKey: "k"}, "openai", false, false},
		{"openai without key", engine.Config{SpeechBackend: "openai"}, "", false, true},
		{"fasterwhisper", engine.Config{SpeechBackend: "fasterwhisper", FasterWhisperURL: "http://localhost:8000"}, "fasterwhisper", false, false},
		{"disabled", engine.Config{}, "", true, false},
		{"unknown", engine.Config{SpeechBackend: "bogus"}, "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine.Init(tt.cfg)
			b, err := NewBackend()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if b != nil {
					t.Fatalf("expected nil backend, got %v", b)
				}
				return
			}
			if b.Name() != tt.want {
				t.Errorf("backend = %q, want %q", b.Name(), tt.want)
			}
		})
	}
}

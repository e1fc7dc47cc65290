// Package speech turns downloaded audio into text with a whisper-family model.
package speech

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// Options controls a transcription call.
type Options struct {
	// Language hints the spoken language; empty means autodetect.
	Language string
	// Translate asks the model for English output instead of the
	// spoken language. Whisper only translates into English; other
	// targets are handled downstream by the text translator.
	Translate bool
}

// Backend is a speech-to-text engine operating on a local audio file.
type Backend interface {
	Name() string
	Transcribe(ctx context.Context, audioPath string, opts Options) (engine.SpeechResult, error)
}

// NewBackend builds the backend selected in the engine config.
func NewBackend() (Backend, error) {
	switch engine.Cfg.SpeechBackend {
	case "openai":
		if engine.Cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("speech backend openai requires OPENAI_API_KEY")
		}
		return &openaiBackend{}, nil
	case "fasterwhisper":
		if engine.Cfg.FasterWhisperURL == "" {
			return nil, fmt.Errorf("speech backend fasterwhisper requires FASTER_WHISPER_URL")
		}
		return &fasterWhisperBackend{}, nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown speech backend %q", engine.Cfg.SpeechBackend)
	}
}

package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// fasterWhisperBackend talks to a self-hosted faster-whisper server
// (e.g. fedirz/faster-whisper-server). The server exposes the same
// OpenAI-compatible audio routes, so the request shape is shared; what
// differs is the base URL, the absent API key, and the model naming.
type fasterWhisperBackend struct{}

func (b *fasterWhisperBackend) Name() string { return "fasterwhisper" }

func (b *fasterWhisperBackend) Transcribe(ctx context.Context, audioPath string, opts Options) (engine.SpeechResult, error) {
	engine.IncrSpeechRequests()

	endpoint := "transcriptions"
	if opts.Translate {
		endpoint = "translations"
	}

	model := engine.Cfg.WhisperModel
	if model == "" {
		model = "Systran/faster-whisper-small"
	}

	body, contentType, err := buildAudioForm(audioPath, model, opts)
	if err != nil {
		return engine.SpeechResult{}, err
	}

	base := strings.TrimRight(engine.Cfg.FasterWhisperURL, "/")
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			base+"/v1/audio/"+endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return engine.SpeechResult{}, fmt.Errorf("faster-whisper request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return engine.SpeechResult{}, fmt.Errorf("faster-whisper HTTP %d: %s: %w",
			resp.StatusCode, snippet, engine.ErrServiceUnavailable)
	}

	var tr openaiTranscription
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return engine.SpeechResult{}, fmt.Errorf("faster-whisper: decode response: %w", err)
	}
	return toSpeechResult(tr), nil
}

package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// openaiBackend calls the OpenAI audio API (or any compatible server).
// verbose_json keeps per-segment timestamps in the response.
type openaiBackend struct{}

func (b *openaiBackend) Name() string { return "openai" }

type openaiSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type openaiTranscription struct {
	Language string          `json:"language"`
	Text     string          `json:"text"`
	Segments []openaiSegment `json:"segments"`
}

func (b *openaiBackend) Transcribe(ctx context.Context, audioPath string, opts Options) (engine.SpeechResult, error) {
	engine.IncrSpeechRequests()

	endpoint := "transcriptions"
	if opts.Translate {
		endpoint = "translations"
	}

	base := engine.Cfg.OpenAIAPIBase
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	model := engine.Cfg.WhisperModel
	if model == "" {
		model = "whisper-1"
	}

	body, contentType, err := buildAudioForm(audioPath, model, opts)
	if err != nil {
		return engine.SpeechResult{}, err
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			base+"/audio/"+endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+engine.Cfg.OpenAIAPIKey)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return engine.SpeechResult{}, fmt.Errorf("whisper request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return engine.SpeechResult{}, fmt.Errorf("whisper HTTP %d: %s: %w",
			resp.StatusCode, snippet, engine.ErrServiceUnavailable)
	}

	var tr openaiTranscription
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return engine.SpeechResult{}, fmt.Errorf("whisper: decode response: %w", err)
	}
	return toSpeechResult(tr), nil
}

func toSpeechResult(tr openaiTranscription) engine.SpeechResult {
	res := engine.SpeechResult{Language: tr.Language, Text: tr.Text}
	for _, s := range tr.Segments {
		res.Segments = append(res.Segments, engine.SpeechSegment{
			Start: s.Start,
			End:   s.End,
			Text:  s.Text,
		})
	}
	return res
}

// buildAudioForm assembles the multipart body. The whole file is buffered;
// whisper inputs are capped at 25MB anyway.
func buildAudioForm(audioPath, model string, opts Options) ([]byte, string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("read audio: %w", err)
	}

	fields := map[string]string{
		"model":           model,
		"response_format": "verbose_json",
	}
	if opts.Language != "" && opts.Language != "auto" && !opts.Translate {
		fields["language"] = opts.Language
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// Google translate web endpoint (client=gtx). The same service the usual
// Python deep-translator wrappers hit; no API key, but payloads are
// size-limited, so long texts go through in chunks.

const defaultTranslateEndpoint = "https://translate.googleapis.com/translate_a/single"

func translateGoogle(ctx context.Context, text, source, target string) (engine.TranslationResult, error) {
	endpoint := engine.Cfg.TranslateEndpoint
	if endpoint == "" {
		endpoint = defaultTranslateEndpoint
	}

	chunks := engine.SplitChunks(text, engine.Cfg.ChunkSize)
	parts := make([]string, 0, len(chunks))
	detected := ""

	for _, chunk := range chunks {
		translated, det, err := translateChunk(ctx, endpoint, chunk, source, target)
		if err != nil {
			return engine.TranslationResult{}, err
		}
		parts = append(parts, translated)
		if detected == "" {
			detected = det
		}
	}

	return engine.TranslationResult{
		TargetLanguage: target,
		DetectedSource: detected,
		Text:           strings.Join(parts, " "),
		Provider:       ProviderGoogle,
	}, nil
}

func translateChunk(ctx context.Context, endpoint, text, source, target string) (string, string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source)
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", engine.UserAgentChrome)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		// RetryHTTP already tags rate limiting and upstream failure.
		return "", "", fmt.Errorf("translate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", "", fmt.Errorf("translate HTTP %d: %s: %w", resp.StatusCode, snippet, engine.ErrServiceUnavailable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil {
		return "", "", fmt.Errorf("translate: read body: %w", err)
	}
	return parseGtxResponse(body)
}

// parseGtxResponse decodes the endpoint's nested-array response:
// [[["translated","original",...],...],null,"detected-lang",...]
func parseGtxResponse(body []byte) (string, string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", "", fmt.Errorf("translate: decode response: %w", err)
	}
	if len(raw) == 0 {
		return "", "", fmt.Errorf("translate: empty response")
	}

	var sentences []json.RawMessage
	if err := json.Unmarshal(raw[0], &sentences); err != nil {
		return "", "", fmt.Errorf("translate: decode sentences: %w", err)
	}

	var sb strings.Builder
	for _, s := range sentences {
		var fields []json.RawMessage
		if err := json.Unmarshal(s, &fields); err != nil || len(fields) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(fields[0], &part); err != nil {
			continue
		}
		sb.WriteString(part)
	}
	if sb.Len() == 0 {
		return "", "", fmt.Errorf("translate: no translated sentences in response")
	}

	detected := ""
	if len(raw) >= 3 {
		_ = json.Unmarshal(raw[2], &detected) // best effort
	}
	return sb.String(), detected, nil
}

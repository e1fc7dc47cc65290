package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Minimal OpenAI-compatible chat-completions client. Any provider exposing
// the /chat/completions shape works (OpenAI, Gemini openai endpoint, local
// Ollama).

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// LLMEnabled reports whether an LLM provider is configured.
func LLMEnabled() bool {
	return cfg.LLMAPIKey != "" && cfg.LLMAPIBase != "" && cfg.LLMModel != ""
}

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// CallLLM sends a prompt using the configured model, temperature and max_tokens.
func CallLLM(ctx context.Context, prompt string) (string, error) {
	if !LLMEnabled() {
		return "", fmt.Errorf("llm: provider not configured: %w", ErrServiceUnavailable)
	}
	IncrLLMCalls()

	reqBody, err := json.Marshal(chatRequest{
		Model:       cfg.LLMModel,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
	})
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(cfg.LLMAPIBase, "/") + "/chat/completions"
	resp, err := RetryHTTP(ctx, DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+cfg.LLMAPIKey)
		return cfg.HTTPClient.Do(req)
	})
	if err != nil {
		IncrLLMErrors()
		return "", fmt.Errorf("llm: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		IncrLLMErrors()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("llm: HTTP %d: %s: %w", resp.StatusCode, snippet, ErrServiceUnavailable)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		IncrLLMErrors()
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	if out.Error != nil {
		IncrLLMErrors()
		return "", fmt.Errorf("llm: %s: %w", out.Error.Message, ErrServiceUnavailable)
	}
	if len(out.Choices) == 0 {
		IncrLLMErrors()
		return "", fmt.Errorf("llm: empty choices: %w", ErrServiceUnavailable)
	}
	return stripFences(out.Choices[0].Message.Content), nil
}

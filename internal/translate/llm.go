package translate

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// LLM-based translation. Slower than the web endpoint but keeps proper
// nouns and code identifiers intact, which matters for tech talks.

func translateLLM(ctx context.Context, text, source, target string) (engine.TranslationResult, error) {
	if !engine.LLMEnabled() {
		return engine.TranslationResult{}, fmt.Errorf("llm provider not configured: %w", engine.ErrServiceUnavailable)
	}

	sourceHint := source
	if sourceHint == "auto" {
		sourceHint = "detect automatically"
	}

	prompt := fmt.Sprintf(engine.TranslatePrompt, LanguageName(target), sourceHint, text)
	out, err := engine.CallLLM(ctx, prompt)
	if err != nil {
		return engine.TranslationResult{}, err
	}

	return engine.TranslationResult{
		TargetLanguage: target,
		Text:           out,
		Provider:       ProviderLLM,
	}, nil
}

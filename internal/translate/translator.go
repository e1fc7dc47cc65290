package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// Text translation. Two providers:
//   google — the free translate_a/single web endpoint (quick, chunked)
//   llm    — an OpenAI-compatible chat model (needs LLM_API_KEY)
// The target language is validated against the registry before any
// outbound call is made.

const (
	ProviderGoogle = "google"
	ProviderLLM    = "llm"
)

// languages maps supported target codes to display names. The set mirrors
// what the Google endpoint accepts; the LLM provider uses the display name
// in its prompt.
var languages = map[string]string{
	"af": "Afrikaans", "ar": "Arabic", "bg": "Bulgarian", "bn": "Bengali",
	"ca": "Catalan", "cs": "Czech", "da": "Danish", "de": "German",
	"el": "Greek", "en": "English", "es": "Spanish", "et": "Estonian",
	"fa": "Persian", "fi": "Finnish", "fr": "French", "he": "Hebrew",
	"hi": "Hindi", "hr": "Croatian", "hu": "Hungarian", "id": "Indonesian",
	"it": "Italian", "ja": "Japanese", "ko": "Korean", "lt": "Lithuanian",
	"lv": "Latvian", "ms": "Malay", "nl": "Dutch", "no": "Norwegian",
	"pl": "Polish", "pt": "Portuguese", "ro": "Romanian", "ru": "Russian",
	"sk": "Slovak", "sl": "Slovenian", "sr": "Serbian", "sv": "Swedish",
	"th": "Thai", "tr": "Turkish", "uk": "Ukrainian", "ur": "Urdu",
	"vi": "Vietnamese", "zh-CN": "Chinese (Simplified)", "zh-TW": "Chinese (Traditional)",
}

// IsSupported reports whether code is a valid target language.
func IsSupported(code string) bool {
	_, ok := languages[normTarget(code)]
	return ok
}

// LanguageName returns the display name for a supported code, or the code itself.
func LanguageName(code string) string {
	if name, ok := languages[normTarget(code)]; ok {
		return name
	}
	return code
}

// Languages returns the supported target set for the UI selector.
func Languages() map[string]string {
	out := make(map[string]string, len(languages))
	for k, v := range languages {
		out[k] = v
	}
	return out
}

// normTarget lowercases a target code but preserves the zh region casing.
func normTarget(code string) string {
	code = strings.TrimSpace(code)
	switch strings.ToLower(code) {
	case "zh-cn", "zh":
		return "zh-CN"
	case "zh-tw":
		return "zh-TW"
	}
	return strings.ToLower(code)
}

// Request describes one translation call.
type Request struct {
	Text     string
	Target   string
	Source   string // empty or "auto" for detection
	Provider string // empty defaults to google
}

// Translate translates text into the target language.
// Empty text is an idempotent no-op; an unsupported target fails before
// any service call.
func Translate(ctx context.Context, req Request) (engine.TranslationResult, error) {
	engine.IncrTranslateRequests()

	target := normTarget(req.Target)
	if _, ok := languages[target]; !ok {
		return engine.TranslationResult{}, fmt.Errorf("%q: %w", req.Target, engine.ErrUnsupportedLanguage)
	}

	provider := req.Provider
	if provider == "" {
		provider = ProviderGoogle
	}

	if strings.TrimSpace(req.Text) == "" {
		return engine.TranslationResult{TargetLanguage: target, Text: "", Provider: provider}, nil
	}

	source := engine.NormLang(req.Source)

	switch provider {
	case ProviderGoogle:
		return translateGoogle(ctx, req.Text, source, target)
	case ProviderLLM:
		return translateLLM(ctx, req.Text, source, target)
	default:
		return engine.TranslationResult{}, fmt.Errorf("unknown translation provider %q", provider)
	}
}

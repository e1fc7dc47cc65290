package engine

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

// NormLang normalises a language field: empty string → "auto".
func NormLang(lang string) string {
	if lang == "" {
		return "auto"
	}
	return strings.ToLower(strings.TrimSpace(lang))
}

// User-Agent strings used across HTTP clients.
const (
	UserAgentBot    = "GoTranscript/1.0"
	UserAgentChrome = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// CleanHTML strips tags, unescapes entities, and trims whitespace.
// Timedtext caption lines carry both markup and double-encoded entities.
func CleanHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(html.UnescapeString(s))
	return strings.TrimSpace(s)
}

// Truncate returns the first n bytes of s.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + suffix
}

// SplitChunks splits text into chunks of at most maxLen bytes, breaking at
// the last space before the limit when possible so words stay intact.
// The translation endpoint rejects oversized payloads, so long transcripts
// go through in pieces.
func SplitChunks(text string, maxLen int) []string {
	if maxLen <= 0 {
		return []string{text}
	}
	var chunks []string
	for len(text) > maxLen {
		cut := maxLen
		if idx := strings.LastIndexByte(text[:maxLen], ' '); idx > 0 {
			cut = idx
		}
		// Avoid splitting mid-rune when no space was found.
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = maxLen
		}
		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

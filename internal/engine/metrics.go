package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	TranscriptRequests atomic.Int64
	TranslateRequests  atomic.Int64
	SpeechRequests     atomic.Int64
	AudioDownloads     atomic.Int64
	LLMCalls           atomic.Int64
	LLMErrors          atomic.Int64
	FetchErrors        atomic.Int64
	FeedRequests       atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"transcript_requests": metrics.TranscriptRequests.Load(),
		"translate_requests":  metrics.TranslateRequests.Load(),
		"speech_requests":     metrics.SpeechRequests.Load(),
		"audio_downloads":     metrics.AudioDownloads.Load(),
		"llm_calls":           metrics.LLMCalls.Load(),
		"llm_errors":          metrics.LLMErrors.Load(),
		"fetch_errors":        metrics.FetchErrors.Load(),
		"feed_requests":       metrics.FeedRequests.Load(),
		"cache_hits":          hits,
		"cache_misses":        misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"transcript_requests", "translate_requests", "speech_requests",
		"audio_downloads",
		"llm_calls", "llm_errors",
		"fetch_errors", "feed_requests",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sub-packages.
func IncrTranscriptRequests() { metrics.TranscriptRequests.Add(1) }
func IncrTranslateRequests()  { metrics.TranslateRequests.Add(1) }
func IncrSpeechRequests()     { metrics.SpeechRequests.Add(1) }
func IncrAudioDownloads()     { metrics.AudioDownloads.Add(1) }
func IncrLLMCalls()           { metrics.LLMCalls.Add(1) }
func IncrLLMErrors()          { metrics.LLMErrors.Add(1) }
func IncrFetchErrors()        { metrics.FetchErrors.Add(1) }
func IncrFeedRequests()       { metrics.FeedRequests.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}

package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestTrackOperationPassesThrough(t *testing.T) {
	ran := false
	err := TrackOperation(context.Background(), "fast op", func(ctx context.Context) error {
		ran = true
		if ctx == nil {
			t.Error("fn must receive a context")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Error("fn did not run")
	}

	sentinel := errors.New("pipeline failed")
	err = TrackOperation(context.Background(), "failing op", func(ctx context.Context) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("error not passed through: %v", err)
	}
}

func TestFormatMetricsListsAllCounters(t *testing.T) {
	out := FormatMetrics()
	for _, key := range []string{
		"transcript_requests", "translate_requests", "speech_requests",
		"audio_downloads", "llm_calls", "cache_hits", "cache_misses",
	} {
		if !strings.Contains(out, key) {
			t.Errorf("metrics output missing %q", key)
		}
	}
}

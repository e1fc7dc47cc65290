package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// The DB opens once per process, so all subtests share one temp database.
func TestHistoryAddAndList(t *testing.T) {
	engine.Init(engine.Config{
		HistoryDBPath: filepath.Join(t.TempDir(), "history.db"),
	})
	ctx := context.Background()

	if _, err := Add(ctx, Entry{Mode: "quick"}); err == nil {
		t.Error("expected error for missing video_id")
	}
	if _, err := Add(ctx, Entry{VideoID: "dQw4w9WgXcQ"}); err == nil {
		t.Error("expected error for missing mode")
	}

	id1, err := Add(ctx, Entry{
		VideoID:    "dQw4w9WgXcQ",
		Title:      "Never Gonna Give You Up",
		TargetLang: "es",
		Mode:       "quick",
		Provider:   "google",
		Chars:      1234,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	id2, err := Add(ctx, Entry{VideoID: "abcdefghijk", Mode: "quality", Provider: "openai"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("ids not monotonic: %d then %d", id1, id2)
	}

	res, err := List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 2 || len(res.Entries) != 2 {
		t.Fatalf("got total=%d entries=%d, want 2/2", res.Total, len(res.Entries))
	}
	// Newest first.
	if res.Entries[0].VideoID != "abcdefghijk" {
		t.Errorf("entries not newest-first: %+v", res.Entries[0])
	}
	got := res.Entries[1]
	if got.Title != "Never Gonna Give You Up" || got.TargetLang != "es" || got.Chars != 1234 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.CreatedAt == "" {
		t.Error("created_at not set")
	}

	limited, err := List(ctx, 1)
	if err != nil {
		t.Fatalf("list limit: %v", err)
	}
	if len(limited.Entries) != 1 || limited.Total != 2 {
		t.Errorf("limit not applied: entries=%d total=%d", len(limited.Entries), limited.Total)
	}
}

package engine

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		k1 := CacheKey("tr", "dQw4w9WgXcQ", "en")
		k2 := CacheKey("tr", "dQw4w9WgXcQ", "en")
		if k1 != k2 {
			t.Errorf("CacheKey not deterministic: %q != %q", k1, k2)
		}
	})

	t.Run("different inputs differ", func(t *testing.T) {
		k1 := CacheKey("tr", "dQw4w9WgXcQ", "en")
		k2 := CacheKey("tr", "dQw4w9WgXcQ", "es")
		if k1 == k2 {
			t.Errorf("different inputs produced same key: %q", k1)
		}
	})

	t.Run("has prefix", func(t *testing.T) {
		k := CacheKey("test")
		if k[:3] != "gt:" {
			t.Errorf("expected gt: prefix, got %q", k[:3])
		}
	})
}

func TestCacheTranscriptRoundTrip(t *testing.T) {
	// Init minimal cache (no Redis)
	InitCache("", 1*time.Minute, 100, 5*time.Minute)

	ctx := context.Background()
	langs := []string{"en"}

	// Miss
	_, ok := CacheGetTranscript(ctx, "abc123xyz00", langs)
	if ok {
		t.Error("expected cache miss on empty cache")
	}

	// Set
	val := Transcript{
		VideoID:  "abc123xyz00",
		Language: "en",
		Segments: []TranscriptSegment{{Start: 0, Duration: 1.5, Text: "hello"}},
	}
	CacheSetTranscript(ctx, "abc123xyz00", langs, val)

	// Hit
	got, ok := CacheGetTranscript(ctx, "abc123xyz00", langs)
	if !ok {
		t.Fatal("expected cache hit after set")
	}
	if len(got.Segments) != 1 || got.Segments[0].Text != "hello" {
		t.Errorf("got %+v, want one segment %q", got.Segments, "hello")
	}
}

func TestCacheExpiration(t *testing.T) {
	// Init with very short TTL
	InitCache("", 1*time.Millisecond, 100, 5*time.Minute)

	ctx := context.Background()
	key := CacheKey("test", "expiry")

	CacheSetJSON(ctx, key, Transcript{VideoID: "temp"})
	time.Sleep(5 * time.Millisecond)

	_, ok := CacheGetJSON[Transcript](ctx, key)
	if ok {
		t.Error("expected cache miss after TTL expiry")
	}
}

func TestCacheEviction(t *testing.T) {
	// maxEntries=3
	InitCache("", 1*time.Minute, 3, 5*time.Minute)
	ctx := context.Background()

	// Add 5 entries
	for i := 0; i < 5; i++ {
		key := CacheKey("evict", fmt.Sprintf("item-%d", i))
		CacheSetJSON(ctx, key, Transcript{VideoID: fmt.Sprintf("v%d", i)})
	}

	// Count L1 entries
	count := 0
	transcriptCache.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count > 3 {
		t.Errorf("expected at most 3 entries after eviction, got %d", count)
	}
}

func TestCacheStats(t *testing.T) {
	InitCache("", 1*time.Minute, 100, 5*time.Minute)
	// Reset counters
	cacheHits.Store(0)
	cacheMisses.Store(0)

	ctx := context.Background()
	key := CacheKey("stats", "test")

	// Miss
	CacheGetJSON[Transcript](ctx, key)
	hits, misses := CacheStats()
	_ = hits
	if misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}

	// Set and hit
	CacheSetJSON(ctx, key, Transcript{VideoID: "x"})
	CacheGetJSON[Transcript](ctx, key)

	hits, misses = CacheStats()
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
	if misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}
}

package media

import (
	"slices"
	"strings"
	"testing"
)

func TestDownloadArgs(t *testing.T) {
	args := downloadArgs("dQw4w9WgXcQ", "/tmp/a/dQw4w9WgXcQ.m4a", false)

	if args[len(args)-1] != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("url must be the last argument, got %q", args[len(args)-1])
	}
	if !slices.Contains(args, "--no-playlist") {
		t.Error("missing --no-playlist")
	}
	if slices.Contains(args, "--extractor-args") {
		t.Error("android client args present without fallback")
	}

	fallback := downloadArgs("dQw4w9WgXcQ", "/tmp/a/dQw4w9WgXcQ.m4a", true)
	joined := strings.Join(fallback, " ")
	if !strings.Contains(joined, "youtube:player_client=android") {
		t.Error("fallback args missing android player client")
	}
}

func TestWavPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/tmp/x/abc.m4a", "/tmp/x/abc.wav"},
		{"/tmp/x/abc", "/tmp/x/abc.wav"},
		{"clip.audio.m4a", "clip.audio.wav"},
	}
	for _, tt := range tests {
		if got := wavPath(tt.in); got != tt.want {
			t.Errorf("wavPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package engine

import "errors"

// Domain errors surfaced to the web layer. Handlers map these to HTTP
// statuses; everything else is a 502 service failure.
var (
	// ErrVideoNotFound — the video does not exist or is private.
	ErrVideoNotFound = errors.New("video not found")

	// ErrNoCaptions — the video exists but has no usable caption tracks.
	ErrNoCaptions = errors.New("captions unavailable")

	// ErrUnsupportedLanguage — the target language code is not in the
	// supported set. Checked before any outbound call.
	ErrUnsupportedLanguage = errors.New("unsupported target language")

	// ErrRateLimited — upstream returned 429 after retries were exhausted.
	ErrRateLimited = errors.New("rate limited by upstream")

	// ErrServiceUnavailable — translation or speech service failed.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrInvalidVideoURL — the input is not a recognizable YouTube URL or ID.
	ErrInvalidVideoURL = errors.New("invalid video URL")
)

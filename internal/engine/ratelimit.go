package engine

import (
	"context"

	"golang.org/x/time/rate"
)

// youtubeLimiter throttles all outbound YouTube requests (watch page,
// Innertube, timedtext). YouTube blocks bursty clients long before it
// returns a clean 429.
var youtubeLimiter *rate.Limiter

func initYouTubeLimiter(rps float64, burst int) {
	if rps <= 0 {
		rps = 2
	}
	if burst <= 0 {
		burst = 4
	}
	youtubeLimiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// WaitYouTube blocks until the YouTube rate limiter permits a request
// or the context is cancelled.
func WaitYouTube(ctx context.Context) error {
	if youtubeLimiter == nil {
		return nil
	}
	return youtubeLimiter.Wait(ctx)
}

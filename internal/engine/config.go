package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	// Translation
	TranslateEndpoint string // Google translate web endpoint base
	ChunkSize         int    // max chars per translation request

	// LLM translation provider (optional, OpenAI-compatible)
	LLMAPIKey      string
	LLMAPIBase     string
	LLMModel       string
	LLMTemperature float64
	LLMMaxTokens   int

	// Speech
	SpeechBackend    string // "openai" or "fasterwhisper"; empty disables the audio path
	OpenAIAPIKey     string
	OpenAIAPIBase    string
	WhisperModel     string
	FasterWhisperURL string
	YtDlpPath        string
	AudioWorkDir     string

	// YouTube
	PreferredLangs     []string // caption language preference order
	YouTubeRate        float64  // outbound YouTube requests per second
	YouTubeBurst       int
	FetchTimeout       time.Duration
	MaxTranscriptChars int

	// History
	HistoryDBPath string

	// Cache
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	HTTPClient *http.Client
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (sources, translate, speech).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.HTTPClient == nil {
		timeout := c.FetchTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		c.HTTPClient = &http.Client{Timeout: timeout}
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = 1000
	}
	if len(c.PreferredLangs) == 0 {
		c.PreferredLangs = []string{"en"}
	}
	cfg = c
	Cfg = &cfg
	initYouTubeLimiter(c.YouTubeRate, c.YouTubeBurst)
}

// go_transcript — YouTube transcript extractor and translator.
//
// Paste a video URL, get the transcript, optionally translated. Quick mode
// reads the caption tracks; high-quality mode downloads the audio and runs
// it through a whisper backend.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/webserver"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env", slog.Any("error", err))
	}

	initEngine()

	svc, err := webserver.NewService()
	if err != nil {
		slog.Error("service init failed", slog.Any("error", err))
		os.Exit(1)
	}

	port := envStr("PORT", "8080")
	speechBackend := "disabled"
	if svc.Speech != nil {
		speechBackend = svc.Speech.Name()
	}
	slog.Info("starting go_transcript",
		slog.String("version", version),
		slog.String("port", port),
		slog.String("speech_backend", speechBackend),
	)

	r := webserver.NewRouter(svc)
	if err := r.Run(":" + port); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func initEngine() {
	c := engine.Config{
		TranslateEndpoint: envStr("TRANSLATE_ENDPOINT", ""),
		ChunkSize:         envInt("TRANSLATE_CHUNK_SIZE", 1000),

		LLMAPIKey:      envStr("LLM_API_KEY", ""),
		LLMAPIBase:     envStr("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:       envStr("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature: envFloat("LLM_TEMPERATURE", 0.1),
		LLMMaxTokens:   envInt("LLM_MAX_TOKENS", 16384),

		SpeechBackend:    envStr("SPEECH_BACKEND", ""),
		OpenAIAPIKey:     envStr("OPENAI_API_KEY", ""),
		OpenAIAPIBase:    envStr("OPENAI_API_BASE", ""),
		WhisperModel:     envStr("WHISPER_MODEL", ""),
		FasterWhisperURL: envStr("FASTER_WHISPER_URL", ""),
		YtDlpPath:        envStr("YTDLP_PATH", ""),
		AudioWorkDir:     envStr("AUDIO_WORK_DIR", ""),

		PreferredLangs:     envList("PREFERRED_LANGS", "en"),
		YouTubeRate:        envFloat("YOUTUBE_RATE", 2),
		YouTubeBurst:       envInt("YOUTUBE_BURST", 4),
		FetchTimeout:       envDuration("FETCH_TIMEOUT", 10*time.Second),
		MaxTranscriptChars: envInt("MAX_TRANSCRIPT_CHARS", 0),

		HistoryDBPath: envStr("HISTORY_DB_PATH", ""),

		CacheMaxEntries:      envInt("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: envDuration("CACHE_CLEANUP_INTERVAL", 300*time.Second),

		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	engine.Init(c)

	cacheTTL := envDuration("CACHE_TTL", 6*time.Hour)
	engine.InitCache(envStr("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}

// env helpers

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envList(key, def string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

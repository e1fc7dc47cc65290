// Package webserver exposes the transcript tool over HTTP.
package webserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/media"
	"github.com/anatolykoptev/go_transcript/internal/sources"
	"github.com/anatolykoptev/go_transcript/internal/speech"
	"github.com/anatolykoptev/go_transcript/internal/translate"
)

// Fetcher retrieves transcripts and metadata from the video platform.
type Fetcher interface {
	FetchTranscript(ctx context.Context, videoID string, langs []string) (engine.Transcript, error)
	FetchVideoInfo(ctx context.Context, videoID string) (engine.VideoInfo, error)
	FetchChannelVideos(ctx context.Context, channelID string, limit int) ([]engine.ChannelVideo, error)
}

// Translator translates text into a target language.
type Translator interface {
	Translate(ctx context.Context, req translate.Request) (engine.TranslationResult, error)
}

// AudioPreparer downloads a video's audio and returns a local file path
// plus a cleanup func.
type AudioPreparer interface {
	PrepareAudio(ctx context.Context, videoID string) (string, func(), error)
}

// Service wires the pipeline behind the HTTP handlers. The speech backend
// is nil when the audio path is not configured.
type Service struct {
	Fetcher    Fetcher
	Translator Translator
	Audio      AudioPreparer
	Speech     speech.Backend
}

// NewService builds the production service from the initialized engine config.
func NewService() (*Service, error) {
	backend, err := speech.NewBackend()
	if err != nil {
		return nil, err
	}
	return &Service{
		Fetcher:    youtubeFetcher{},
		Translator: textTranslator{},
		Audio:      audioPreparer{},
		Speech:     backend,
	}, nil
}

type youtubeFetcher struct{}

func (youtubeFetcher) FetchTranscript(ctx context.Context, videoID string, langs []string) (engine.Transcript, error) {
	return sources.FetchTranscript(ctx, videoID, langs)
}

func (youtubeFetcher) FetchVideoInfo(ctx context.Context, videoID string) (engine.VideoInfo, error) {
	return sources.FetchVideoInfo(ctx, videoID)
}

func (youtubeFetcher) FetchChannelVideos(ctx context.Context, channelID string, limit int) ([]engine.ChannelVideo, error) {
	return sources.FetchChannelVideos(ctx, channelID, limit)
}

type textTranslator struct{}

func (textTranslator) Translate(ctx context.Context, req translate.Request) (engine.TranslationResult, error) {
	return translate.Translate(ctx, req)
}

type audioPreparer struct{}

func (audioPreparer) PrepareAudio(ctx context.Context, videoID string) (string, func(), error) {
	m4a, err := media.DownloadAudio(ctx, videoID)
	if err != nil {
		return "", nil, err
	}
	wav, err := media.ConvertToWAV(m4a)
	if err != nil {
		media.Cleanup(m4a)
		return "", nil, err
	}
	return wav, func() { media.Cleanup(wav) }, nil
}

// ProcessResult is the combined output of the one-shot pipeline.
type ProcessResult struct {
	Video      engine.VideoInfo          `json:"video"`
	Transcript string                    `json:"transcript"`
	Language   string                    `json:"language,omitempty"`
	Translated *engine.TranslationResult `json:"translated,omitempty"`
	Mode       string                    `json:"mode"`
}

const (
	ModeQuick   = "quick"
	ModeQuality = "quality"
)

// Process runs the full pipeline for one video: metadata, then either the
// caption path (quick) or the audio path (quality), then translation into
// the target language when one is requested. The whole run goes through
// TrackOperation so slow pipelines (audio downloads, long translations)
// show up in the logs.
func (s *Service) Process(ctx context.Context, videoID, target, mode string) (ProcessResult, error) {
	if mode == "" {
		mode = ModeQuick
	}
	var res ProcessResult
	err := engine.TrackOperation(ctx, "process "+mode, func(ctx context.Context) error {
		var err error
		res, err = s.run(ctx, videoID, target, mode)
		return err
	})
	return res, err
}

func (s *Service) run(ctx context.Context, videoID, target, mode string) (ProcessResult, error) {
	if target != "" && !translate.IsSupported(target) {
		return ProcessResult{}, fmt.Errorf("%q: %w", target, engine.ErrUnsupportedLanguage)
	}

	info, err := s.Fetcher.FetchVideoInfo(ctx, videoID)
	if err != nil {
		return ProcessResult{}, err
	}
	res := ProcessResult{Video: info, Mode: mode}

	switch mode {
	case ModeQuick:
		tr, err := s.Fetcher.FetchTranscript(ctx, videoID, engine.Cfg.PreferredLangs)
		if err != nil {
			return ProcessResult{}, err
		}
		res.Transcript = tr.Text()
		res.Language = tr.Language
	case ModeQuality:
		sr, err := s.processAudio(ctx, videoID, target)
		if err != nil {
			return ProcessResult{}, err
		}
		res.Transcript = sr.Text
		res.Language = sr.Language
	default:
		return ProcessResult{}, fmt.Errorf("unknown mode %q", mode)
	}

	if limit := engine.Cfg.MaxTranscriptChars; limit > 0 {
		res.Transcript = engine.TruncateRunes(res.Transcript, limit, "…")
	}

	if target != "" && !sameLanguage(res.Language, target) {
		translated, err := s.Translator.Translate(ctx, translate.Request{
			Text:   res.Transcript,
			Target: target,
			Source: res.Language,
		})
		if err != nil {
			return ProcessResult{}, err
		}
		res.Translated = &translated
	}

	return res, nil
}

// processAudio runs the download + speech path. Whisper translates only
// into English, so an "en" target uses the model's translate task directly
// and every other target transcribes the source and leaves translation to
// the text provider.
func (s *Service) processAudio(ctx context.Context, videoID, target string) (engine.SpeechResult, error) {
	if s.Speech == nil {
		return engine.SpeechResult{}, fmt.Errorf("speech backend not configured: %w", engine.ErrServiceUnavailable)
	}

	audioPath, cleanup, err := s.Audio.PrepareAudio(ctx, videoID)
	if err != nil {
		return engine.SpeechResult{}, err
	}
	defer cleanup()

	opts := speech.Options{Translate: sameLanguage(target, "en")}
	sr, err := s.Speech.Transcribe(ctx, audioPath, opts)
	if err != nil {
		return engine.SpeechResult{}, err
	}
	if opts.Translate {
		sr.Language = "en"
	}
	return sr, nil
}

// sameLanguage compares BCP-47-ish codes by primary subtag, so "en-US"
// matches "en" and whisper's "english" label does not false-negative on "en".
func sameLanguage(a, b string) bool {
	norm := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		if i := strings.IndexByte(s, '-'); i > 0 {
			s = s[:i]
		}
		switch s {
		case "english":
			return "en"
		}
		return s
	}
	na, nb := norm(a), norm(b)
	return na != "" && na == nb
}

// httpStatus maps domain errors onto response codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidVideoURL):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrVideoNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrNoCaptions):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrUnsupportedLanguage):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, engine.ErrServiceUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

package webserver

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/sources"
)

// RegisterTranscriptRoutes registers the caption-fetch endpoint.
func RegisterTranscriptRoutes(r *gin.Engine, s *Service) {
	r.POST("/api/transcript", handleTranscript(s))
}

// TranscriptRequest is the JSON body for POST /api/transcript.
type TranscriptRequest struct {
	URL       string   `json:"url" binding:"required"`
	Languages []string `json:"languages,omitempty"`
}

// TranscriptResponse carries the fetched transcript plus video metadata.
type TranscriptResponse struct {
	Video      engine.VideoInfo  `json:"video"`
	Transcript engine.Transcript `json:"transcript"`
	Text       string            `json:"text"`
}

func handleTranscript(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TranscriptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		videoID, err := sources.ExtractVideoID(req.URL)
		if err != nil {
			c.JSON(httpStatus(err), gin.H{"error": err.Error()})
			return
		}

		langs := req.Languages
		if len(langs) == 0 {
			langs = engine.Cfg.PreferredLangs
		}

		info, err := s.Fetcher.FetchVideoInfo(c.Request.Context(), videoID)
		if err != nil {
			slog.Warn("transcript request failed", "video_id", videoID, "error", err)
			c.JSON(httpStatus(err), gin.H{"error": err.Error()})
			return
		}

		tr, err := s.Fetcher.FetchTranscript(c.Request.Context(), videoID, langs)
		if err != nil {
			slog.Warn("transcript request failed", "video_id", videoID, "error", err)
			c.JSON(httpStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, TranscriptResponse{
			Video:      info,
			Transcript: tr,
			Text:       tr.Text(),
		})
	}
}

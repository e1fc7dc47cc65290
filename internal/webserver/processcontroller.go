package webserver

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anatolykoptev/go_transcript/internal/history"
	"github.com/anatolykoptev/go_transcript/internal/sources"
)

// RegisterProcessRoutes registers the one-shot pipeline endpoint.
func RegisterProcessRoutes(r *gin.Engine, s *Service) {
	r.POST("/api/process", handleProcess(s))
}

// ProcessRequest is the JSON body for POST /api/process.
type ProcessRequest struct {
	URL    string `json:"url" binding:"required"`
	Target string `json:"target,omitempty"`
	Mode   string `json:"mode,omitempty"` // quick (default) or quality
}

func handleProcess(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProcessRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		videoID, err := sources.ExtractVideoID(req.URL)
		if err != nil {
			c.JSON(httpStatus(err), gin.H{"error": err.Error()})
			return
		}

		res, err := s.Process(c.Request.Context(), videoID, req.Target, req.Mode)
		if err != nil {
			slog.Warn("process failed", "video_id", videoID, "mode", req.Mode, "error", err)
			c.JSON(httpStatus(err), gin.H{"error": err.Error()})
			return
		}

		entry := history.Entry{
			VideoID:    videoID,
			Title:      res.Video.Title,
			Channel:    res.Video.Author,
			TargetLang: req.Target,
			Mode:       res.Mode,
			Chars:      len(res.Transcript),
		}
		if res.Translated != nil {
			entry.Provider = res.Translated.Provider
		}
		if _, err := history.Add(c.Request.Context(), entry); err != nil {
			slog.Warn("history write failed", "video_id", videoID, "error", err)
		}

		c.JSON(http.StatusOK, res)
	}
}

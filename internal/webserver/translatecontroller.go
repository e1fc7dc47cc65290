package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anatolykoptev/go_transcript/internal/translate"
)

// RegisterTranslateRoutes registers text translation endpoints.
func RegisterTranslateRoutes(r *gin.Engine, s *Service) {
	r.POST("/api/translate", handleTranslate(s))
	r.GET("/api/languages", handleLanguages)
}

// TranslateRequest is the JSON body for POST /api/translate.
type TranslateRequest struct {
	Text     string `json:"text"`
	Target   string `json:"target" binding:"required"`
	Source   string `json:"source,omitempty"`
	Provider string `json:"provider,omitempty"`
}

func handleTranslate(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TranslateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		res, err := s.Translator.Translate(c.Request.Context(), translate.Request{
			Text:     req.Text,
			Target:   req.Target,
			Source:   req.Source,
			Provider: req.Provider,
		})
		if err != nil {
			c.JSON(httpStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func handleLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": translate.Languages()})
}

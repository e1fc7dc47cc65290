package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// RegisterHealthRoutes registers health and metrics endpoints.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/api/health", handleHealth)
	r.GET("/metrics", handleMetrics)
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func handleMetrics(c *gin.Context) {
	c.String(http.StatusOK, engine.FormatMetrics())
}

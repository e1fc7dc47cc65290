package webserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anatolykoptev/go_transcript/internal/history"
)

// RegisterHistoryRoutes registers the processed-video history endpoint.
func RegisterHistoryRoutes(r *gin.Engine) {
	r.GET("/api/history", handleHistory)
}

func handleHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	res, err := history.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

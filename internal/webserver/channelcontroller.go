package webserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RegisterChannelRoutes registers the channel upload-feed endpoint.
func RegisterChannelRoutes(r *gin.Engine, s *Service) {
	r.GET("/api/channel/:id/videos", handleChannelVideos(s))
}

func handleChannelVideos(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "15"))

		videos, err := s.Fetcher.FetchChannelVideos(c.Request.Context(), c.Param("id"), limit)
		if err != nil {
			c.JSON(httpStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"videos": videos, "count": len(videos)})
	}
}

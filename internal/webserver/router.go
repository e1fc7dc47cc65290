package webserver

import (
	"github.com/gin-gonic/gin"
)

// NewRouter constructs a Gin engine with all routes registered.
func NewRouter(s *Service) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	RegisterUIRoutes(r)
	RegisterTranscriptRoutes(r, s)
	RegisterTranslateRoutes(r, s)
	RegisterProcessRoutes(r, s)
	RegisterChannelRoutes(r, s)
	RegisterHistoryRoutes(r)
	RegisterHealthRoutes(r)
	return r
}

package webserver

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var staticFS embed.FS

// RegisterUIRoutes serves the single-page form.
func RegisterUIRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		page, err := staticFS.ReadFile("static/index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "ui unavailable")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})
}

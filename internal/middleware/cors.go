package middleware

import (
	"net/http"
	"slices"
	"strings"

	"diamond-dashboard/server/internal/config"

	"github.com/gin-gonic/gin"
)

var loopbackOriginPrefixes = []string{
	"http://localhost:",
	"http://127.0.0.1:",
	"http://[::1]:",
	"https://localhost:",
	"https://127.0.0.1:",
	"https://[::1]:",
}

// DevCORS allows credentialed cross-origin calls from loopback dev servers
// (and CORS_ALLOWED_ORIGINS) so a separately served frontend can reach the
// /api proxy with its tokens cookie. It is inert outside development.
func DevCORS(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := strings.TrimRight(strings.TrimSpace(c.GetHeader("Origin")), "/")
		if origin == "" || !cfg.IsDevelopment() {
			c.Next()
			return
		}

		if allowedDevOrigin(origin, cfg.CORSAllowedOrigins) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func allowedDevOrigin(origin string, extra []string) bool {
	if slices.Contains(extra, origin) {
		return true
	}
	for _, p := range loopbackOriginPrefixes {
		if strings.HasPrefix(origin, p) {
			return true
		}
	}
	return false
}

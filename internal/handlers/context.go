package handlers

import (
	"diamond-dashboard/server/internal/auth"
	"diamond-dashboard/server/internal/middleware"

	"github.com/gin-gonic/gin"
)

// sessionStatus reuses the guard's answer for this request and only asks
// the backend when the guard did not.
func sessionStatus(c *gin.Context, oracle middleware.SessionChecker) (bool, error) {
	if authed, known := middleware.SessionStatus(c); known {
		return authed, nil
	}
	tokens, _ := auth.ReadTokens(c.Request)
	return oracle.IsAuthenticated(c.Request.Context(), tokens)
}

package handlers

import (
	"net/http"

	"diamond-dashboard/server/internal/auth"
	"diamond-dashboard/server/internal/config"

	"github.com/gin-gonic/gin"
)

// LoginHandler starts the backend's OAuth2 authorization-code flow.
func LoginHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, cfg.BackendURL+"/login")
	}
}

// SignupHandler starts the backend flow with identity-provider signup.
func SignupHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, cfg.BackendURL+"/signup")
	}
}

func LogoutHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth.SignOut(c.Writer, c.Request, cfg.BackendURL, !cfg.IsDevelopment())
		c.Abort()
	}
}

package handlers

import (
	"errors"
	"log"
	"net/http"

	"diamond-dashboard/server/internal/middleware"
	"diamond-dashboard/server/internal/models"

	"github.com/gin-gonic/gin"
)

func writeAPIError(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	case errors.Is(err, models.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, models.ErrAuditDisabled):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "guard audit log disabled"})
	default:
		log.Printf("internal error: request_id=%s path=%s err=%v", middleware.RequestIDFrom(c), c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func writeErrorPage(c *gin.Context, status int, message string) {
	authed, _ := middleware.SessionStatus(c)
	c.HTML(status, "error.html", pageData{
		Title:         http.StatusText(status),
		Authenticated: authed,
		StatusCode:    status,
		Message:       message,
	})
	c.Abort()
}

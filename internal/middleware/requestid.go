package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is echoed to the client and forwarded to the backend.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "requestID"

// RequestID makes sure every request carries an id for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Request.Header.Set(RequestIDHeader, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Set(requestIDKey, id)
		c.Next()
	}
}

// RequestIDFrom returns the id assigned by RequestID, or "-".
func RequestIDFrom(c *gin.Context) string {
	if v := c.GetString(requestIDKey); v != "" {
		return v
	}
	return "-"
}

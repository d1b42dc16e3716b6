package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"diamond-dashboard/server/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsRouter(cfg func(*config.Config)) *gin.Engine {
	c := testConfig()
	cfg(&c)
	r := gin.New()
	r.Use(DevCORS(c))
	r.Any("/api/*path", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestDevCORSLoopbackOrigin(t *testing.T) {
	r := corsRouter(func(*config.Config) {})
	req := httptest.NewRequest(http.MethodGet, "/api/get_task_status", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestDevCORSConfiguredOrigin(t *testing.T) {
	r := corsRouter(func(c *config.Config) { c.CORSAllowedOrigins = []string{"https://preview.example"} })
	req := httptest.NewRequest(http.MethodOptions, "/api/register_container", nil)
	req.Header.Set("Origin", "https://preview.example")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://preview.example", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestDevCORSUnknownOrigin(t *testing.T) {
	r := corsRouter(func(*config.Config) {})
	req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestDevCORSInertInProduction(t *testing.T) {
	r := corsRouter(func(c *config.Config) { c.AppEnv = "production" })
	req := httptest.NewRequest(http.MethodOptions, "/api/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEqual(t, http.StatusNoContent, rr.Code)
}

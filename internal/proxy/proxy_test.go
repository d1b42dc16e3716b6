package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type seenRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
	Cookie string
}

func TestProxyForwardsUnmodified(t *testing.T) {
	var seen seenRequest
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen = seenRequest{r.Method, r.URL.Path, r.URL.RawQuery, string(body), r.Header.Get("Cookie")}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Container registered successfully"})
	}))
	defer backend.Close()

	b, err := New(backend.URL)
	require.NoError(t, err)
	r := gin.New()
	r.Any("/api/*path", b.Handler())
	// gin's writer needs a real connection for the proxy's CloseNotify.
	front := httptest.NewServer(r)
	defer front.Close()

	payload := `{"base_image":"python:3.11","image_file_name":"x.sif","endpoint":"ep-1","work_path":"/scratch"}`
	req, err := http.NewRequest(http.MethodPost, front.URL+"/api/register_container?dry=1", strings.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", `tokens="{\"a\"\054 \"b\"}"`)
	resp, err := front.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, string(body), "Container registered successfully")
	assert.Equal(t, seenRequest{
		Method: http.MethodPost,
		Path:   "/api/register_container",
		Query:  "dry=1",
		Body:   payload,
		Cookie: `tokens="{\"a\"\054 \"b\"}"`,
	}, seen)
}

func TestProxyBackendDown(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	target := backend.URL
	backend.Close()

	b, err := New(target)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	b.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/get_task_status", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.JSONEq(t, `{"error":"backend unavailable"}`, rr.Body.String())
}

func TestNewRejectsRelativeTarget(t *testing.T) {
	_, err := New("/api")
	require.Error(t, err)
}

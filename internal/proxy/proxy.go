// Package proxy forwards /api calls to the execution backend unmodified.
package proxy

import (
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"

	"diamond-dashboard/server/internal/tracing"

	"github.com/gin-gonic/gin"
)

// Backend is a reverse proxy in front of the execution backend.
type Backend struct {
	target *url.URL
	rp     *httputil.ReverseProxy
}

// New builds a proxy for target. The request path is appended to the
// target's path, so /api/x reaches {target}/api/x.
func New(target string) (*Backend, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parse proxy target: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("proxy target must be absolute: %q", target)
	}

	rp := httputil.NewSingleHostReverseProxy(u)
	direct := rp.Director
	rp.Director = func(r *http.Request) {
		direct(r)
		r.Host = u.Host
	}
	rp.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("api proxy: backend request failed: method=%s path=%s request_id=%s err=%v",
			r.Method, r.URL.Path, r.Header.Get("X-Request-ID"), err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"backend unavailable"}`))
	}
	return &Backend{target: u, rp: rp}, nil
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.rp.ServeHTTP(w, r)
}

// Handler adapts the proxy to gin.
func (b *Backend) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartSpan(c.Request.Context(), "proxy.Backend")
		defer span.End()
		b.ServeHTTP(c.Writer, c.Request.WithContext(ctx))
	}
}

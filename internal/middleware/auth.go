package middleware

import (
	"context"
	"log"
	"net/http"

	"diamond-dashboard/server/internal/auth"
	"diamond-dashboard/server/internal/config"
	"diamond-dashboard/server/internal/guard"
	"diamond-dashboard/server/internal/metrics"
	"diamond-dashboard/server/internal/models"

	"github.com/gin-gonic/gin"
)

const sessionStatusKey = "isAuthenticated"

// SessionChecker answers whether a token bundle is authenticated.
type SessionChecker interface {
	IsAuthenticated(ctx context.Context, tokens string) (bool, error)
}

// DecisionRecorder persists guard decisions. Failures never affect the
// response.
type DecisionRecorder interface {
	RecordDecision(ctx context.Context, d models.GuardDecision) error
}

// errorPage is written directly rather than through the engine's HTML
// renderer: the guard runs ahead of any handler and must not depend on
// templates being loaded.
const errorPage = `<!doctype html><html><head><title>Diamond</title></head>` +
	`<body><h1>Something went wrong</h1><p>Please try again later.</p></body></html>`

// RouteGuard gates every request on the tokens cookie and the backend's
// session status. recorder may be nil.
func RouteGuard(cfg config.Config, oracle SessionChecker, recorder DecisionRecorder) gin.HandlerFunc {
	policy := guard.Policy{RedirectAuthenticatedProfile: cfg.ProfileRedirectWhenAuthenticated}
	targets := guard.Targets{BackendURL: cfg.BackendURL, SelfOrigin: cfg.SelfOrigin}
	secureCookies := !cfg.IsDevelopment()

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		switch guard.ClassifyPath(path) {
		case guard.ClassAPI, guard.ClassExempt:
			c.Next()
			return
		}

		reqID := RequestIDFrom(c)
		tokens, hasCookie := auth.ReadTokens(c.Request)

		var authed *bool
		isAuthenticated := false
		if policy.NeedsSession(path, hasCookie) {
			ok, err := oracle.IsAuthenticated(c.Request.Context(), tokens)
			if err != nil {
				log.Printf("route guard: session check failed: request_id=%s path=%s err=%v", reqID, path, err)
				metrics.ObserveGuardDecision("error")
				_ = c.Error(err)
				c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(errorPage))
				c.Abort()
				return
			}
			isAuthenticated = ok
			authed = &ok
			c.Set(sessionStatusKey, ok)
		}

		action := policy.Classify(path, hasCookie, isAuthenticated)
		metrics.ObserveGuardDecision(action.String())
		record(c, recorder, models.GuardDecision{
			RequestID:     reqID,
			Method:        c.Request.Method,
			Path:          path,
			Action:        action.String(),
			HasCookie:     hasCookie,
			Authenticated: authed,
		})

		switch action {
		case guard.Proceed:
			log.Printf("route guard: proceed: request_id=%s path=%s authenticated=%t", reqID, path, isAuthenticated)
			c.Next()
		case guard.RedirectBackendLogout:
			log.Printf("route guard: logout, clearing tokens: request_id=%s path=%s had_cookie=%t", reqID, path, hasCookie)
			auth.SignOut(c.Writer, c.Request, cfg.BackendURL, secureCookies)
			c.Abort()
		default:
			location := targets.URL(action)
			log.Printf("route guard: %s: request_id=%s path=%s location=%s", action, reqID, path, location)
			c.Redirect(http.StatusSeeOther, location)
			c.Abort()
		}
	}
}

func record(c *gin.Context, recorder DecisionRecorder, d models.GuardDecision) {
	if recorder == nil {
		return
	}
	if err := recorder.RecordDecision(c.Request.Context(), d); err != nil {
		log.Printf("route guard: record decision failed: request_id=%s err=%v", d.RequestID, err)
	}
}

// SessionStatus returns the authentication status the guard obtained for
// this request; known is false when the guard did not consult the backend.
func SessionStatus(c *gin.Context) (authenticated, known bool) {
	v, ok := c.Get(sessionStatusKey)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

package handlers

import (
	"embed"
	"html/template"
	"path/filepath"

	"diamond-dashboard/server/internal/config"
	"diamond-dashboard/server/internal/metrics"
	"diamond-dashboard/server/internal/middleware"
	"diamond-dashboard/server/internal/models"
	"diamond-dashboard/server/internal/proxy"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// RegisterAuthRoutes wires the local sign-in/sign-out entry points. The
// route guard normally answers /login and /logout before these run.
func RegisterAuthRoutes(r gin.IRoutes, cfg config.Config) {
	r.GET("/login", LoginHandler(cfg))
	r.GET("/signup", SignupHandler(cfg))
	r.GET("/logout", LogoutHandler(cfg))
}

// RegisterPageRoutes wires the server-rendered pages and the 404 page.
func RegisterPageRoutes(r *gin.Engine, oracle middleware.SessionChecker) {
	r.SetHTMLTemplate(pageTemplates)
	for _, page := range []struct {
		path string
		h    gin.HandlerFunc
	}{
		{"/", HomeHandler(oracle)},
		{"/sign-in", SignInHandler()},
		{"/session", SessionHandler(oracle)},
	} {
		// Uptime checks probe with HEAD.
		r.GET(page.path, page.h)
		r.HEAD(page.path, page.h)
	}
	r.NoRoute(NotFoundHandler())
}

// RegisterAdminRoutes wires the guard audit endpoints.
func RegisterAdminRoutes(rg *gin.RouterGroup, decisions *models.DecisionLog) {
	rg.GET("/guard-decisions", ListGuardDecisionsHandler(decisions))
	rg.GET("/guard-decisions/:id", GetGuardDecisionHandler(decisions))
}

// RegisterAPIProxy forwards every /api call to the backend.
func RegisterAPIProxy(r gin.IRoutes, backend *proxy.Backend) {
	h := backend.Handler()
	r.Any("/api", h)
	r.Any("/api/*path", h)
}

// Deps are the collaborators NewRouter wires into the engine.
type Deps struct {
	Oracle middleware.SessionChecker
	// Decisions may be nil or disabled; admin routes are then omitted.
	Decisions *models.DecisionLog
	Backend   *proxy.Backend
}

// NewRouter builds the dashboard engine: request ids, dev CORS, the route
// guard, then pages, auth entry points, admin routes and the /api proxy.
// Extra middlewares (logging, tracing) are applied first.
func NewRouter(cfg config.Config, deps Deps, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(extra...)
	r.Use(middleware.RequestID())
	r.Use(middleware.DevCORS(cfg))

	var recorder middleware.DecisionRecorder
	if deps.Decisions.Enabled() {
		recorder = deps.Decisions
	}
	r.Use(middleware.RouteGuard(cfg, deps.Oracle, recorder))

	healthz := func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) }
	r.GET("/healthz", healthz)
	r.HEAD("/healthz", healthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if cfg.StaticDir != "" {
		r.Static("/static", cfg.StaticDir)
		r.StaticFile("/favicon.ico", filepath.Join(cfg.StaticDir, "favicon.ico"))
	}

	RegisterPageRoutes(r, deps.Oracle)
	RegisterAuthRoutes(r, cfg)
	if deps.Decisions.Enabled() {
		RegisterAdminRoutes(r.Group("/admin"), deps.Decisions)
	}
	if deps.Backend != nil {
		RegisterAPIProxy(r, deps.Backend)
	}
	return r
}

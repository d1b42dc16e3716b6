package handlers

import (
	"log"
	"net/http"

	"diamond-dashboard/server/internal/middleware"
	"diamond-dashboard/server/internal/session"
	"diamond-dashboard/server/internal/tracing"

	"github.com/gin-gonic/gin"
)

type pageData struct {
	Title           string
	Authenticated   bool
	Identity        session.Identity
	ResourceServers []string
	StatusCode      int
	Message         string
}

type sessionResponse struct {
	IsAuthenticated bool             `json:"is_authenticated"`
	Identity        session.Identity `json:"identity"`
	ResourceServers []string         `json:"resource_servers"`
}

// HomeHandler renders the dashboard landing page.
func HomeHandler(oracle middleware.SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartSpan(c.Request.Context(), "handlers.HomeHandler")
		defer span.End()

		authed, err := sessionStatus(c, oracle)
		if err != nil {
			log.Printf("HomeHandler session check failed: request_id=%s err=%v", middleware.RequestIDFrom(c), err)
			writeErrorPage(c, http.StatusInternalServerError, "Something went wrong. Please try again later.")
			return
		}

		data := pageData{Title: "Dashboard", Authenticated: authed}
		if authed {
			data.Identity = session.IdentityFromRequest(c.Request)
			data.ResourceServers = session.ResourceServersFromRequest(c.Request)
		}
		c.HTML(http.StatusOK, "home.html", data)
	}
}

// SignInHandler renders the unauthenticated landing page. It never calls
// the backend.
func SignInHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "sign_in.html", pageData{Title: "Sign In"})
	}
}

// SessionHandler exposes the session status and display identity to
// client-side code.
func SessionHandler(oracle middleware.SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authed, err := sessionStatus(c, oracle)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		resp := sessionResponse{IsAuthenticated: authed, ResourceServers: []string{}}
		if authed {
			resp.Identity = session.IdentityFromRequest(c.Request)
			if rs := session.ResourceServersFromRequest(c.Request); rs != nil {
				resp.ResourceServers = rs
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}

func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		writeErrorPage(c, http.StatusNotFound, "This page could not be found.")
	}
}

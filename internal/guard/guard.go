// Package guard holds the route authentication decision procedure. It is
// free of HTTP plumbing: the middleware package applies the actions.
package guard

import "strings"

// Action is the outcome of evaluating a request against the guard.
type Action int

const (
	Proceed Action = iota
	RedirectSignIn
	RedirectOrigin
	RedirectBackendLogin
	// RedirectBackendLogout also clears the tokens cookie.
	RedirectBackendLogout
)

func (a Action) String() string {
	switch a {
	case Proceed:
		return "proceed"
	case RedirectSignIn:
		return "redirect_sign_in"
	case RedirectOrigin:
		return "redirect_origin"
	case RedirectBackendLogin:
		return "redirect_backend_login"
	case RedirectBackendLogout:
		return "redirect_backend_logout"
	default:
		return "unknown"
	}
}

// Class is the route classification of a request path.
type Class int

const (
	ClassProtected Class = iota
	ClassExempt
	ClassAPI
	ClassLogin
	ClassLogout
	ClassProfile
)

const (
	SignInPath = "/sign-in"
	loginPath  = "/login"
	logoutPath = "/logout"
)

// SessionPath answers its own status query, so signed-out clients get
// is_authenticated=false instead of a redirect.
const SessionPath = "/session"

// exemptPrefixes bypass the guard in addition to /api.
var exemptPrefixes = []string{"/static/"}

var exemptPaths = map[string]bool{
	SignInPath:     true,
	SessionPath:    true,
	"/favicon.ico": true,
	"/healthz":     true,
	"/metrics":     true,
}

// ClassifyPath maps a request path onto its route class.
func ClassifyPath(path string) Class {
	if path == "" {
		path = "/"
	}
	if path == "/api" || strings.HasPrefix(path, "/api/") {
		return ClassAPI
	}
	if exemptPaths[path] {
		return ClassExempt
	}
	for _, p := range exemptPrefixes {
		if strings.HasPrefix(path, p) {
			return ClassExempt
		}
	}
	switch {
	case strings.HasSuffix(path, loginPath):
		return ClassLogin
	case strings.HasSuffix(path, logoutPath):
		return ClassLogout
	case strings.HasPrefix(path, "/profile"):
		return ClassProfile
	}
	return ClassProtected
}

// Policy holds the tunable parts of the decision procedure.
type Policy struct {
	// RedirectAuthenticatedProfile sends authenticated visitors of /profile
	// back to the site origin.
	RedirectAuthenticatedProfile bool
}

// DefaultPolicy redirects authenticated /profile visits to the origin.
var DefaultPolicy = Policy{RedirectAuthenticatedProfile: true}

// NeedsSession reports whether Classify depends on the session status for
// this request, i.e. whether the oracle has to be consulted.
func (p Policy) NeedsSession(path string, hasCookie bool) bool {
	switch ClassifyPath(path) {
	case ClassAPI, ClassExempt, ClassLogout:
		return false
	case ClassLogin:
		return hasCookie
	}
	return true
}

// Classify decides what to do with a request. isAuthenticated is ignored
// when NeedsSession is false for the same inputs.
func (p Policy) Classify(path string, hasCookie, isAuthenticated bool) Action {
	class := ClassifyPath(path)
	switch class {
	case ClassAPI, ClassExempt:
		return Proceed
	case ClassLogout:
		return RedirectBackendLogout
	case ClassLogin:
		if !hasCookie {
			return RedirectBackendLogin
		}
	}

	if isAuthenticated {
		if class == ClassProfile && p.RedirectAuthenticatedProfile {
			return RedirectOrigin
		}
		return Proceed
	}
	if class != ClassLogin {
		return RedirectSignIn
	}
	return Proceed
}

// NeedsSession is DefaultPolicy.NeedsSession.
func NeedsSession(path string, hasCookie bool) bool {
	return DefaultPolicy.NeedsSession(path, hasCookie)
}

// Classify is DefaultPolicy.Classify.
func Classify(path string, hasCookie, isAuthenticated bool) Action {
	return DefaultPolicy.Classify(path, hasCookie, isAuthenticated)
}

// Targets resolves redirect actions into absolute URLs.
type Targets struct {
	BackendURL string
	SelfOrigin string
}

// URL returns the redirect location for a, or "" for Proceed.
func (t Targets) URL(a Action) string {
	switch a {
	case RedirectSignIn:
		return t.SelfOrigin + SignInPath
	case RedirectOrigin:
		return t.SelfOrigin + "/"
	case RedirectBackendLogin:
		return t.BackendURL + loginPath
	case RedirectBackendLogout:
		return t.BackendURL + logoutPath
	}
	return ""
}

package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPath(t *testing.T) {
	tests := []struct {
		path string
		want Class
	}{
		{"/api", ClassAPI},
		{"/api/register_container", ClassAPI},
		{"/api/is_authenticated", ClassAPI},
		{"/apiary", ClassProtected},
		{"/static/app.css", ClassExempt},
		{"/favicon.ico", ClassExempt},
		{"/sign-in", ClassExempt},
		{"/session", ClassExempt},
		{"/healthz", ClassExempt},
		{"/metrics", ClassExempt},
		{"/login", ClassLogin},
		{"/auth/login", ClassLogin},
		{"/logout", ClassLogout},
		{"/profile", ClassProfile},
		{"/profile/edit", ClassProfile},
		{"/", ClassProtected},
		{"", ClassProtected},
		{"/job-composer", ClassProtected},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPath(tt.path))
		})
	}
}

func TestExemptPathsNeverNeedSession(t *testing.T) {
	for _, path := range []string{"/api/get_task_status", "/api", "/static/logo.svg", "/favicon.ico", "/sign-in", "/session"} {
		for _, hasCookie := range []bool{false, true} {
			assert.False(t, NeedsSession(path, hasCookie), path)
			assert.Equal(t, Proceed, Classify(path, hasCookie, false), path)
		}
	}
}

func TestLoginWithoutCookieRedirectsToBackend(t *testing.T) {
	assert.False(t, NeedsSession("/login", false))
	assert.Equal(t, RedirectBackendLogin, Classify("/login", false, false))
}

func TestLoginWithCookie(t *testing.T) {
	assert.True(t, NeedsSession("/login", true))
	// A stale cookie on the login path falls through to the login handler.
	assert.Equal(t, Proceed, Classify("/login", true, false))
	assert.Equal(t, Proceed, Classify("/login", true, true))
}

func TestLogoutRegardlessOfCookie(t *testing.T) {
	for _, hasCookie := range []bool{false, true} {
		for _, authed := range []bool{false, true} {
			assert.False(t, NeedsSession("/logout", hasCookie))
			assert.Equal(t, RedirectBackendLogout, Classify("/logout", hasCookie, authed))
		}
	}
}

func TestProfile(t *testing.T) {
	assert.True(t, NeedsSession("/profile", true))
	assert.Equal(t, RedirectOrigin, Classify("/profile", true, true))
	assert.Equal(t, RedirectSignIn, Classify("/profile", true, false))
	assert.Equal(t, RedirectSignIn, Classify("/profile", false, false))

	lenient := Policy{RedirectAuthenticatedProfile: false}
	assert.Equal(t, Proceed, lenient.Classify("/profile", true, true))
	assert.Equal(t, RedirectSignIn, lenient.Classify("/profile", true, false))
}

func TestProtected(t *testing.T) {
	assert.True(t, NeedsSession("/", false))
	assert.True(t, NeedsSession("/task-manager", true))
	assert.Equal(t, Proceed, Classify("/task-manager", true, true))
	assert.Equal(t, RedirectSignIn, Classify("/task-manager", true, false))
	assert.Equal(t, RedirectSignIn, Classify("/", false, false))
}

func TestTargetsURL(t *testing.T) {
	targets := Targets{BackendURL: "http://flask:5328", SelfOrigin: "http://localhost:3000"}
	assert.Equal(t, "", targets.URL(Proceed))
	assert.Equal(t, "http://localhost:3000/sign-in", targets.URL(RedirectSignIn))
	assert.Equal(t, "http://localhost:3000/", targets.URL(RedirectOrigin))
	assert.Equal(t, "http://flask:5328/login", targets.URL(RedirectBackendLogin))
	assert.Equal(t, "http://flask:5328/logout", targets.URL(RedirectBackendLogout))
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "proceed", Proceed.String())
	assert.Equal(t, "redirect_backend_logout", RedirectBackendLogout.String())
	assert.Equal(t, "unknown", Action(42).String())
}

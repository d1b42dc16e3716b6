package auth

import (
	"net/http"
	"strings"
)

// ReadTokens returns the raw tokens cookie value when present and non-empty.
func ReadTokens(r *http.Request) (string, bool) {
	v, ok := RawCookie(r, TokensCookieName)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// RawCookie returns the first cookie named name exactly as sent.
//
// The Cookie header is scanned directly: net/http drops values containing
// backslashes and double quotes, which the backend's quoted cookies carry.
func RawCookie(r *http.Request, name string) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, line := range r.Header.Values("Cookie") {
		for _, part := range strings.Split(line, ";") {
			k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
			if ok && strings.TrimSpace(k) == name {
				return v, true
			}
		}
	}
	return "", false
}

// ClearTokens expires the tokens cookie so the next guard evaluation sees
// an unauthenticated request without waiting for the backend.
func ClearTokens(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokensCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SignOut clears the local session representation and sends the browser to
// the backend logout flow.
func SignOut(w http.ResponseWriter, r *http.Request, backendURL string, secure bool) {
	ClearTokens(w, secure)
	http.Redirect(w, r, backendURL+"/logout", http.StatusSeeOther)
}

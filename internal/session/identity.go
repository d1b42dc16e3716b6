// Package session reads the display-only cookies the backend sets after its
// profile flow. Nothing here takes part in access decisions.
package session

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"diamond-dashboard/server/internal/auth"
)

// Display cookie names written by the backend profile endpoint.
const (
	PrimaryIdentityCookie = "primary_identity"
	NameCookie            = "name"
	EmailCookie           = "email"
	InstitutionCookie     = "institution"
)

type Identity struct {
	PrimaryIdentity string `json:"primary_identity"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Institution     string `json:"institution"`
}

// Known reports whether the backend has completed the profile flow.
func (i Identity) Known() bool {
	return i.PrimaryIdentity != ""
}

// IdentityFromRequest collects the display cookies; missing ones are empty.
func IdentityFromRequest(r *http.Request) Identity {
	return Identity{
		PrimaryIdentity: cookieValue(r, PrimaryIdentityCookie),
		Name:            cookieValue(r, NameCookie),
		Email:           cookieValue(r, EmailCookie),
		Institution:     cookieValue(r, InstitutionCookie),
	}
}

func cookieValue(r *http.Request, name string) string {
	v, ok := auth.RawCookie(r, name)
	if !ok {
		return ""
	}
	return decodeDisplayValue(v)
}

// decodeDisplayValue undoes the quoting the backend applies to values with
// spaces ("Ada Lovelace" or "Ada\040Lovelace") and percent-encoding.
func decodeDisplayValue(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		if unq, err := strconv.Unquote(v); err == nil {
			v = unq
		} else {
			v = v[1 : len(v)-1]
		}
	}
	if dec, err := url.PathUnescape(v); err == nil {
		v = dec
	}
	return strings.TrimSpace(v)
}

type tokenRecord struct {
	ResourceServer string `json:"resource_server"`
	Scope          string `json:"scope"`
}

// ResourceServers lists the resource servers named in a token bundle, for
// display. A malformed bundle is logged and treated as no tokens.
func ResourceServers(tokens string) []string {
	tokens = strings.TrimSpace(tokens)
	if tokens == "" {
		return nil
	}
	raw := unwrapBundle(tokens)

	var records map[string]tokenRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		log.Printf("session: tokens cookie is not a token bundle; ignoring: len=%d err=%v", len(tokens), err)
		return nil
	}

	var out []string
	for key, rec := range records {
		name := rec.ResourceServer
		if name == "" {
			name = key
		}
		if name != "" && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// unwrapBundle strips cookie quoting and the octal comma escapes the
// backend's cookie serializer emits.
func unwrapBundle(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		v = v[1 : len(v)-1]
		v = strings.ReplaceAll(v, `\054`, ",")
		v = strings.ReplaceAll(v, `\"`, `"`)
	}
	return v
}

// ResourceServersFromRequest reads the tokens cookie and summarizes it.
func ResourceServersFromRequest(r *http.Request) []string {
	tokens, ok := auth.ReadTokens(r)
	if !ok {
		return nil
	}
	return ResourceServers(tokens)
}

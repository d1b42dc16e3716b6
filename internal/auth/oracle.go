package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"diamond-dashboard/server/internal/config"
	"diamond-dashboard/server/internal/metrics"
	"diamond-dashboard/server/internal/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// maxStatusBody bounds how much of the status response is decoded.
const maxStatusBody = 64 << 10

// StatusError is returned when the backend answers the session status
// request with a non-2xx status other than 401.
type StatusError struct {
	StatusCode int
	StatusText string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status fetch failed: %d %s", e.StatusCode, e.StatusText)
}

type sessionStatus struct {
	IsAuthenticated bool `json:"is_authenticated"`
}

// SessionOracle asks the backend whether a token bundle belongs to an
// authenticated session. Every call is a fresh round trip.
type SessionOracle struct {
	endpoint string
	client   *http.Client
}

func NewSessionOracle(cfg config.Config) *SessionOracle {
	return NewSessionOracleWithClient(cfg, &http.Client{Timeout: cfg.OracleTimeout})
}

func NewSessionOracleWithClient(cfg config.Config, client *http.Client) *SessionOracle {
	if client == nil {
		client = http.DefaultClient
	}
	return &SessionOracle{
		endpoint: cfg.BackendURL + cfg.SessionStatusPath,
		client:   client,
	}
}

// IsAuthenticated reports the backend's view of the session identified by
// tokens. An empty tokens value is sent without a cookie; a 401 is a normal
// negative answer.
func (o *SessionOracle) IsAuthenticated(ctx context.Context, tokens string) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "auth.SessionOracle.IsAuthenticated")
	defer span.End()
	span.SetAttributes(attribute.Bool("session.has_tokens", tokens != ""))

	ok, err := o.check(ctx, tokens)
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "session status")
		metrics.ObserveSessionCheck(metrics.OutcomeError)
	case ok:
		metrics.ObserveSessionCheck(metrics.OutcomeAuthenticated)
	default:
		metrics.ObserveSessionCheck(metrics.OutcomeUnauthenticated)
	}
	return ok, err
}

func (o *SessionOracle) check(ctx context.Context, tokens string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build session status request: %w", err)
	}
	if tokens != "" {
		// Forwarded verbatim; http.Request.AddCookie would re-quote the value.
		req.Header.Set("Cookie", TokensCookieName+"="+tokens)
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := o.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("session status request: %w", err)
	}
	defer resp.Body.Close()
	metrics.ObserveSessionLatency(time.Since(start))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxStatusBody))
		return false, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxStatusBody))
		return false, &StatusError{StatusCode: resp.StatusCode, StatusText: statusText(resp)}
	}

	var status sessionStatus
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxStatusBody)).Decode(&status); err != nil {
		return false, fmt.Errorf("decode session status: %w", err)
	}
	return status.IsAuthenticated, nil
}

// statusText strips the numeric prefix from resp.Status ("500 Internal Server Error").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

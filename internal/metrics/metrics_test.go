package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveGuardDecision(t *testing.T) {
	before := testutil.ToFloat64(guardDecisions.WithLabelValues("redirect_sign_in"))
	ObserveGuardDecision("redirect_sign_in")
	ObserveGuardDecision("redirect_sign_in")
	assert.Equal(t, before+2, testutil.ToFloat64(guardDecisions.WithLabelValues("redirect_sign_in")))
}

func TestObserveSessionCheck(t *testing.T) {
	before := testutil.ToFloat64(sessionChecks.WithLabelValues(OutcomeError))
	ObserveSessionCheck(OutcomeError)
	assert.Equal(t, before+1, testutil.ToFloat64(sessionChecks.WithLabelValues(OutcomeError)))
}

func TestHandlerExposesCounters(t *testing.T) {
	ObserveGuardDecision("proceed")

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `diamond_route_guard_decisions_total{action="proceed"}`)
}

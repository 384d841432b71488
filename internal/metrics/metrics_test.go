package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveOutcome(t *testing.T) {
	m := New()
	m.ObserveOutcome(OutcomeVerifiedAuthentic)
	m.ObserveOutcome(OutcomeVerifiedAuthentic)
	m.ObserveOutcome(OutcomeEngineError)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.verifications.WithLabelValues(OutcomeVerifiedAuthentic)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues(OutcomeEngineError)))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveRenderFailure()
	m.ObserveEngine(1500 * time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bootcheck_render_failures_total 1")
	assert.Contains(t, rec.Body.String(), "bootcheck_engine_duration_seconds_count 1")
}

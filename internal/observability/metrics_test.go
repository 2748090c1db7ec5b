package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordRegistration(OutcomeSuccess)
	m.RecordRegistration(OutcomeSuccess)
	m.RecordRegistration(OutcomeDuplicateEmail)
	m.RecordLogin(OutcomeIncorrectPass)
	m.RecordTask("notification", OutcomeRetried)

	assert.InDelta(t, 2, testutil.ToFloat64(m.registrations.WithLabelValues(OutcomeSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.registrations.WithLabelValues(OutcomeDuplicateEmail)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.logins.WithLabelValues(OutcomeIncorrectPass)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.tasks.WithLabelValues("notification", OutcomeRetried)), 0)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRegistration(OutcomeSuccess)
		m.RecordLogin(OutcomeSuccess)
		m.RecordTask("notification", OutcomeSuccess)
	})
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.RecordLogin(OutcomeSuccess)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `auth_logins_total{outcome="success"} 1`))
}

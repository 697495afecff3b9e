package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.IncPages("bible", 3)
	r.IncPages("bible", 2)
	r.IncRunOutcome("bible", OutcomeSuccess)
	r.ObserveRunDuration("bible", 20*time.Millisecond)

	assert.InDelta(t, 5, testutil.ToFloat64(r.pages.WithLabelValues("bible")), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(r.runOutcome.WithLabelValues("bible", "success")), 0.001)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "txsite_pages_written_total")
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var r *PrometheusRecorder
	assert.NotPanics(t, func() {
		r.IncPages("obs", 1)
		r.IncRunOutcome("obs", OutcomeFailed)
		r.ObserveRunDuration("obs", time.Second)
	})
}

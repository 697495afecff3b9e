package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	pages       *prom.CounterVec
	runDuration *prom.HistogramVec
	runOutcome  *prom.CounterVec
}

// NewPrometheusRecorder creates the collectors and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		pages: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "txsite",
			Name:      "pages_written_total",
			Help:      "Templated pages written, by content kind",
		}, []string{"kind"}),
		runDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "txsite",
			Name:      "template_run_duration_seconds",
			Help:      "Duration of a whole package templating run",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "txsite",
			Name:      "template_runs_total",
			Help:      "Templating runs by outcome",
		}, []string{"kind", "outcome"}),
	}
	reg.MustRegister(pr.pages, pr.runDuration, pr.runOutcome)
	return pr
}

func (p *PrometheusRecorder) IncPages(kind string, n int) {
	if p == nil {
		return
	}
	p.pages.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) ObserveRunDuration(kind string, d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(kind string, outcome Outcome) {
	if p == nil {
		return
	}
	p.runOutcome.WithLabelValues(kind, string(outcome)).Inc()
}

// HTTPHandler serves the metrics of reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

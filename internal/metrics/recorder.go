package metrics

import "time"

// Outcome labels a finished templating run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// Recorder receives templating observations. Implementations may forward to
// Prometheus or drop them.
type Recorder interface {
	IncPages(kind string, n int)
	ObserveRunDuration(kind string, d time.Duration)
	IncRunOutcome(kind string, outcome Outcome)
}

// NoopRecorder is the default when metrics are not configured.
type NoopRecorder struct{}

func (NoopRecorder) IncPages(string, int)                    {}
func (NoopRecorder) ObserveRunDuration(string, time.Duration) {}
func (NoopRecorder) IncRunOutcome(string, Outcome)           {}

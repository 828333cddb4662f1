package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder exports generation counters through a Prometheus
// registry supplied by the caller.
type PrometheusRecorder struct {
	events        prometheus.Counter
	steps         prometheus.Counter
	emitted       *prometheus.CounterVec
	runs          prometheus.Counter
	runSeconds    prometheus.Counter
	stepsPerEvent prometheus.Histogram
}

// NewPrometheusRecorder builds the collectors and registers them with reg.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		events: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nucascade",
			Name:      "events_total",
			Help:      "Generated events.",
		}),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nucascade",
			Name:      "cascade_steps_total",
			Help:      "De-excitation steps across all events.",
		}),
		emitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nucascade",
			Name:      "emitted_particles_total",
			Help:      "Cascade emissions by kind.",
		}, []string{"kind"}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nucascade",
			Name:      "runs_total",
			Help:      "Completed generation runs.",
		}),
		runSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nucascade",
			Name:      "run_seconds_total",
			Help:      "Wall-clock time spent generating.",
		}),
		stepsPerEvent: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nucascade",
			Name:      "cascade_steps_per_event",
			Help:      "De-excitation steps per event.",
			Buckets:   prometheus.LinearBuckets(0, 1, 10),
		}),
	}
	collectors := []prometheus.Collector{
		r.events, r.steps, r.emitted, r.runs, r.runSeconds, r.stepsPerEvent,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering generation collectors: %w", err)
		}
	}
	return r, nil
}

// RecordEvent tallies one generated event and its cascade composition.
func (r *PrometheusRecorder) RecordEvent(steps, gammas, fragments int) {
	r.events.Inc()
	r.steps.Add(float64(steps))
	r.emitted.WithLabelValues("gamma").Add(float64(gammas))
	r.emitted.WithLabelValues("fragment").Add(float64(fragments))
	r.stepsPerEvent.Observe(float64(steps))
}

// RecordRun tallies one completed generation run.
func (r *PrometheusRecorder) RecordRun(_ int, duration time.Duration) {
	r.runs.Inc()
	r.runSeconds.Add(duration.Seconds())
}

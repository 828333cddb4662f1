package metrics

import (
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var expvarSeq uint64

// ExpvarRecorder publishes aggregate generation counters via expvar, for
// deployments that prefer process-local metrics without external scrape
// infrastructure.
type ExpvarRecorder struct {
	name string

	mu        sync.Mutex
	events    int64
	steps     int64
	gammas    int64
	fragments int64
	runs      int64
	runMS     float64
}

// ExpvarSnapshot captures a read-only view of the recorded counters.
type ExpvarSnapshot struct {
	Events     int64     `json:"events_total"`
	Steps      int64     `json:"cascade_steps_total"`
	Gammas     int64     `json:"gammas_total"`
	Fragments  int64     `json:"fragments_total"`
	Runs       int64     `json:"runs_total"`
	RunMS      float64   `json:"run_ms_total"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NewExpvarRecorder constructs an expvar-backed recorder and publishes it
// under the supplied name. When name is empty, a unique identifier is
// generated.
func NewExpvarRecorder(name string) *ExpvarRecorder {
	if name == "" {
		id := atomic.AddUint64(&expvarSeq, 1)
		name = fmt.Sprintf("nucascade_metrics_%d", id)
	}
	rec := &ExpvarRecorder{name: name}
	expvar.Publish(name, expvar.Func(func() any {
		return rec.Snapshot()
	}))
	return rec
}

// Name returns the expvar export name associated with the recorder.
func (r *ExpvarRecorder) Name() string { return r.name }

// Snapshot returns an immutable copy of the aggregated counters.
func (r *ExpvarRecorder) Snapshot() ExpvarSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ExpvarSnapshot{
		Events:     r.events,
		Steps:      r.steps,
		Gammas:     r.gammas,
		Fragments:  r.fragments,
		Runs:       r.runs,
		RunMS:      r.runMS,
		RecordedAt: time.Now().UTC(),
	}
}

// RecordEvent tallies one generated event and its cascade composition.
func (r *ExpvarRecorder) RecordEvent(steps, gammas, fragments int) {
	r.mu.Lock()
	r.events++
	r.steps += int64(steps)
	r.gammas += int64(gammas)
	r.fragments += int64(fragments)
	r.mu.Unlock()
}

// RecordRun tallies one completed generation run.
func (r *ExpvarRecorder) RecordRun(_ int, duration time.Duration) {
	r.mu.Lock()
	r.runs++
	r.runMS += float64(duration) / float64(time.Millisecond)
	r.mu.Unlock()
}

// Package metrics records event-generation counters: events, cascade steps,
// emitted particles, and completed runs.
package metrics

import "time"

// Recorder aggregates generation statistics. Implementations must be safe
// for concurrent use by parallel generation shards.
type Recorder interface {
	// RecordEvent tallies one generated event and its cascade composition.
	RecordEvent(steps, gammas, fragments int)
	// RecordRun tallies one completed generation run.
	RecordRun(events int, duration time.Duration)
}

// Nop discards every observation.
type Nop struct{}

// RecordEvent discards the observation.
func (Nop) RecordEvent(int, int, int) {}

// RecordRun discards the observation.
func (Nop) RecordRun(int, time.Duration) {}

// Tee fans every observation out to all the given recorders.
func Tee(recs ...Recorder) Recorder {
	switch len(recs) {
	case 0:
		return Nop{}
	case 1:
		return recs[0]
	default:
		return multi(recs)
	}
}

type multi []Recorder

func (m multi) RecordEvent(steps, gammas, fragments int) {
	for _, r := range m {
		r.RecordEvent(steps, gammas, fragments)
	}
}

func (m multi) RecordRun(events int, duration time.Duration) {
	for _, r := range m {
		r.RecordRun(events, duration)
	}
}

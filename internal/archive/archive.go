// Package archive defines the run catalog: one record per generation run,
// persisted so that emitted event files stay traceable to the seed and
// configuration that produced them.
package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nucascade/pkg/nucleus"
)

// ErrNotFound indicates that the catalog holds no run with the requested id.
var ErrNotFound = errors.New("run not in archive")

// Run records one generation run. The id pairs the record with the run's
// objects in the sink (`runs/<id>/...`).
type Run struct {
	ID            string          `json:"id"`
	Seed          uint64          `json:"seed"`
	Shards        int             `json:"shards"`
	Target        nucleus.Nuclide `json:"target"`
	ProjectilePDG int             `json:"projectile_pdg"`
	Source        string          `json:"source"`
	EnergyMin     float64         `json:"energy_min_mev"`
	EnergyMax     float64         `json:"energy_max_mev"`
	Events        int             `json:"events"`
	Steps         int64           `json:"cascade_steps"`
	Gammas        int64           `json:"gammas"`
	Fragments     int64           `json:"fragments"`
	EventsKey     string          `json:"events_key,omitempty"`
	StartedAt     time.Time       `json:"started_at"`
	FinishedAt    time.Time       `json:"finished_at"`
}

// Duration returns the wall-clock span of the run.
func (r Run) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

// Validate reports whether the record is storable.
func (r Run) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("run id required")
	}
	if r.Events < 0 {
		return fmt.Errorf("run %s: negative event count", r.ID)
	}
	return nil
}

// Store is the run catalog interface. Put upserts by id so a run can be
// registered at start and completed at finish.
type Store interface {
	Put(ctx context.Context, run Run) error
	// Get returns the run with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (Run, error)
	// List returns all runs ordered by start time, then id.
	List(ctx context.Context) ([]Run, error)
	Close() error
}

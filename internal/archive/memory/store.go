// Package memory implements the run catalog in process memory. It backs
// tests directly and serves as the working set for the persistent stores.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"nucascade/internal/archive"
)

// Store keeps runs in a mutex-guarded map.
type Store struct {
	mu   sync.RWMutex
	runs map[string]archive.Run
}

var _ archive.Store = (*Store)(nil)

// New returns an empty in-memory run catalog.
func New() *Store { return &Store{runs: make(map[string]archive.Run)} }

// Put upserts the run record.
func (s *Store) Put(_ context.Context, run archive.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

// Get returns the run with the given id, or archive.ErrNotFound.
func (s *Store) Get(_ context.Context, id string) (archive.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return archive.Run{}, fmt.Errorf("run %s: %w", id, archive.ErrNotFound)
	}
	return run, nil
}

// List returns all runs ordered by start time, then id.
func (s *Store) List(_ context.Context) ([]archive.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(), nil
}

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

// Export returns a sorted copy of all records for snapshotting.
func (s *Store) Export() []archive.Run {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted()
}

// Import replaces the catalog contents, dropping invalid records silently.
func (s *Store) Import(runs []archive.Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = make(map[string]archive.Run, len(runs))
	for _, run := range runs {
		if run.Validate() == nil {
			s.runs[run.ID] = run
		}
	}
}

func (s *Store) sorted() []archive.Run {
	out := make([]archive.Run, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Package structure defines the nuclear structure database interface and the
// validation rules applied to decay schemes before event generation.
package structure

import (
	"context"
	"errors"

	"nucascade/pkg/nucleus"
)

// ErrNotFound indicates that the database holds no data for the requested
// nuclide.
var ErrNotFound = errors.New("nuclide not in structure database")

// Transition is one tabulated allowed transition populating a level of the
// reaction product, with its Fermi and Gamow-Teller strengths.
type Transition struct {
	// Energy is the product excitation energy in MeV.
	Energy float64 `json:"energy" yaml:"energy"`
	// BF is the Fermi strength B(F).
	BF float64 `json:"bf" yaml:"bf"`
	// BGT is the Gamow-Teller strength B(GT).
	BGT float64 `json:"bgt" yaml:"bgt"`
}

// Database serves tabulated decay schemes and reaction transition strengths.
// Implementations are safe for concurrent readers.
type Database interface {
	// Scheme returns the decay scheme for the nuclide, or ErrNotFound.
	Scheme(ctx context.Context, n nucleus.Nuclide) (*nucleus.DecayScheme, error)
	// Nuclides lists the nuclides with tabulated decay schemes.
	Nuclides(ctx context.Context) ([]nucleus.Nuclide, error)
	// Transitions returns the allowed transition strengths for reactions on
	// the given target nuclide, or ErrNotFound.
	Transitions(ctx context.Context, target nucleus.Nuclide) ([]Transition, error)
	// Targets lists the reaction targets with tabulated transitions.
	Targets(ctx context.Context) ([]nucleus.Nuclide, error)
}

// Package cascade simulates the de-excitation of a compound nucleus through
// successive gamma and fragment emissions. Decay pathways are represented by
// a closed set of exit channel variants sampled proportionally to their
// partial widths.
package cascade

import "nucascade/pkg/nucleus"

// ContinuumLevel marks a state in the unresolved continuum rather than on a
// tabulated discrete level.
const ContinuumLevel = -1

// State identifies one point of a decay chain.
type State struct {
	// Nuclide is the nucleus currently holding the excitation energy.
	Nuclide nucleus.Nuclide
	// Ex is the excitation energy in MeV.
	Ex float64
	// TwoJ is twice the total spin of the state.
	TwoJ int
	// Parity is the parity of the state.
	Parity nucleus.Parity
	// LevelIndex is the index of the occupied level in the decay scheme of
	// Nuclide, or ContinuumLevel for an unresolved state.
	LevelIndex int
}

// OnLevel reports whether the state occupies a tabulated discrete level.
func (s State) OnLevel() bool { return s.LevelIndex >= 0 }

package nucleus

import (
	"fmt"
	"math"
)

// GammaBranch is a tabulated gamma transition from one discrete level to a
// lower one in the same scheme.
type GammaBranch struct {
	// Target is the index of the final level within the owning scheme.
	Target int `json:"target"`
	// Probability is the branching ratio for this transition.
	Probability float64 `json:"probability"`
}

// Level is a discrete nuclear level with its tabulated gamma branches.
type Level struct {
	// Energy is the excitation energy in MeV.
	Energy float64 `json:"energy"`
	// TwoJ is twice the level spin.
	TwoJ int `json:"two_j"`
	// Parity is the level parity.
	Parity Parity `json:"parity"`
	// Branches lists the outgoing gamma transitions. An empty list marks a
	// cascade endpoint (the ground state or a tabulated isomer).
	Branches []GammaBranch `json:"branches,omitempty"`
}

// DecayScheme holds the tabulated discrete levels of one nuclide, ordered by
// increasing excitation energy. Levels are addressed by index; callers hold
// (scheme, index) pairs rather than copies of Level values.
type DecayScheme struct {
	// Nuclide identifies the nucleus this scheme describes.
	Nuclide Nuclide `json:"nuclide"`
	// Levels lists the tabulated levels in ascending energy order.
	Levels []Level `json:"levels"`
}

// LevelCount returns the number of tabulated levels.
func (ds *DecayScheme) LevelCount() int { return len(ds.Levels) }

// Level returns the level at the given index. It panics when the index is out
// of range, which indicates a programming error in the caller.
func (ds *DecayScheme) Level(i int) Level {
	if i < 0 || i >= len(ds.Levels) {
		panic(fmt.Sprintf("level index %d out of range for %s with %d levels",
			i, ds.Nuclide, len(ds.Levels)))
	}
	return ds.Levels[i]
}

// MaxLevelEnergy returns the energy of the highest tabulated level, or zero
// for an empty scheme.
func (ds *DecayScheme) MaxLevelEnergy() float64 {
	if len(ds.Levels) == 0 {
		return 0
	}
	return ds.Levels[len(ds.Levels)-1].Energy
}

// NearestLevel returns the index of the tabulated level closest in energy to
// ex. It returns -1 for an empty scheme.
func (ds *DecayScheme) NearestLevel(ex float64) int {
	best := -1
	bestDiff := math.Inf(1)
	for i, lv := range ds.Levels {
		diff := math.Abs(lv.Energy - ex)
		if diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	return best
}

// MatchLevel returns the index of the tabulated level whose energy lies
// within tol of ex, or -1 when no level matches.
func (ds *DecayScheme) MatchLevel(ex, tol float64) int {
	i := ds.NearestLevel(ex)
	if i < 0 || math.Abs(ds.Levels[i].Energy-ex) > tol {
		return -1
	}
	return i
}

// Clone returns a deep copy of the scheme.
func (ds *DecayScheme) Clone() *DecayScheme {
	out := &DecayScheme{Nuclide: ds.Nuclide, Levels: make([]Level, len(ds.Levels))}
	for i, lv := range ds.Levels {
		cp := lv
		if lv.Branches != nil {
			cp.Branches = make([]GammaBranch, len(lv.Branches))
			copy(cp.Branches, lv.Branches)
		}
		out.Levels[i] = cp
	}
	return out
}

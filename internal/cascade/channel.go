package cascade

import (
	"nucascade/internal/rng"
	"nucascade/pkg/nucleus"
)

// ExitChannel is one decay pathway open to an excited nucleus. The variant
// set is closed: gamma or fragment emission, each to a discrete level or
// into the continuum. Decay is the single polymorphic operation; callers
// select a channel by width and never branch on the concrete variant.
type ExitChannel interface {
	// Width returns the partial decay width in MeV. It is never negative.
	Width() float64
	// Continuum reports whether the channel leads into the unresolved
	// continuum of the final nucleus.
	Continuum() bool
	// EmitsFragment reports whether the channel emits a nuclear fragment
	// rather than a photon.
	EmitsFragment() bool
	// EmittedPDG returns the PDG code of the emitted particle.
	EmittedPDG() int
	// Decay performs the transition. The parent particle carries the lab
	// four-momentum of the decaying nucleus; its invariant mass fixes the
	// energy released. On success the state is updated to the final nucleus
	// and the emitted particle plus recoiling residual are returned.
	Decay(st *State, parent nucleus.Particle, gen *rng.Generator) (emitted, residual nucleus.Particle, err error)

	sealedChannel()
}

// Widths projects channels onto their partial widths so a weighted discrete
// draw can select a channel index directly.
func Widths(channels []ExitChannel) []float64 {
	out := make([]float64, len(channels))
	for i, ch := range channels {
		out[i] = ch.Width()
	}
	return out
}

package cascade

import (
	"context"
	"errors"
	"fmt"

	"nucascade/internal/rng"
	"nucascade/pkg/nucleus"
)

// ErrContinuumDeadEnd reports a continuum state with no open decay
// channels. It indicates malformed strength or structure data: a physically
// excited unresolved state must always be able to shed energy.
var ErrContinuumDeadEnd = errors.New("no decay channels open for a continuum state")

// ChannelSource enumerates the exit channels open at a cascade state. It is
// invoked once per cascade step. An empty channel list marks the state as
// terminal when it sits on a tabulated level.
type ChannelSource interface {
	OpenChannels(ctx context.Context, st State) ([]ExitChannel, error)
}

// Stats summarizes one completed cascade.
type Stats struct {
	// Steps is the number of emissions performed.
	Steps int
	// Gammas counts emitted photons.
	Gammas int
	// Fragments counts emitted nuclear fragments.
	Fragments int
}

// Driver walks a decay chain to termination.
type Driver struct {
	source ChannelSource
}

// NewDriver builds a cascade driver over the given channel source.
func NewDriver(source ChannelSource) *Driver {
	return &Driver{source: source}
}

// Cascade de-excites the nucleus described by st, appending every emitted
// particle to ev and keeping its residue slot current. The event must
// already hold the residue produced by the primary reaction. Each step
// lowers or preserves the excitation energy, so the chain terminates at a
// tabulated level with no open channels.
func (d *Driver) Cascade(ctx context.Context, st State, ev *nucleus.Event, gen *rng.Generator) (State, Stats, error) {
	var stats Stats
	for {
		channels, err := d.source.OpenChannels(ctx, st)
		if err != nil {
			return st, stats, fmt.Errorf("enumerating exit channels for %s at %v MeV: %w", st.Nuclide, st.Ex, err)
		}
		if len(channels) == 0 {
			if !st.OnLevel() {
				return st, stats, fmt.Errorf("%s at %v MeV: %w", st.Nuclide, st.Ex, ErrContinuumDeadEnd)
			}
			return st, stats, nil
		}
		idx, err := gen.DiscreteIndex(Widths(channels))
		if err != nil {
			return st, stats, fmt.Errorf("selecting exit channel for %s at %v MeV: %w", st.Nuclide, st.Ex, err)
		}
		emitted, residual, err := channels[idx].Decay(&st, ev.Residue(), gen)
		if err != nil {
			return st, stats, err
		}
		ev.AddFinal(emitted)
		ev.SetResidue(residual)
		stats.Steps++
		if channels[idx].EmitsFragment() {
			stats.Fragments++
		} else {
			stats.Gammas++
		}
	}
}

package nucleus

import (
	"fmt"
	"io"
)

// WriteHEPEvt writes the event in HEPEvt text format. The header line holds
// the event number and the particle count (the projectile plus all
// final-state particles). Momenta, energies, and masses are converted from
// MeV to GeV. The projectile is written with status flag 0, final-state
// particles with status flag 1, and the spacetime origin is used as the
// position four-vector for every particle.
func (e Event) WriteHEPEvt(eventNum int, w io.Writer) error {
	if len(e.initial) == 0 {
		return fmt.Errorf("cannot write HEPEvt record for event with no initial particles")
	}
	if _, err := fmt.Fprintf(w, "%d %d\n", eventNum, len(e.final)+1); err != nil {
		return err
	}
	if err := writeHEPEvtParticle(w, e.initial[projectileIndex], false); err != nil {
		return err
	}
	for _, p := range e.final {
		if err := writeHEPEvtParticle(w, p, true); err != nil {
			return err
		}
	}
	return nil
}

func writeHEPEvtParticle(w io.Writer, p Particle, track bool) error {
	flag := 0
	if track {
		flag = 1
	}
	// Factors of 1000 convert MeV to GeV for the HEPEvt format.
	_, err := fmt.Fprintf(w, "%d %d 0 0 0 0 %.16e %.16e %.16e %.16e %.16e 0. 0. 0. 0.\n",
		flag, p.PDG, p.Px()/1000., p.Py()/1000., p.Pz()/1000.,
		p.TotalEnergy()/1000., p.Mass/1000.)
	return err
}

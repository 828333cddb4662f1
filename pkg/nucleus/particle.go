package nucleus

import (
	"encoding/json"
	"fmt"
	"math"

	"go-hep.org/x/hep/fmom"
)

// Particle is a final- or initial-state particle with its lab-frame
// four-momentum. Energies, momenta, and masses are in MeV.
type Particle struct {
	// PDG identifies the particle species.
	PDG int
	// P4 is the lab-frame four-momentum (px, py, pz, E) in MeV.
	P4 fmom.PxPyPzE
	// Mass is the rest mass in MeV.
	Mass float64
}

// NewParticleAtRest returns a particle of the given species at rest.
func NewParticleAtRest(pdg int, mass float64) Particle {
	return Particle{PDG: pdg, P4: fmom.NewPxPyPzE(0, 0, 0, mass), Mass: mass}
}

// NewParticle returns an on-shell particle with the given three-momentum.
func NewParticle(pdg int, px, py, pz, mass float64) Particle {
	e := math.Sqrt(px*px + py*py + pz*pz + mass*mass)
	return Particle{PDG: pdg, P4: fmom.NewPxPyPzE(px, py, pz, e), Mass: mass}
}

// NewParticleWithEnergy returns a particle with the given total energy moving
// along the direction (dx, dy, dz). The direction need not be normalized.
func NewParticleWithEnergy(pdg int, energy, dx, dy, dz, mass float64) Particle {
	norm := math.Sqrt(dx*dx + dy*dy + dz*dz)
	p := math.Sqrt(math.Max(energy*energy-mass*mass, 0))
	if norm == 0 {
		return Particle{PDG: pdg, P4: fmom.NewPxPyPzE(0, 0, 0, energy), Mass: mass}
	}
	scale := p / norm
	return Particle{
		PDG:  pdg,
		P4:   fmom.NewPxPyPzE(dx*scale, dy*scale, dz*scale, energy),
		Mass: mass,
	}
}

// Px returns the x momentum component in MeV.
func (p Particle) Px() float64 { return p.P4.Px() }

// Py returns the y momentum component in MeV.
func (p Particle) Py() float64 { return p.P4.Py() }

// Pz returns the z momentum component in MeV.
func (p Particle) Pz() float64 { return p.P4.Pz() }

// TotalEnergy returns the total energy in MeV.
func (p Particle) TotalEnergy() float64 { return p.P4.E() }

// KineticEnergy returns the kinetic energy in MeV.
func (p Particle) KineticEnergy() float64 { return p.P4.E() - p.Mass }

// Momentum returns the magnitude of the three-momentum in MeV.
func (p Particle) Momentum() float64 { return p.P4.P() }

func (p Particle) String() string {
	return fmt.Sprintf("particle %d with E=%g MeV, px=%g MeV, py=%g MeV, pz=%g MeV, m=%g MeV",
		p.PDG, p.TotalEnergy(), p.Px(), p.Py(), p.Pz(), p.Mass)
}

type particleJSON struct {
	PDG  int     `json:"pdg"`
	E    float64 `json:"E"`
	Px   float64 `json:"px"`
	Py   float64 `json:"py"`
	Pz   float64 `json:"pz"`
	Mass float64 `json:"mass"`
}

// MarshalJSON encodes the particle with explicit momentum components.
func (p Particle) MarshalJSON() ([]byte, error) {
	return json.Marshal(particleJSON{
		PDG:  p.PDG,
		E:    p.TotalEnergy(),
		Px:   p.Px(),
		Py:   p.Py(),
		Pz:   p.Pz(),
		Mass: p.Mass,
	})
}

// UnmarshalJSON decodes a particle from its explicit momentum components.
func (p *Particle) UnmarshalJSON(data []byte) error {
	var aux particleJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.PDG = aux.PDG
	p.P4 = fmom.NewPxPyPzE(aux.Px, aux.Py, aux.Pz, aux.E)
	p.Mass = aux.Mass
	return nil
}

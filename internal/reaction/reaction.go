// Package reaction implements charged-current electron-neutrino capture on a
// tabulated target nucleus in the allowed approximation, from threshold
// bookkeeping and Coulomb-corrected cross sections through sampling of the
// primary two-to-two event.
package reaction

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"nucascade/internal/cascade"
	"nucascade/internal/masses"
	"nucascade/internal/numeric"
	"nucascade/internal/rng"
	"nucascade/internal/structure"
	"nucascade/pkg/nucleus"
)

const (
	// gFermi is the Fermi coupling constant in MeV^-2.
	gFermi = 1.16637e-11
	// vud is the magnitude of the up-down CKM matrix element.
	vud = 0.97427
	// fineStructure is the fine-structure constant.
	fineStructure = 7.2973525693e-3
	// HbarCSquared converts a cross section from MeV^-2 to cm^2.
	HbarCSquared = 3.8937937e-22
	// nuclearRadiusFm scales the cube root of A to a nuclear radius in fm.
	nuclearRadiusFm = 1.2
	// hbarCFm is hbar times c in MeV fm.
	hbarCFm = 197.3269804
)

const (
	// levelMatchTolerance pairs a transition with a tabulated level of the
	// residue by excitation energy, in MeV.
	levelMatchTolerance = 1e-3
	// cosineScanPoints controls the envelope grid used before rejection
	// sampling of the scattering cosine.
	cosineScanPoints = 200
	// integrationNodes for the angular cross-section integral.
	integrationNodes = 40
)

// transition binds one tabulated transition to its residue final state: the
// matched discrete level when one exists, otherwise a continuum state with
// the spin-parity the allowed approximation assigns.
type transition struct {
	structure.Transition
	level  int
	twoJ   int
	parity nucleus.Parity
}

// Reaction computes cross sections and samples primary events for the
// capture nu_e + (Z, A) -> e- + (Z+1, A)*.
type Reaction struct {
	target  nucleus.Nuclide
	residue nucleus.Nuclide

	ma   float64
	mb   float64
	mc   float64
	mdGS float64

	threshold   float64
	transitions []transition
}

// New builds the reaction for the given target, resolving its transition
// table and the residue decay scheme from the structure database.
func New(ctx context.Context, db structure.Database, mt *masses.Table, target nucleus.Nuclide) (*Reaction, error) {
	trs, err := db.Transitions(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("loading transitions for target %s: %w", target, err)
	}
	residue := nucleus.Nuclide{Z: target.Z + 1, A: target.A}
	scheme, err := db.Scheme(ctx, residue)
	if errors.Is(err, structure.ErrNotFound) {
		scheme = &nucleus.DecayScheme{Nuclide: residue}
	} else if err != nil {
		return nil, fmt.Errorf("loading decay scheme for residue %s: %w", residue, err)
	}

	r := &Reaction{
		target:  target,
		residue: residue,
		ma:      0,
		mb:      mt.NuclearMass(target),
		mc:      masses.Electron,
		mdGS:    mt.NuclearMass(residue),
	}
	r.threshold = (math.Pow(r.mc+r.mdGS, 2) - r.ma*r.ma - r.mb*r.mb) / (2 * r.mb)

	r.transitions = make([]transition, 0, len(trs))
	for _, tr := range trs {
		r.transitions = append(r.transitions, bindTransition(tr, scheme))
	}
	return r, nil
}

// bindTransition matches a transition to a tabulated residue level by
// energy. Unmatched transitions enter the continuum as 1+ states for
// Gamow-Teller strength and 0+ for Fermi strength, following the allowed
// selection rules for an even-even target.
func bindTransition(tr structure.Transition, scheme *nucleus.DecayScheme) transition {
	for i := 0; i < scheme.LevelCount(); i++ {
		lv := scheme.Level(i)
		if math.Abs(lv.Energy-tr.Energy) <= levelMatchTolerance {
			return transition{Transition: tr, level: i, twoJ: lv.TwoJ, parity: lv.Parity}
		}
	}
	out := transition{Transition: tr, level: cascade.ContinuumLevel, parity: nucleus.ParityPositive}
	if tr.BGT >= tr.BF {
		out.twoJ = 2
	}
	return out
}

// Target returns the target nuclide.
func (r *Reaction) Target() nucleus.Nuclide { return r.target }

// Residue returns the residue nuclide.
func (r *Reaction) Residue() nucleus.Nuclide { return r.residue }

// Transitions returns the tabulated transitions in a fresh slice.
func (r *Reaction) Transitions() []structure.Transition {
	out := make([]structure.Transition, len(r.transitions))
	for i, t := range r.transitions {
		out[i] = t.Transition
	}
	return out
}

// ThresholdEnergy returns the minimum projectile energy able to reach the
// residue ground state.
func (r *Reaction) ThresholdEnergy() float64 { return r.threshold }

func (r *Reaction) mandelstamS(ea float64) float64 {
	return r.ma*r.ma + r.mb*r.mb + 2*r.mb*ea
}

// MaxLevelEnergy returns the highest residue excitation reachable at
// projectile energy ea.
func (r *Reaction) MaxLevelEnergy(ea float64) float64 {
	return math.Sqrt(r.mandelstamS(ea)) - r.mc - r.mdGS
}

// EjectileEnergy returns the lab-frame ejectile total energy for a reaction
// leaving the residue at excitation elevel with center-of-momentum
// scattering cosine cosTheta.
func (r *Reaction) EjectileEnergy(elevel, ea, cosTheta float64) float64 {
	md := r.mdGS + elevel
	s := r.mandelstamS(ea)
	sqrtS := math.Sqrt(s)
	ecCM := (s + r.mc*r.mc - md*md) / (2 * sqrtS)
	pcCM := math.Sqrt(math.Max(ecCM*ecCM-r.mc*r.mc, 0))
	pa := math.Sqrt(ea*ea - r.ma*r.ma)
	beta := pa / (ea + r.mb)
	gamma := (ea + r.mb) / sqrtS
	return gamma * (ecCM + beta*pcCM*cosTheta)
}

// DifferentialXS returns the differential cross section with respect to the
// scattering cosine, in MeV^-2, for a transition with Fermi strength bf and
// Gamow-Teller strength bgt.
func (r *Reaction) DifferentialXS(elevel, ea, bf, bgt, cosTheta float64) float64 {
	ec := r.EjectileEnergy(elevel, ea, cosTheta)
	if ec <= r.mc {
		return 0
	}
	pc := math.Sqrt(ec*ec - r.mc*r.mc)
	beta := pc / ec
	shape := bf*(1+beta*cosTheta) + bgt*(1-beta*cosTheta/3)
	if shape <= 0 {
		return 0
	}
	coupling := gFermi * gFermi * vud * vud / (2 * math.Pi)
	return coupling * pc * ec * FermiFunction(r.residue.Z, r.residue.A, ec, true) * shape
}

// LevelXS integrates the differential cross section over the scattering
// cosine for one transition, in MeV^-2. Energetically closed transitions
// return zero.
func (r *Reaction) LevelXS(elevel, ea, bf, bgt float64) float64 {
	if ea <= 0 || elevel > r.MaxLevelEnergy(ea) {
		return 0
	}
	return quad.Fixed(func(c float64) float64 {
		return r.DifferentialXS(elevel, ea, bf, bgt, c)
	}, -1, 1, integrationNodes, nil, 0)
}

// TotalXS sums the level cross sections over every tabulated transition, in
// MeV^-2.
func (r *Reaction) TotalXS(ea float64) float64 {
	total := 0.0
	for _, t := range r.transitions {
		total += r.LevelXS(t.Energy, ea, t.BF, t.BGT)
	}
	return total
}

// SampleCosine draws a center-of-momentum scattering cosine for one
// transition by rejection against its differential cross section.
func (r *Reaction) SampleCosine(elevel, ea, bf, bgt float64, gen *rng.Generator) (float64, error) {
	pdf := func(c float64) float64 {
		return r.DifferentialXS(elevel, ea, bf, bgt, c)
	}
	peak := 0.0
	for i := 0; i <= cosineScanPoints; i++ {
		c := -1 + 2*float64(i)/cosineScanPoints
		if v := pdf(c); v > peak {
			peak = v
		}
	}
	if peak <= 0 {
		return 0, fmt.Errorf("transition at %g MeV closed at projectile energy %g MeV: %w", elevel, ea, rng.ErrNoWeight)
	}
	cos, err := gen.Rejection(pdf, -1, 1, peak*1.01)
	if err != nil {
		return 0, fmt.Errorf("sampling scattering cosine: %w", err)
	}
	return cos, nil
}

// CreateEvent samples one primary interaction at projectile energy ea: a
// residue final state weighted by level cross section, a scattering angle,
// and the resulting two-body kinematics with the projectile along +z. It
// returns the event and the cascade entry state of the excited residue.
func (r *Reaction) CreateEvent(ea float64, gen *rng.Generator) (nucleus.Event, cascade.State, error) {
	if ea < r.threshold {
		return nucleus.Event{}, cascade.State{}, fmt.Errorf("projectile energy %g MeV below the %g MeV threshold", ea, r.threshold)
	}
	weights := make([]float64, len(r.transitions))
	for i, t := range r.transitions {
		weights[i] = r.LevelXS(t.Energy, ea, t.BF, t.BGT)
	}
	idx, err := gen.DiscreteIndex(weights)
	if err != nil {
		return nucleus.Event{}, cascade.State{}, fmt.Errorf("sampling the residue level at %g MeV: %w", ea, err)
	}
	tr := r.transitions[idx]

	cosTheta, err := r.SampleCosine(tr.Energy, ea, tr.BF, tr.BGT, gen)
	if err != nil {
		return nucleus.Event{}, cascade.State{}, err
	}
	phi := gen.Uniform(0, 2*math.Pi)

	md := r.mdGS + tr.Energy
	s := r.mandelstamS(ea)
	sqrtS := math.Sqrt(s)
	ecCM := (s + r.mc*r.mc - md*md) / (2 * sqrtS)
	pcCM := math.Sqrt(math.Max(ecCM*ecCM-r.mc*r.mc, 0))
	sinTheta := math.Sqrt(math.Max(1-cosTheta*cosTheta, 0))
	pcx := pcCM * sinTheta * math.Cos(phi)
	pcy := pcCM * sinTheta * math.Sin(phi)
	pczCM := pcCM * cosTheta

	pa := math.Sqrt(ea*ea - r.ma*r.ma)
	beta := pa / (ea + r.mb)
	gamma := (ea + r.mb) / sqrtS
	pczLab := gamma * (pczCM + beta*ecCM)

	projectile := nucleus.NewParticleWithEnergy(nucleus.PDGElectronNeutrino, ea, 0, 0, 1, r.ma)
	target := nucleus.NewParticleAtRest(r.target.PDG(), r.mb)
	ejectile := nucleus.NewParticle(nucleus.PDGElectron, pcx, pcy, pczLab, r.mc)
	residue := nucleus.NewParticle(r.residue.PDG(), -pcx, -pcy, pa-pczLab, md)

	ev := nucleus.NewEvent(projectile, target, ejectile, residue, tr.Energy)
	st := cascade.State{
		Nuclide:    r.residue,
		Ex:         tr.Energy,
		TwoJ:       tr.twoJ,
		Parity:     tr.parity,
		LevelIndex: tr.level,
	}
	return ev, st, nil
}

// FermiFunction evaluates the relativistic Coulomb correction for a charged
// lepton with total energy e in the field of a daughter nucleus with proton
// number z and mass number a. The electron flag selects the attraction sign
// (true for electrons, false for positrons).
func FermiFunction(z, a int, e float64, electron bool) float64 {
	if e <= masses.Electron {
		return 0
	}
	p := math.Sqrt(e*e - masses.Electron*masses.Electron)
	gam := math.Sqrt(1 - fineStructure*fineStructure*float64(z*z))
	rho := nuclearRadiusFm * math.Cbrt(float64(a)) / hbarCFm
	eta := fineStructure * float64(z) * e / p
	if !electron {
		eta = -eta
	}
	num := numeric.GammaMagSq(complex(gam, eta))
	den := math.Gamma(2*gam + 1)
	return 2 * (1 + gam) * math.Pow(2*p*rho, 2*gam-2) * math.Exp(math.Pi*eta) * num / (den * den)
}

// FermiApprox evaluates the Primakoff-Rosen approximation to the Coulomb
// correction, accurate when the lepton is relativistic.
func FermiApprox(z int, e float64, electron bool) float64 {
	if e <= masses.Electron {
		return 0
	}
	p := math.Sqrt(e*e - masses.Electron*masses.Electron)
	eta := fineStructure * float64(z) * e / p
	if !electron {
		eta = -eta
	}
	if eta == 0 {
		return 1
	}
	x := 2 * math.Pi * eta
	return x / (1 - math.Exp(-x))
}

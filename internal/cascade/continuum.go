package cascade

import (
	"fmt"
	"sync"

	"nucascade/internal/numeric"
	"nucascade/internal/rng"
	"nucascade/pkg/nucleus"
)

// Interpolation tolerances for the continuum sampler. The density itself
// converges spectrally; quantile interpolants converge slowly near the
// endpoints and need a looser target.
const (
	densityTolerance  = 1e-8
	quantileTolerance = 1e-4
)

// continuumBase carries the pieces shared by both continuum channel
// variants: the final energy window, the lazily built quantile interpolant,
// and the spin-parity selection machinery.
type continuumBase struct {
	width  float64
	emin   float64
	emax   float64
	jpiAt  func(exf float64) []SpinParityWidth
	jpi    JPiSampler
	gsMass float64

	once     sync.Once
	quantile *numeric.Chebyshev
	buildErr error
}

func newContinuumBase(width, emin, emax float64, jpiAt func(float64) []SpinParityWidth, jpi JPiSampler, gsMass float64) (continuumBase, error) {
	if width < 0 {
		return continuumBase{}, fmt.Errorf("continuum channel width %v is negative", width)
	}
	if emax <= emin {
		return continuumBase{}, fmt.Errorf("continuum energy window [%v, %v] is empty", emin, emax)
	}
	if jpiAt == nil {
		return continuumBase{}, fmt.Errorf("continuum channel needs a spin-parity width table")
	}
	if jpi == nil {
		jpi = WidthWeightedJPi{}
	}
	return continuumBase{width: width, emin: emin, emax: emax, jpiAt: jpiAt, jpi: jpi, gsMass: gsMass}, nil
}

// ensureQuantile builds the inverse-CDF interpolant of density on first use.
func (b *continuumBase) ensureQuantile(density func(float64) float64) error {
	b.once.Do(func() {
		pdf, err := numeric.NewChebyshev(density, b.emin, b.emax, densityTolerance)
		if err != nil {
			b.buildErr = fmt.Errorf("interpolating continuum density on [%v, %v]: %w", b.emin, b.emax, err)
			return
		}
		q, err := pdf.InverseCDF(quantileTolerance)
		if err != nil {
			b.buildErr = fmt.Errorf("building continuum quantile on [%v, %v]: %w", b.emin, b.emax, err)
			return
		}
		b.quantile = q
	})
	return b.buildErr
}

// sampleExf draws a final excitation energy, clamped to the energy window
// against interpolation overshoot.
func (b *continuumBase) sampleExf(gen *rng.Generator) float64 {
	exf := b.quantile.Evaluate(gen.Float64())
	if exf < b.emin {
		exf = b.emin
	}
	if exf > b.emax {
		exf = b.emax
	}
	return exf
}

func (b *continuumBase) sampleJPi(exf float64, gen *rng.Generator) (int, nucleus.Parity, error) {
	return b.jpi.SampleJPi(b.jpiAt(exf), gen)
}

// GammaContinuum is a gamma transition into the unresolved continuum of the
// same nucleus. The final excitation energy is drawn from the supplied
// density, then a final spin-parity from the width table at that energy.
type GammaContinuum struct {
	continuumBase
	density func(exf float64) float64
}

var _ ExitChannel = (*GammaContinuum)(nil)

// NewGammaContinuum builds a continuum gamma channel over final excitation
// energies [emin, emax]. jpiAt must return the accessible spin-parity
// widths at a sampled final energy; a nil jpi defaults to width-weighted
// selection. gsMass is the nuclear ground-state mass of the nucleus in MeV.
func NewGammaContinuum(width, emin, emax float64, density func(float64) float64, jpiAt func(float64) []SpinParityWidth, jpi JPiSampler, gsMass float64) (*GammaContinuum, error) {
	if density == nil {
		return nil, fmt.Errorf("continuum gamma channel needs a density")
	}
	base, err := newContinuumBase(width, emin, emax, jpiAt, jpi, gsMass)
	if err != nil {
		return nil, err
	}
	return &GammaContinuum{continuumBase: base, density: density}, nil
}

func (c *GammaContinuum) Width() float64      { return c.width }
func (c *GammaContinuum) Continuum() bool     { return true }
func (c *GammaContinuum) EmitsFragment() bool { return false }
func (c *GammaContinuum) EmittedPDG() int     { return nucleus.PDGPhoton }
func (c *GammaContinuum) sealedChannel()      {}

// Decay samples the final excitation energy and spin-parity, then emits the
// photon carrying the energy difference.
func (c *GammaContinuum) Decay(st *State, parent nucleus.Particle, gen *rng.Generator) (nucleus.Particle, nucleus.Particle, error) {
	if err := c.ensureQuantile(c.density); err != nil {
		return nucleus.Particle{}, nucleus.Particle{}, err
	}
	exf := c.sampleExf(gen)
	twoJ, parity, err := c.sampleJPi(exf, gen)
	if err != nil {
		return nucleus.Particle{}, nucleus.Particle{}, fmt.Errorf("continuum gamma transition of %s at %v MeV: %w", st.Nuclide, exf, err)
	}
	photon, residual, err := twoBodyDecay(parent,
		nucleus.PDGPhoton, 0,
		st.Nuclide.PDG(), c.gsMass+exf, gen)
	if err != nil {
		return nucleus.Particle{}, nucleus.Particle{}, fmt.Errorf("continuum gamma transition of %s: %w", st.Nuclide, err)
	}
	st.Ex = exf
	st.TwoJ = twoJ
	st.Parity = parity
	st.LevelIndex = ContinuumLevel
	return photon, residual, nil
}

// FragmentContinuum is a fragment emission into the unresolved continuum of
// the daughter nucleus. Its density is two-argument: the energy draw also
// fixes the total center-of-mass kinetic energy of the fragment pair, from
// which the fragment momentum is derived.
type FragmentContinuum struct {
	continuumBase
	fragment nucleus.Fragment
	daughter nucleus.Nuclide
	pdf      func(exf float64) (density, totalKE float64)
}

var _ ExitChannel = (*FragmentContinuum)(nil)

// NewFragmentContinuum builds a continuum fragment channel over daughter
// excitation energies [emin, emax]. pdf must return both the density and
// the total center-of-mass kinetic energy at a final excitation energy.
// gsMass is the nuclear ground-state mass of the daughter in MeV.
func NewFragmentContinuum(width float64, fragment nucleus.Fragment, daughter nucleus.Nuclide, emin, emax float64, pdf func(float64) (float64, float64), jpiAt func(float64) []SpinParityWidth, jpi JPiSampler, gsMass float64) (*FragmentContinuum, error) {
	if pdf == nil {
		return nil, fmt.Errorf("continuum fragment channel needs a density")
	}
	base, err := newContinuumBase(width, emin, emax, jpiAt, jpi, gsMass)
	if err != nil {
		return nil, err
	}
	return &FragmentContinuum{continuumBase: base, fragment: fragment, daughter: daughter, pdf: pdf}, nil
}

func (c *FragmentContinuum) Width() float64      { return c.width }
func (c *FragmentContinuum) Continuum() bool     { return true }
func (c *FragmentContinuum) EmitsFragment() bool { return true }
func (c *FragmentContinuum) EmittedPDG() int     { return c.fragment.PDG }
func (c *FragmentContinuum) sealedChannel()      {}

// Decay samples the daughter excitation energy, derives the fragment
// momentum from the kinetic energy returned by the density, and samples the
// final spin-parity.
func (c *FragmentContinuum) Decay(st *State, parent nucleus.Particle, gen *rng.Generator) (nucleus.Particle, nucleus.Particle, error) {
	if err := c.ensureQuantile(func(exf float64) float64 {
		d, _ := c.pdf(exf)
		return d
	}); err != nil {
		return nucleus.Particle{}, nucleus.Particle{}, err
	}
	exf := c.sampleExf(gen)
	_, ke := c.pdf(exf)
	twoJ, parity, err := c.sampleJPi(exf, gen)
	if err != nil {
		return nucleus.Particle{}, nucleus.Particle{}, fmt.Errorf("continuum %s emission from %s at %v MeV: %w",
			nucleus.ElementSymbol(c.fragment.Z), st.Nuclide, exf, err)
	}
	emitted, residual, err := twoBodyDecayKE(parent,
		c.fragment.PDG, c.fragment.Mass,
		c.daughter.PDG(), c.gsMass+exf, ke, gen)
	if err != nil {
		return nucleus.Particle{}, nucleus.Particle{}, fmt.Errorf("continuum %s emission from %s: %w",
			nucleus.ElementSymbol(c.fragment.Z), st.Nuclide, err)
	}
	st.Nuclide = c.daughter
	st.Ex = exf
	st.TwoJ = twoJ
	st.Parity = parity
	st.LevelIndex = ContinuumLevel
	return emitted, residual, nil
}

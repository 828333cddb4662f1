package cascade

import (
	"fmt"

	"nucascade/internal/rng"
	"nucascade/pkg/nucleus"
)

// GammaDiscrete is a gamma transition to a tabulated level of the same
// nucleus. The target level is held as an index into the decay scheme.
type GammaDiscrete struct {
	width  float64
	scheme *nucleus.DecayScheme
	level  int
	gsMass float64
}

var _ ExitChannel = (*GammaDiscrete)(nil)

// NewGammaDiscrete builds a gamma transition of the given partial width to
// level index level of scheme. gsMass is the nuclear ground-state mass of
// the nucleus in MeV.
func NewGammaDiscrete(width float64, scheme *nucleus.DecayScheme, level int, gsMass float64) (*GammaDiscrete, error) {
	if width < 0 {
		return nil, fmt.Errorf("gamma transition width %v is negative", width)
	}
	if level < 0 || level >= scheme.LevelCount() {
		return nil, fmt.Errorf("gamma transition target level %d is out of range for %s", level, scheme.Nuclide)
	}
	return &GammaDiscrete{width: width, scheme: scheme, level: level, gsMass: gsMass}, nil
}

func (c *GammaDiscrete) Width() float64      { return c.width }
func (c *GammaDiscrete) Continuum() bool     { return false }
func (c *GammaDiscrete) EmitsFragment() bool { return false }
func (c *GammaDiscrete) EmittedPDG() int     { return nucleus.PDGPhoton }
func (c *GammaDiscrete) sealedChannel()      {}

// Decay emits the photon carrying the energy difference to the target level
// and moves the state onto that level.
func (c *GammaDiscrete) Decay(st *State, parent nucleus.Particle, gen *rng.Generator) (nucleus.Particle, nucleus.Particle, error) {
	lv := c.scheme.Level(c.level)
	photon, residual, err := twoBodyDecay(parent,
		nucleus.PDGPhoton, 0,
		st.Nuclide.PDG(), c.gsMass+lv.Energy, gen)
	if err != nil {
		return nucleus.Particle{}, nucleus.Particle{}, fmt.Errorf("gamma transition to level %d of %s: %w", c.level, c.scheme.Nuclide, err)
	}
	st.Ex = lv.Energy
	st.TwoJ = lv.TwoJ
	st.Parity = lv.Parity
	st.LevelIndex = c.level
	return photon, residual, nil
}

// FragmentDiscrete is a fragment emission to a tabulated level of the
// daughter nucleus.
type FragmentDiscrete struct {
	width    float64
	fragment nucleus.Fragment
	scheme   *nucleus.DecayScheme
	level    int
	gsMass   float64
}

var _ ExitChannel = (*FragmentDiscrete)(nil)

// NewFragmentDiscrete builds a fragment emission of the given partial width
// to level index level of the daughter scheme. gsMass is the nuclear
// ground-state mass of the daughter in MeV.
func NewFragmentDiscrete(width float64, fragment nucleus.Fragment, scheme *nucleus.DecayScheme, level int, gsMass float64) (*FragmentDiscrete, error) {
	if width < 0 {
		return nil, fmt.Errorf("fragment emission width %v is negative", width)
	}
	if level < 0 || level >= scheme.LevelCount() {
		return nil, fmt.Errorf("fragment emission target level %d is out of range for %s", level, scheme.Nuclide)
	}
	return &FragmentDiscrete{width: width, fragment: fragment, scheme: scheme, level: level, gsMass: gsMass}, nil
}

func (c *FragmentDiscrete) Width() float64      { return c.width }
func (c *FragmentDiscrete) Continuum() bool     { return false }
func (c *FragmentDiscrete) EmitsFragment() bool { return true }
func (c *FragmentDiscrete) EmittedPDG() int     { return c.fragment.PDG }
func (c *FragmentDiscrete) sealedChannel()      {}

// Decay emits the fragment and moves the state onto the daughter level.
func (c *FragmentDiscrete) Decay(st *State, parent nucleus.Particle, gen *rng.Generator) (nucleus.Particle, nucleus.Particle, error) {
	lv := c.scheme.Level(c.level)
	daughter := c.scheme.Nuclide
	emitted, residual, err := twoBodyDecay(parent,
		c.fragment.PDG, c.fragment.Mass,
		daughter.PDG(), c.gsMass+lv.Energy, gen)
	if err != nil {
		return nucleus.Particle{}, nucleus.Particle{}, fmt.Errorf("%s emission to level %d of %s: %w",
			nucleus.ElementSymbol(c.fragment.Z), c.level, daughter, err)
	}
	st.Nuclide = daughter
	st.Ex = lv.Energy
	st.TwoJ = lv.TwoJ
	st.Parity = lv.Parity
	st.LevelIndex = c.level
	return emitted, residual, nil
}

package strength

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/integrate/quad"

	"nucascade/internal/cascade"
	"nucascade/internal/density"
	"nucascade/internal/masses"
	"nucascade/internal/structure"
	"nucascade/pkg/nucleus"
)

const (
	// maxOrbital bounds the fragment orbital angular momentum.
	maxOrbital = 2
	// maxMultipole bounds the gamma multipole order.
	maxMultipole = 2
	// continuumMargin places the continuum floor just above the highest
	// tabulated level, in MeV.
	continuumMargin = 0.001
	// minWindow is the smallest continuum energy window worth sampling.
	minWindow = 1e-6
	// integrationNodes used for width integrals over continuum windows.
	integrationNodes = 40
)

// Model enumerates the exit channels open at a cascade state. It combines
// tabulated decay schemes with gamma strength functions, Hill-Wheeler
// fragment transmission coefficients, and a backshifted Fermi gas level
// density for continuum final states. Safe for concurrent use.
type Model struct {
	db  structure.Database
	mt  *masses.Table
	jpi cascade.JPiSampler

	mu        sync.Mutex
	schemes   map[nucleus.Nuclide]*nucleus.DecayScheme
	densities map[nucleus.Nuclide]density.Model
	strengths map[nucleus.Nuclide]gammaStrength
}

var _ cascade.ChannelSource = (*Model)(nil)

// NewModel builds a channel source over the given structure database and
// mass table. A nil jpi defaults to width-weighted spin-parity selection.
func NewModel(db structure.Database, mt *masses.Table, jpi cascade.JPiSampler) *Model {
	if jpi == nil {
		jpi = cascade.WidthWeightedJPi{}
	}
	return &Model{
		db:        db,
		mt:        mt,
		jpi:       jpi,
		schemes:   make(map[nucleus.Nuclide]*nucleus.DecayScheme),
		densities: make(map[nucleus.Nuclide]density.Model),
		strengths: make(map[nucleus.Nuclide]gammaStrength),
	}
}

// scheme returns the cached decay scheme for n. Nuclides absent from the
// database are served an empty scheme and treated as pure continuum.
func (m *Model) scheme(ctx context.Context, n nucleus.Nuclide) (*nucleus.DecayScheme, error) {
	m.mu.Lock()
	ds, ok := m.schemes[n]
	m.mu.Unlock()
	if ok {
		return ds, nil
	}
	ds, err := m.db.Scheme(ctx, n)
	if errors.Is(err, structure.ErrNotFound) {
		ds = &nucleus.DecayScheme{Nuclide: n}
	} else if err != nil {
		return nil, fmt.Errorf("loading decay scheme for %s: %w", n, err)
	}
	m.mu.Lock()
	m.schemes[n] = ds
	m.mu.Unlock()
	return ds, nil
}

func (m *Model) densityFor(n nucleus.Nuclide) density.Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rho, ok := m.densities[n]; ok {
		return rho
	}
	rho := density.NewBackshiftedFermiGas(n, m.mt.ShellCorrection(n))
	m.densities[n] = rho
	return rho
}

func (m *Model) strengthFor(n nucleus.Nuclide) gammaStrength {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.strengths[n]; ok {
		return g
	}
	g := newGammaStrength(n)
	m.strengths[n] = g
	return g
}

// OpenChannels lists the decay channels open at st. An empty list on a
// tabulated level marks the state as terminal.
func (m *Model) OpenChannels(ctx context.Context, st cascade.State) ([]cascade.ExitChannel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if st.OnLevel() {
		return m.levelChannels(ctx, st)
	}
	return m.continuumChannels(ctx, st)
}

// levelChannels serves the tabulated gamma branches of an occupied level.
func (m *Model) levelChannels(ctx context.Context, st cascade.State) ([]cascade.ExitChannel, error) {
	ds, err := m.scheme(ctx, st.Nuclide)
	if err != nil {
		return nil, err
	}
	if st.LevelIndex >= ds.LevelCount() {
		return nil, fmt.Errorf("state occupies level %d of %s but the scheme has %d levels",
			st.LevelIndex, st.Nuclide, ds.LevelCount())
	}
	lv := ds.Level(st.LevelIndex)
	gsMass := m.mt.NuclearMass(st.Nuclide)
	channels := make([]cascade.ExitChannel, 0, len(lv.Branches))
	for _, br := range lv.Branches {
		if br.Probability <= 0 {
			continue
		}
		ch, err := cascade.NewGammaDiscrete(br.Probability, ds, br.Target, gsMass)
		if err != nil {
			return nil, fmt.Errorf("branch of level %d of %s: %w", st.LevelIndex, st.Nuclide, err)
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// continuumChannels performs the statistical enumeration for an unresolved
// state: gamma transitions to each tabulated level and into the continuum,
// plus fragment emission for every energetically open fragment.
func (m *Model) continuumChannels(ctx context.Context, st cascade.State) ([]cascade.ExitChannel, error) {
	ds, err := m.scheme(ctx, st.Nuclide)
	if err != nil {
		return nil, err
	}
	g := m.strengthFor(st.Nuclide)
	gsMass := m.mt.NuclearMass(st.Nuclide)

	var channels []cascade.ExitChannel
	for i := 0; i < ds.LevelCount(); i++ {
		lv := ds.Level(i)
		if lv.Energy >= st.Ex {
			break
		}
		w := 0.0
		for l := 1; l <= maxMultipole; l++ {
			if !triangle(st.TwoJ, lv.TwoJ, 2*l) {
				continue
			}
			electric := st.Parity.Times(lv.Parity) == nucleus.OrbitalParity(l)
			w += g.transmission(st.Ex-lv.Energy, l, electric)
		}
		if w <= 0 {
			continue
		}
		ch, err := cascade.NewGammaDiscrete(w, ds, i, gsMass)
		if err != nil {
			return nil, fmt.Errorf("gamma channel to level %d of %s: %w", i, st.Nuclide, err)
		}
		channels = append(channels, ch)
	}

	if ch, err := m.gammaContinuumChannel(st, ds, g, gsMass); err != nil {
		return nil, err
	} else if ch != nil {
		channels = append(channels, ch)
	}

	fragmentChannels, err := m.fragmentChannels(ctx, st)
	if err != nil {
		return nil, err
	}
	return append(channels, fragmentChannels...), nil
}

func continuumFloor(ds *nucleus.DecayScheme) float64 {
	return ds.MaxLevelEnergy() + continuumMargin
}

func (m *Model) gammaContinuumChannel(st cascade.State, ds *nucleus.DecayScheme, g gammaStrength, gsMass float64) (cascade.ExitChannel, error) {
	emin := continuumFloor(ds)
	emax := st.Ex
	if emax-emin <= minWindow {
		return nil, nil
	}
	rho := m.densityFor(st.Nuclide)
	jpiAt := func(exf float64) []cascade.SpinParityWidth {
		return gammaJPiTable(g, rho, st, exf)
	}
	densityAt := func(exf float64) float64 {
		return tableSum(jpiAt(exf))
	}
	width := quad.Fixed(densityAt, emin, emax, integrationNodes, nil, 0)
	if width <= 0 {
		return nil, nil
	}
	ch, err := cascade.NewGammaContinuum(width, emin, emax, densityAt, jpiAt, m.jpi, gsMass)
	if err != nil {
		return nil, fmt.Errorf("continuum gamma channel of %s: %w", st.Nuclide, err)
	}
	return ch, nil
}

func (m *Model) fragmentChannels(ctx context.Context, st cascade.State) ([]cascade.ExitChannel, error) {
	var channels []cascade.ExitChannel
	for _, f := range masses.Fragments() {
		sa, err := m.mt.Separation(st.Nuclide, f)
		if err != nil {
			continue
		}
		exMax := st.Ex - sa
		if exMax <= 0 {
			continue
		}
		daughter := st.Nuclide.Minus(f.Z, f.A)
		dsD, err := m.scheme(ctx, daughter)
		if err != nil {
			return nil, err
		}
		daughterMass := m.mt.NuclearMass(daughter)
		barrier := newFragmentBarrier(f, daughter, f.Mass, daughterMass)

		for i := 0; i < dsD.LevelCount(); i++ {
			lv := dsD.Level(i)
			if lv.Energy >= exMax {
				break
			}
			eps := exMax - lv.Energy
			w := 0.0
			for l := 0; l <= maxOrbital; l++ {
				if st.Parity != lv.Parity.Times(f.Parity).Times(nucleus.OrbitalParity(l)) {
					continue
				}
				t := barrier.transmission(l, eps)
				if t <= 0 {
					continue
				}
				for twoJ := absInt(2*l - f.TwoS); twoJ <= 2*l+f.TwoS; twoJ += 2 {
					if triangle(lv.TwoJ, twoJ, st.TwoJ) {
						w += t
					}
				}
			}
			if w <= 0 {
				continue
			}
			ch, err := cascade.NewFragmentDiscrete(w, f, dsD, i, daughterMass)
			if err != nil {
				return nil, fmt.Errorf("%s channel to level %d of %s: %w", nucleus.ElementSymbol(f.Z), i, daughter, err)
			}
			channels = append(channels, ch)
		}

		ch, err := m.fragmentContinuumChannel(st, f, daughter, dsD, barrier, daughterMass, sa)
		if err != nil {
			return nil, err
		}
		if ch != nil {
			channels = append(channels, ch)
		}
	}
	return channels, nil
}

func (m *Model) fragmentContinuumChannel(st cascade.State, f nucleus.Fragment, daughter nucleus.Nuclide, dsD *nucleus.DecayScheme, barrier fragmentBarrier, daughterMass, sa float64) (cascade.ExitChannel, error) {
	emin := continuumFloor(dsD)
	emax := st.Ex - sa
	if emax-emin <= minWindow {
		return nil, nil
	}
	rhoD := m.densityFor(daughter)
	jpiAt := func(exf float64) []cascade.SpinParityWidth {
		return fragmentJPiTable(barrier, f, rhoD, st, st.Ex-sa-exf, exf)
	}
	pdf := func(exf float64) (float64, float64) {
		return tableSum(jpiAt(exf)), st.Ex - sa - exf
	}
	width := quad.Fixed(func(exf float64) float64 {
		d, _ := pdf(exf)
		return d
	}, emin, emax, integrationNodes, nil, 0)
	if width <= 0 {
		return nil, nil
	}
	ch, err := cascade.NewFragmentContinuum(width, f, daughter, emin, emax, pdf, jpiAt, m.jpi, daughterMass)
	if err != nil {
		return nil, fmt.Errorf("continuum %s channel of %s: %w", nucleus.ElementSymbol(f.Z), st.Nuclide, err)
	}
	return ch, nil
}

// gammaJPiTable lists the accessible final spin-parities of a continuum
// gamma transition at final excitation exf, weighted by transmission times
// level density.
func gammaJPiTable(g gammaStrength, rho density.Model, st cascade.State, exf float64) []cascade.SpinParityWidth {
	eg := st.Ex - exf
	acc := make(map[jpiKey]float64)
	for l := 1; l <= maxMultipole; l++ {
		for _, pf := range []nucleus.Parity{nucleus.ParityPositive, nucleus.ParityNegative} {
			electric := st.Parity.Times(pf) == nucleus.OrbitalParity(l)
			t := g.transmission(eg, l, electric)
			if t <= 0 {
				continue
			}
			for twoJ := absInt(st.TwoJ - 2*l); twoJ <= st.TwoJ+2*l; twoJ += 2 {
				if !triangle(st.TwoJ, twoJ, 2*l) {
					continue
				}
				acc[jpiKey{twoJ, pf}] += t * rho.SpinParityDensity(exf, twoJ, pf)
			}
		}
	}
	return flattenTable(acc)
}

// fragmentJPiTable lists the accessible final spin-parities of a continuum
// fragment emission with total center-of-mass kinetic energy eps.
func fragmentJPiTable(barrier fragmentBarrier, f nucleus.Fragment, rho density.Model, st cascade.State, eps, exf float64) []cascade.SpinParityWidth {
	acc := make(map[jpiKey]float64)
	for l := 0; l <= maxOrbital; l++ {
		t := barrier.transmission(l, eps)
		if t <= 0 {
			continue
		}
		pd := st.Parity.Times(f.Parity).Times(nucleus.OrbitalParity(l))
		for twoJ := absInt(2*l - f.TwoS); twoJ <= 2*l+f.TwoS; twoJ += 2 {
			for twoJd := absInt(st.TwoJ - twoJ); twoJd <= st.TwoJ+twoJ; twoJd += 2 {
				acc[jpiKey{twoJd, pd}] += t * rho.SpinParityDensity(exf, twoJd, pd)
			}
		}
	}
	return flattenTable(acc)
}

type jpiKey struct {
	twoJ   int
	parity nucleus.Parity
}

// flattenTable orders accumulated entries by spin then parity so channel
// sampling is deterministic for a fixed seed.
func flattenTable(acc map[jpiKey]float64) []cascade.SpinParityWidth {
	out := make([]cascade.SpinParityWidth, 0, len(acc))
	for k, w := range acc {
		if w <= 0 {
			continue
		}
		out = append(out, cascade.SpinParityWidth{TwoJ: k.twoJ, Parity: k.parity, Width: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TwoJ != out[j].TwoJ {
			return out[i].TwoJ < out[j].TwoJ
		}
		return out[i].Parity < out[j].Parity
	})
	return out
}

func tableSum(table []cascade.SpinParityWidth) float64 {
	sum := 0.0
	for _, e := range table {
		sum += e.Width
	}
	return sum
}

// triangle checks the angular momentum coupling rule for doubled spins.
func triangle(twoA, twoB, twoC int) bool {
	return absInt(twoA-twoB) <= twoC && twoC <= twoA+twoB
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

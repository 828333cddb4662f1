// Package source provides the projectile energy spectra the generator can
// sample incident neutrinos from.
package source

import (
	"errors"
	"fmt"
	"math"

	"nucascade/internal/rng"
)

// ErrBadSpectrum reports invalid spectrum parameters.
var ErrBadSpectrum = errors.New("invalid source spectrum")

// envelopeScanPoints controls the grid used to bound a spectrum density
// before rejection sampling.
const envelopeScanPoints = 1000

// Spectrum samples projectile kinetic energies in MeV.
type Spectrum interface {
	// Sample draws one projectile energy.
	Sample(gen *rng.Generator) (float64, error)
	// Bounds returns the energy window the spectrum can emit into.
	Bounds() (emin, emax float64)
}

// Monoenergetic emits every projectile at a single fixed energy.
type Monoenergetic struct {
	energy float64
}

// NewMonoenergetic returns a single-line spectrum at the given energy.
func NewMonoenergetic(energy float64) (*Monoenergetic, error) {
	if energy <= 0 || math.IsNaN(energy) || math.IsInf(energy, 0) {
		return nil, fmt.Errorf("energy %v MeV: %w", energy, ErrBadSpectrum)
	}
	return &Monoenergetic{energy: energy}, nil
}

// Sample returns the fixed line energy.
func (s *Monoenergetic) Sample(*rng.Generator) (float64, error) {
	return s.energy, nil
}

// Bounds returns the degenerate window around the line energy.
func (s *Monoenergetic) Bounds() (float64, float64) {
	return s.energy, s.energy
}

// FermiDirac is a thermal neutrino spectrum with density proportional to
// E^2 / (1 + exp(E/T - eta)), truncated to [emin, emax].
type FermiDirac struct {
	temperature float64
	eta         float64
	emin        float64
	emax        float64
	peak        float64
}

// NewFermiDirac returns a Fermi-Dirac spectrum with the given temperature
// and pinching parameter eta, truncated to the window [emin, emax] in MeV.
func NewFermiDirac(temperature, eta, emin, emax float64) (*FermiDirac, error) {
	if temperature <= 0 {
		return nil, fmt.Errorf("temperature %v MeV: %w", temperature, ErrBadSpectrum)
	}
	if emin < 0 || emax <= emin {
		return nil, fmt.Errorf("energy window [%v, %v] MeV: %w", emin, emax, ErrBadSpectrum)
	}
	s := &FermiDirac{temperature: temperature, eta: eta, emin: emin, emax: emax}
	s.peak = scanMaximum(s.density, emin, emax)
	if s.peak <= 0 {
		return nil, fmt.Errorf("spectrum vanishes on [%v, %v] MeV: %w", emin, emax, ErrBadSpectrum)
	}
	return s, nil
}

func (s *FermiDirac) density(e float64) float64 {
	if e < 0 {
		return 0
	}
	return e * e / (1 + math.Exp(e/s.temperature-s.eta))
}

// Sample draws one energy by rejection against the scanned envelope.
func (s *FermiDirac) Sample(gen *rng.Generator) (float64, error) {
	return gen.Rejection(s.density, s.emin, s.emax, s.peak)
}

// Bounds returns the truncation window.
func (s *FermiDirac) Bounds() (float64, float64) {
	return s.emin, s.emax
}

// scanMaximum bounds f on [a, b] by a dense grid scan with headroom for the
// variation between grid points.
func scanMaximum(f func(float64) float64, a, b float64) float64 {
	max := 0.0
	for i := 0; i <= envelopeScanPoints; i++ {
		x := a + (b-a)*float64(i)/envelopeScanPoints
		if v := f(x); v > max {
			max = v
		}
	}
	return max * 1.01
}

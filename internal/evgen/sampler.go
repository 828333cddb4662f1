package evgen

import (
	"fmt"
	"math"

	"nucascade/internal/config"
	"nucascade/internal/reaction"
	"nucascade/internal/rng"
	"nucascade/internal/source"
)

// xsScanPoints controls the grid used to bound the folded cross section
// before rejection sampling.
const xsScanPoints = 400

// buildSpectrum constructs the projectile spectrum the configuration selects.
func buildSpectrum(cfg config.Source) (source.Spectrum, error) {
	switch cfg.Type {
	case config.SourceMono:
		return source.NewMonoenergetic(cfg.Energy)
	case config.SourceFermiDirac:
		return source.NewFermiDirac(cfg.Temperature, cfg.Eta, cfg.EMin, cfg.EMax)
	default:
		return nil, fmt.Errorf("unknown source type %q", cfg.Type)
	}
}

// foldedSampler draws projectile energies distributed as the source spectrum
// weighted by the total reaction cross section, i.e. the energies of the
// neutrinos that actually interact.
type foldedSampler struct {
	spec  source.Spectrum
	rx    *reaction.Reaction
	maxXS float64
}

// newFoldedSampler bounds the total cross section over the part of the
// source window above threshold. A window with no reachable cross section is
// rejected here rather than looping forever during sampling.
func newFoldedSampler(spec source.Spectrum, rx *reaction.Reaction) (*foldedSampler, error) {
	emin, emax := spec.Bounds()
	lo := math.Max(emin, rx.ThresholdEnergy())
	if lo > emax {
		return nil, fmt.Errorf("source window [%g, %g] MeV lies below the %g MeV reaction threshold",
			emin, emax, rx.ThresholdEnergy())
	}
	maxXS := 0.0
	for i := 0; i <= xsScanPoints; i++ {
		e := lo + (emax-lo)*float64(i)/xsScanPoints
		if v := rx.TotalXS(e); v > maxXS {
			maxXS = v
		}
	}
	if maxXS <= 0 {
		return nil, fmt.Errorf("total cross section vanishes on [%g, %g] MeV", lo, emax)
	}
	return &foldedSampler{spec: spec, rx: rx, maxXS: maxXS * 1.01}, nil
}

// Sample draws one interacting projectile energy. Safe for concurrent use
// with distinct generators.
func (f *foldedSampler) Sample(gen *rng.Generator) (float64, error) {
	for {
		e, err := f.spec.Sample(gen)
		if err != nil {
			return 0, err
		}
		if gen.Float64()*f.maxXS <= f.rx.TotalXS(e) {
			return e, nil
		}
	}
}

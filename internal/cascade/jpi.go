package cascade

import (
	"fmt"

	"nucascade/internal/rng"
	"nucascade/pkg/nucleus"
)

// SpinParityWidth is one accessible final spin-parity of a continuum
// transition together with its partial width.
type SpinParityWidth struct {
	TwoJ   int
	Parity nucleus.Parity
	Width  float64
}

// JPiSampler selects the final spin-parity of a continuum transition from a
// width table. Implementations substitute the sampling policy; production
// code draws proportionally to width while tests may pin a fixed outcome.
type JPiSampler interface {
	SampleJPi(table []SpinParityWidth, gen *rng.Generator) (twoJ int, parity nucleus.Parity, err error)
}

// WidthWeightedJPi draws a table entry with probability proportional to its
// width.
type WidthWeightedJPi struct{}

var _ JPiSampler = WidthWeightedJPi{}

// SampleJPi draws one spin-parity entry weighted by width.
func (WidthWeightedJPi) SampleJPi(table []SpinParityWidth, gen *rng.Generator) (int, nucleus.Parity, error) {
	weights := make([]float64, len(table))
	for i, e := range table {
		weights[i] = e.Width
	}
	idx, err := gen.DiscreteIndex(weights)
	if err != nil {
		return 0, 0, fmt.Errorf("sampling final spin-parity: %w", err)
	}
	return table[idx].TwoJ, table[idx].Parity, nil
}

// FixedJPi always returns the configured spin-parity, bypassing the width
// table. It exists for deterministic golden-output tests.
type FixedJPi struct {
	TwoJ   int
	Parity nucleus.Parity
}

var _ JPiSampler = FixedJPi{}

// SampleJPi returns the fixed spin-parity.
func (f FixedJPi) SampleJPi([]SpinParityWidth, *rng.Generator) (int, nucleus.Parity, error) {
	return f.TwoJ, f.Parity, nil
}

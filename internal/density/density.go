// Package density evaluates nuclear level densities for the de-excitation
// cascade. The implementation is a backshifted Fermi gas with a shell-damped
// level density parameter and the global systematics of Koning et al.,
// Nucl. Phys. A810 (2008).
package density

import (
	"math"

	"nucascade/pkg/nucleus"
)

// Model evaluates level densities in levels per MeV.
type Model interface {
	// TotalDensity is the density of levels of all spins and parities at
	// excitation energy ex.
	TotalDensity(ex float64) float64
	// SpinParityDensity is the density of levels with the given spin and
	// parity at excitation energy ex.
	SpinParityDensity(ex float64, twoJ int, parity nucleus.Parity) float64
}

// Global fit parameters for the backshifted Fermi gas.
const (
	ldAlpha       = 0.0722396
	ldBeta        = 0.195267
	ldGamma1      = 0.410289
	ldDeltaGlobal = 0.173015
)

// BackshiftedFermiGas is a level density model for a single nuclide.
type BackshiftedFermiGas struct {
	a      int
	aTilde float64
	gamma  float64
	deltaW float64
	shift  float64
	sigd2  float64
}

var _ Model = (*BackshiftedFermiGas)(nil)

// NewBackshiftedFermiGas builds the model for n. The shell correction is the
// difference between the tabulated and liquid-drop mass excesses in MeV.
func NewBackshiftedFermiGas(n nucleus.Nuclide, shellCorrection float64) *BackshiftedFermiGas {
	a := float64(n.A)
	chi := 0.0
	zEven := n.Z%2 == 0
	nEven := n.N()%2 == 0
	switch {
	case zEven && nEven:
		chi = 1
	case !zEven && !nEven:
		chi = -1
	}
	return &BackshiftedFermiGas{
		a:      n.A,
		aTilde: ldAlpha*a + ldBeta*math.Pow(a, 2.0/3.0),
		gamma:  ldGamma1 / math.Cbrt(a),
		deltaW: shellCorrection,
		shift:  ldDeltaGlobal + chi*12.0/math.Sqrt(a),
		sigd2:  math.Pow(0.83*math.Pow(a, 0.26), 2),
	}
}

// levelDensityParameter applies the damped shell correction of Ignatyuk.
func (m *BackshiftedFermiGas) levelDensityParameter(u float64) float64 {
	if u <= 0 {
		return m.aTilde * (1 + m.gamma*m.deltaW)
	}
	return m.aTilde * (1 + m.deltaW*(1-math.Exp(-m.gamma*u))/u)
}

// params returns the effective excitation energy, level density parameter,
// and spin cutoff at ex. The effective excitation is floored at the turning
// point of the Fermi gas formula, below which the closed form is invalid.
func (m *BackshiftedFermiGas) params(ex float64) (u, a, sigma2 float64) {
	u = ex - m.shift
	a = m.levelDensityParameter(u)
	uMin := 25.0 / (16.0 * a)
	if u < uMin {
		u = uMin
	}
	sigma2 = 0.01389 * math.Pow(float64(m.a), 5.0/3.0) * math.Sqrt(a*u) / m.aTilde
	if sigma2 < m.sigd2 {
		sigma2 = m.sigd2
	}
	return u, a, sigma2
}

// TotalDensity is the density of levels of all spins and parities at ex.
func (m *BackshiftedFermiGas) TotalDensity(ex float64) float64 {
	u, a, sigma2 := m.params(ex)
	return math.Exp(2*math.Sqrt(a*u)) * math.Sqrt(math.Pi) /
		(12 * math.Sqrt(2*math.Pi*sigma2) * math.Pow(a, 0.25) * math.Pow(u, 1.25))
}

// SpinFraction is the fraction of levels at ex carrying total spin twoJ/2.
// Summing over the spin grid of the nuclide gives approximately one.
func (m *BackshiftedFermiGas) SpinFraction(ex float64, twoJ int) float64 {
	if twoJ < 0 {
		return 0
	}
	_, _, sigma2 := m.params(ex)
	jPlusHalf := (float64(twoJ) + 1) / 2
	return jPlusHalf / sigma2 * math.Exp(-jPlusHalf*jPlusHalf/(2*sigma2))
}

// SpinParityDensity is the density of levels with the given spin and parity
// at ex. Both parities are taken as equally likely.
func (m *BackshiftedFermiGas) SpinParityDensity(ex float64, twoJ int, parity nucleus.Parity) float64 {
	if !parity.Valid() {
		return 0
	}
	return 0.5 * m.TotalDensity(ex) * m.SpinFraction(ex, twoJ)
}

package strength

import (
	"math"

	"nucascade/pkg/nucleus"
)

const (
	hbarC           = 197.3269804 // MeV fm
	coulombConstant = 1.43996454  // MeV fm
	// Hill-Wheeler barrier curvature in MeV.
	barrierCurvature = 4.0
)

// fragmentBarrier captures the interaction barrier between a fragment and a
// daughter nucleus for the semiclassical transmission estimate.
type fragmentBarrier struct {
	coulomb  float64
	rotScale float64
}

// newFragmentBarrier builds the barrier for emitting fragment f from a
// parent leaving the daughter nucleus. Masses are in MeV.
func newFragmentBarrier(f nucleus.Fragment, daughter nucleus.Nuclide, fragmentMass, daughterMass float64) fragmentBarrier {
	r := 1.2 * (math.Cbrt(float64(daughter.A)) + math.Cbrt(float64(f.A)))
	mu := fragmentMass * daughterMass / (fragmentMass + daughterMass)
	return fragmentBarrier{
		coulomb:  coulombConstant * float64(f.Z) * float64(daughter.Z) / r,
		rotScale: hbarC * hbarC / (2 * mu * r * r),
	}
}

// transmission evaluates the Hill-Wheeler penetrability for orbital angular
// momentum l at total center-of-mass kinetic energy eps in MeV.
func (b fragmentBarrier) transmission(l int, eps float64) float64 {
	if eps <= 0 {
		return 0
	}
	vl := b.coulomb + b.rotScale*float64(l*(l+1))
	return 1 / (1 + math.Exp(2*math.Pi*(vl-eps)/barrierCurvature))
}

package masses

import "nucascade/pkg/nucleus"

// The fragment species the compound nucleus can emit, with their intrinsic
// spins and parities.
var fragments = []nucleus.Fragment{
	{PDG: nucleus.PDGNeutron, Z: 0, A: 1, Mass: Neutron, TwoS: 1, Parity: nucleus.ParityPositive},
	{PDG: nucleus.PDGProton, Z: 1, A: 1, Mass: Proton, TwoS: 1, Parity: nucleus.ParityPositive},
	{PDG: nucleus.PDGDeuteron, Z: 1, A: 2, Mass: Deuteron, TwoS: 2, Parity: nucleus.ParityPositive},
	{PDG: nucleus.PDGTriton, Z: 1, A: 3, Mass: Triton, TwoS: 1, Parity: nucleus.ParityPositive},
	{PDG: nucleus.PDGHelion, Z: 2, A: 3, Mass: Helion, TwoS: 1, Parity: nucleus.ParityPositive},
	{PDG: nucleus.PDGAlpha, Z: 2, A: 4, Mass: Alpha, TwoS: 0, Parity: nucleus.ParityPositive},
}

// Fragments returns the emittable fragment species in a fresh slice.
func Fragments() []nucleus.Fragment {
	out := make([]nucleus.Fragment, len(fragments))
	copy(out, fragments)
	return out
}

// FragmentByPDG returns the fragment species with the given PDG code.
func FragmentByPDG(pdg int) (nucleus.Fragment, bool) {
	for _, f := range fragments {
		if f.PDG == pdg {
			return f, true
		}
	}
	return nucleus.Fragment{}, false
}

package nucleus

import "fmt"

// PDG codes for the particles handled by the generator.
const (
	// PDGElectron is the PDG code for the electron.
	PDGElectron = 11
	// PDGElectronNeutrino is the PDG code for the electron neutrino.
	PDGElectronNeutrino = 12
	// PDGPhoton is the PDG code for the photon.
	PDGPhoton = 22
	// PDGNeutron is the PDG code for the neutron.
	PDGNeutron = 2112
	// PDGProton is the PDG code for the proton.
	PDGProton = 2212
	// PDGDeuteron is the PDG code for the deuteron.
	PDGDeuteron = 1000010020
	// PDGTriton is the PDG code for the triton.
	PDGTriton = 1000010030
	// PDGHelion is the PDG code for the helium-3 nucleus.
	PDGHelion = 1000020030
	// PDGAlpha is the PDG code for the alpha particle.
	PDGAlpha = 1000020040
)

const nuclearPDGBase = 1000000000

// Nuclide identifies a nuclear species by proton and mass number.
type Nuclide struct {
	Z int `json:"z"`
	A int `json:"a"`
}

// N returns the neutron number A - Z.
func (n Nuclide) N() int { return n.A - n.Z }

// PDG returns the standard nuclear PDG code 10LZZZAAAI for the ground state.
func (n Nuclide) PDG() int {
	return nuclearPDGBase + n.Z*10000 + n.A*10
}

// Valid reports whether the nuclide has physical proton and mass numbers.
func (n Nuclide) Valid() bool {
	return n.Z >= 0 && n.A >= 1 && n.Z <= n.A
}

// Minus returns the nuclide left after removing dz protons and da-dz neutrons.
func (n Nuclide) Minus(dz, da int) Nuclide {
	return Nuclide{Z: n.Z - dz, A: n.A - da}
}

func (n Nuclide) String() string {
	return fmt.Sprintf("%d%s", n.A, ElementSymbol(n.Z))
}

// NuclideFromPDG decodes a nuclear PDG code into a Nuclide.
func NuclideFromPDG(pdg int) (Nuclide, error) {
	if !IsNuclearPDG(pdg) {
		return Nuclide{}, fmt.Errorf("PDG code %d does not identify a nucleus", pdg)
	}
	n := Nuclide{Z: (pdg / 10000) % 1000, A: (pdg / 10) % 1000}
	if !n.Valid() {
		return Nuclide{}, fmt.Errorf("PDG code %d decodes to unphysical nuclide Z=%d A=%d", pdg, n.Z, n.A)
	}
	return n, nil
}

// IsNuclearPDG reports whether the PDG code identifies a nucleus, including
// the single-nucleon codes for the proton and neutron.
func IsNuclearPDG(pdg int) bool {
	return pdg >= nuclearPDGBase || pdg == PDGNeutron || pdg == PDGProton
}

var elementSymbols = [...]string{
	"n", "H", "He", "Li", "Be", "B", "C", "N", "O", "F",
	"Ne", "Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K",
	"Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu",
	"Zn", "Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y",
	"Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In",
	"Sn", "Sb", "Te", "I", "Xe",
}

// ElementSymbol returns the chemical symbol for proton number z, or "?" when
// z lies outside the supported range.
func ElementSymbol(z int) string {
	if z < 0 || z >= len(elementSymbols) {
		return "?"
	}
	return elementSymbols[z]
}

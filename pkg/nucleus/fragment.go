package nucleus

// Fragment describes a nuclear fragment species that the compound nucleus can
// emit: its identity, rest mass, intrinsic spin, and parity. Fragment values
// are static shared data; they are read-only after construction.
type Fragment struct {
	// PDG identifies the fragment species.
	PDG int `json:"pdg"`
	// Z is the fragment proton number.
	Z int `json:"z"`
	// A is the fragment mass number.
	A int `json:"a"`
	// Mass is the fragment rest mass in MeV.
	Mass float64 `json:"mass"`
	// TwoS is twice the fragment intrinsic spin.
	TwoS int `json:"two_s"`
	// Parity is the fragment intrinsic parity.
	Parity Parity `json:"parity"`
}

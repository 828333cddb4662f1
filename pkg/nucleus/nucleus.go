// Package nucleus defines the particle, nuclide, level, and event value
// types shared across the generator.
package nucleus

import (
	"encoding/json"
	"fmt"
)

// Parity represents a nuclear parity eigenvalue, +1 or -1.
type Parity int8

// Parity eigenvalues. The zero value is invalid and rejected by Valid.
const (
	// ParityPositive is the +1 parity eigenvalue.
	ParityPositive Parity = 1
	// ParityNegative is the -1 parity eigenvalue.
	ParityNegative Parity = -1
)

// Valid reports whether p is one of the two parity eigenvalues.
func (p Parity) Valid() bool {
	return p == ParityPositive || p == ParityNegative
}

// Times returns the product of two parities.
func (p Parity) Times(q Parity) Parity {
	return Parity(int8(p) * int8(q))
}

func (p Parity) String() string {
	switch p {
	case ParityPositive:
		return "+"
	case ParityNegative:
		return "-"
	}
	return "?"
}

// ParseParity converts "+" or "-" into a Parity value.
func ParseParity(s string) (Parity, error) {
	switch s {
	case "+":
		return ParityPositive, nil
	case "-":
		return ParityNegative, nil
	}
	return 0, fmt.Errorf("invalid parity %q", s)
}

// OrbitalParity returns the parity (-1)^l carried by orbital angular momentum l.
func OrbitalParity(l int) Parity {
	if l%2 == 0 {
		return ParityPositive
	}
	return ParityNegative
}

// MarshalJSON encodes the parity as the string "+" or "-".
func (p Parity) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid parity %d", int8(p))
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a parity from the string "+" or "-".
func (p *Parity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseParity(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

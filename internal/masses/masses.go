// Package masses provides rest masses, atomic mass excesses, separation
// energies, and the liquid-drop mass formula used throughout the generator.
// Tabulated mass excesses follow the atomic-mass-evaluation convention
// (atomic masses, keV); nuclear masses are derived by removing the electrons
// and restoring their total binding energy.
package masses

import (
	"fmt"
	"math"

	"nucascade/pkg/nucleus"
)

// Rest masses and conversion constants in MeV.
const (
	// AMU is the unified atomic mass unit.
	AMU = 931.49410242
	// Electron is the electron rest mass.
	Electron = 0.51099895
	// Neutron is the neutron rest mass.
	Neutron = 939.56542052
	// Proton is the proton rest mass.
	Proton = 938.27208816
	// Deuteron is the deuteron rest mass.
	Deuteron = 1875.61294257
	// Triton is the triton rest mass.
	Triton = 2808.92113298
	// Helion is the helium-3 nucleus rest mass.
	Helion = 2808.39160743
	// Alpha is the alpha particle rest mass.
	Alpha = 3727.3794066
)

// Atomic mass excesses of the light ejectiles in keV.
const (
	neutronExcessKeV  = 8071.3
	hydrogenExcessKeV = 7289.0
	deuteronExcessKeV = 13135.7
	tritonExcessKeV   = 14949.8
	helionExcessKeV   = 14931.2
	alphaExcessKeV    = 2424.9
)

// Atomic mass excesses in keV for the nuclides reachable from the supported
// targets. Nuclides outside the table fall back to the liquid-drop formula.
var massExcessKeV = map[nucleus.Nuclide]float64{
	{Z: 0, A: 1}:   neutronExcessKeV,
	{Z: 1, A: 1}:   hydrogenExcessKeV,
	{Z: 1, A: 2}:   deuteronExcessKeV,
	{Z: 1, A: 3}:   tritonExcessKeV,
	{Z: 2, A: 3}:   helionExcessKeV,
	{Z: 2, A: 4}:   alphaExcessKeV,
	{Z: 16, A: 34}: -29931.7,
	{Z: 16, A: 35}: -28846.4,
	{Z: 16, A: 36}: -30664.1,
	{Z: 17, A: 35}: -29013.5,
	{Z: 17, A: 36}: -29521.9,
	{Z: 17, A: 37}: -31761.5,
	{Z: 17, A: 38}: -29798.1,
	{Z: 17, A: 39}: -29800.2,
	{Z: 18, A: 36}: -30231.5,
	{Z: 18, A: 37}: -30947.9,
	{Z: 18, A: 38}: -34714.7,
	{Z: 18, A: 39}: -33242.0,
	{Z: 18, A: 40}: -35039.9,
	{Z: 18, A: 41}: -33067.6,
	{Z: 19, A: 38}: -28800.7,
	{Z: 19, A: 39}: -33807.0,
	{Z: 19, A: 40}: -33535.5,
	{Z: 19, A: 41}: -35559.5,
	{Z: 20, A: 40}: -34846.3,
	{Z: 20, A: 41}: -35137.9,
}

// Table resolves masses and separation energies for nuclides and particles.
type Table struct{}

// NewTable returns the mass table service.
func NewTable() *Table { return &Table{} }

// MassExcess returns the tabulated atomic mass excess in MeV and whether the
// nuclide was present in the table.
func (t *Table) MassExcess(n nucleus.Nuclide) (float64, bool) {
	d, ok := massExcessKeV[n]
	return d / 1000, ok
}

// AtomicMassExcess returns the atomic mass excess in MeV, falling back to
// the liquid-drop formula for nuclides outside the table.
func (t *Table) AtomicMassExcess(n nucleus.Nuclide) float64 {
	if d, ok := t.MassExcess(n); ok {
		return d
	}
	return LiquidDropMassExcess(n.Z, n.A)
}

// AtomicMass returns the atomic mass in MeV.
func (t *Table) AtomicMass(n nucleus.Nuclide) float64 {
	return float64(n.A)*AMU + t.AtomicMassExcess(n)
}

// NuclearMass returns the bare nuclear ground-state mass in MeV.
func (t *Table) NuclearMass(n nucleus.Nuclide) float64 {
	return t.AtomicMass(n) - float64(n.Z)*Electron + ElectronBinding(n.Z)
}

// Separation returns the energy in MeV needed to remove the fragment from
// the ground state of nuclide n, computed from atomic mass excesses.
func (t *Table) Separation(n nucleus.Nuclide, f nucleus.Fragment) (float64, error) {
	daughter := n.Minus(f.Z, f.A)
	if !daughter.Valid() {
		return 0, fmt.Errorf("no daughter nuclide removing %s from %s", nucleus.ElementSymbol(f.Z), n)
	}
	fragExcess, ok := t.MassExcess(nucleus.Nuclide{Z: f.Z, A: f.A})
	if !ok {
		return 0, fmt.Errorf("no mass excess for fragment with PDG %d", f.PDG)
	}
	return t.AtomicMassExcess(daughter) + fragExcess - t.AtomicMassExcess(n), nil
}

// ParticleMass returns the rest mass in MeV for any particle species the
// generator handles.
func (t *Table) ParticleMass(pdg int) (float64, error) {
	switch pdg {
	case nucleus.PDGPhoton, nucleus.PDGElectronNeutrino:
		return 0, nil
	case nucleus.PDGElectron:
		return Electron, nil
	case nucleus.PDGNeutron:
		return Neutron, nil
	case nucleus.PDGProton:
		return Proton, nil
	case nucleus.PDGDeuteron:
		return Deuteron, nil
	case nucleus.PDGTriton:
		return Triton, nil
	case nucleus.PDGHelion:
		return Helion, nil
	case nucleus.PDGAlpha:
		return Alpha, nil
	}
	if n, err := nucleus.NuclideFromPDG(pdg); err == nil {
		return t.NuclearMass(n), nil
	}
	return 0, fmt.Errorf("no mass known for PDG code %d", pdg)
}

// ShellCorrection returns the difference between the tabulated and
// liquid-drop mass excesses in MeV. It vanishes for nuclides served by the
// liquid-drop fallback.
func (t *Table) ShellCorrection(n nucleus.Nuclide) float64 {
	return t.AtomicMassExcess(n) - LiquidDropMassExcess(n.Z, n.A)
}

// LiquidDropMassExcess evaluates the semi-empirical atomic mass excess in
// MeV for proton number z and mass number a.
func LiquidDropMassExcess(z, a int) float64 {
	n := a - z
	af := float64(a)
	asym := float64(n-z) / af
	symFactor := 1 - 1.79*asym*asym
	c1 := 15.677 * symFactor
	c2 := 18.56 * symFactor
	const (
		c3 = 0.717
		c4 = 1.21129
	)
	binding := c1*af - c2*math.Pow(af, 2.0/3.0) -
		c3*float64(z*z)/math.Cbrt(af) + c4*float64(z*z)/af
	delta := 11.0 / math.Sqrt(af)
	switch {
	case z%2 == 0 && n%2 == 0:
		binding += delta
	case z%2 == 1 && n%2 == 1:
		binding -= delta
	}
	return float64(z)*hydrogenExcessKeV/1000 + float64(n)*neutronExcessKeV/1000 - binding
}

// ElectronBinding returns the total binding energy in MeV of the z atomic
// electrons.
func ElectronBinding(z int) float64 {
	if z <= 0 {
		return 0
	}
	zf := float64(z)
	ev := 14.4381*math.Pow(zf, 2.39) + 1.55468e-6*math.Pow(zf, 5.35)
	return ev * 1e-6
}

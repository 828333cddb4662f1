package cascade

import (
	"errors"
	"math"
	"testing"

	"nucascade/internal/numeric"
	"nucascade/internal/rng"
	"nucascade/pkg/nucleus"
)

func flatJPi(float64) []SpinParityWidth {
	return []SpinParityWidth{{TwoJ: 2, Parity: nucleus.ParityPositive, Width: 1}}
}

func TestGammaContinuumSamplesWithinWindow(t *testing.T) {
	ch, err := NewGammaContinuum(1.0, 2.0, 5.0, func(x float64) float64 { return x },
		flatJPi, nil, k40GSMass)
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}
	gen := rng.New(21)
	nuclide := nucleus.Nuclide{Z: 19, A: 40}
	for i := 0; i < 2000; i++ {
		st := State{Nuclide: nuclide, Ex: 6.0, TwoJ: 2, Parity: nucleus.ParityPositive, LevelIndex: ContinuumLevel}
		parent := nucleus.NewParticleAtRest(nuclide.PDG(), k40GSMass+6.0)
		_, _, err := ch.Decay(&st, parent, gen)
		if err != nil {
			t.Fatalf("decay %d: %v", i, err)
		}
		if st.Ex < 2.0 || st.Ex > 5.0 {
			t.Fatalf("sampled excitation %v outside [2, 5]", st.Ex)
		}
		if st.LevelIndex != ContinuumLevel {
			t.Fatalf("continuum decay landed on a level index %d", st.LevelIndex)
		}
	}
}

func TestGammaContinuumHistogramMatchesDensity(t *testing.T) {
	ch, err := NewGammaContinuum(1.0, 2.0, 5.0, func(x float64) float64 { return x },
		flatJPi, nil, k40GSMass)
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}
	gen := rng.New(22)
	nuclide := nucleus.Nuclide{Z: 19, A: 40}
	const n = 30000
	var bins [3]int
	for i := 0; i < n; i++ {
		st := State{Nuclide: nuclide, Ex: 6.0, TwoJ: 2, Parity: nucleus.ParityPositive, LevelIndex: ContinuumLevel}
		parent := nucleus.NewParticleAtRest(nuclide.PDG(), k40GSMass+6.0)
		if _, _, err := ch.Decay(&st, parent, gen); err != nil {
			t.Fatalf("decay: %v", err)
		}
		switch {
		case st.Ex < 3:
			bins[0]++
		case st.Ex < 4:
			bins[1]++
		default:
			bins[2]++
		}
	}
	want := [3]float64{5.0 / 21, 7.0 / 21, 9.0 / 21}
	for i, cnt := range bins {
		got := float64(cnt) / n
		if math.Abs(got-want[i]) > 0.015 {
			t.Fatalf("bin %d fraction %v, expected about %v", i, got, want[i])
		}
	}
}

func TestGammaContinuumConservesEnergy(t *testing.T) {
	ch, err := NewGammaContinuum(1.0, 2.0, 5.0, func(x float64) float64 { return x },
		flatJPi, nil, k40GSMass)
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}
	gen := rng.New(23)
	nuclide := nucleus.Nuclide{Z: 19, A: 40}
	st := State{Nuclide: nuclide, Ex: 5.0, TwoJ: 2, Parity: nucleus.ParityPositive, LevelIndex: ContinuumLevel}
	parent := nucleus.NewParticleAtRest(nuclide.PDG(), k40GSMass+5.0)
	photon, residual, err := ch.Decay(&st, parent, gen)
	if err != nil {
		t.Fatalf("decay: %v", err)
	}
	if got := photon.TotalEnergy() + residual.TotalEnergy(); math.Abs(got-(k40GSMass+5.0)) > 1e-6 {
		t.Fatalf("energy not conserved: %v", got)
	}
	if math.Abs(residual.P4.M()-(k40GSMass+st.Ex)) > 1e-6 {
		t.Fatalf("residual mass %v does not match sampled excitation %v", residual.P4.M(), st.Ex)
	}
}

func TestContinuumJPiSelection(t *testing.T) {
	table := func(float64) []SpinParityWidth {
		return []SpinParityWidth{
			{TwoJ: 2, Parity: nucleus.ParityPositive, Width: 0},
			{TwoJ: 4, Parity: nucleus.ParityNegative, Width: 3},
		}
	}
	ch, err := NewGammaContinuum(1.0, 2.0, 5.0, func(x float64) float64 { return x },
		table, nil, k40GSMass)
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}
	gen := rng.New(24)
	nuclide := nucleus.Nuclide{Z: 19, A: 40}
	for i := 0; i < 50; i++ {
		st := State{Nuclide: nuclide, Ex: 6.0, TwoJ: 2, Parity: nucleus.ParityPositive, LevelIndex: ContinuumLevel}
		parent := nucleus.NewParticleAtRest(nuclide.PDG(), k40GSMass+6.0)
		if _, _, err := ch.Decay(&st, parent, gen); err != nil {
			t.Fatalf("decay: %v", err)
		}
		if st.TwoJ != 4 || st.Parity != nucleus.ParityNegative {
			t.Fatalf("zero-width spin-parity entry was selected: %+v", st)
		}
	}
}

func TestFixedJPiBypassesWidthTable(t *testing.T) {
	ch, err := NewGammaContinuum(1.0, 2.0, 5.0, func(x float64) float64 { return x },
		flatJPi, FixedJPi{TwoJ: 6, Parity: nucleus.ParityNegative}, k40GSMass)
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}
	nuclide := nucleus.Nuclide{Z: 19, A: 40}
	st := State{Nuclide: nuclide, Ex: 6.0, TwoJ: 2, Parity: nucleus.ParityPositive, LevelIndex: ContinuumLevel}
	parent := nucleus.NewParticleAtRest(nuclide.PDG(), k40GSMass+6.0)
	if _, _, err := ch.Decay(&st, parent, rng.New(25)); err != nil {
		t.Fatalf("decay: %v", err)
	}
	if st.TwoJ != 6 || st.Parity != nucleus.ParityNegative {
		t.Fatalf("fixed spin-parity policy ignored: %+v", st)
	}
}

func TestContinuumDegenerateDensityFails(t *testing.T) {
	ch, err := NewGammaContinuum(1.0, 2.0, 5.0, func(float64) float64 { return 0 },
		flatJPi, nil, k40GSMass)
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}
	nuclide := nucleus.Nuclide{Z: 19, A: 40}
	st := State{Nuclide: nuclide, Ex: 6.0, TwoJ: 2, Parity: nucleus.ParityPositive, LevelIndex: ContinuumLevel}
	parent := nucleus.NewParticleAtRest(nuclide.PDG(), k40GSMass+6.0)
	_, _, err = ch.Decay(&st, parent, rng.New(26))
	if !errors.Is(err, numeric.ErrDegenerateDensity) {
		t.Fatalf("expected degenerate density error, got %v", err)
	}
}

func TestFragmentContinuumDecay(t *testing.T) {
	const (
		parentGSMass   = 38000.0
		neutronMass    = 939.5
		daughterGSMass = 37068.3
		exi            = 10.0
	)
	sn := neutronMass + daughterGSMass - parentGSMass
	neutron := nucleus.Fragment{PDG: nucleus.PDGNeutron, Z: 0, A: 1, Mass: neutronMass, TwoS: 1, Parity: nucleus.ParityPositive}
	daughter := nucleus.Nuclide{Z: 18, A: 39}
	pdf := func(exf float64) (float64, float64) {
		return 1.0, exi - sn - exf
	}

	ch, err := NewFragmentContinuum(2.0, neutron, daughter, 0.5, 2.0, pdf, flatJPi, nil, daughterGSMass)
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}
	if !ch.Continuum() || !ch.EmitsFragment() || ch.EmittedPDG() != nucleus.PDGNeutron {
		t.Fatalf("unexpected channel capabilities")
	}

	gen := rng.New(27)
	for i := 0; i < 500; i++ {
		st := State{Nuclide: nucleus.Nuclide{Z: 18, A: 40}, Ex: exi, TwoJ: 2, Parity: nucleus.ParityPositive, LevelIndex: ContinuumLevel}
		parent := nucleus.NewParticleAtRest(st.Nuclide.PDG(), parentGSMass+exi)
		emitted, residual, err := ch.Decay(&st, parent, gen)
		if err != nil {
			t.Fatalf("decay %d: %v", i, err)
		}
		if st.Nuclide != daughter || st.LevelIndex != ContinuumLevel {
			t.Fatalf("state not moved into the daughter continuum: %+v", st)
		}
		if st.Ex < 0.5 || st.Ex > 2.0 {
			t.Fatalf("sampled daughter excitation %v outside [0.5, 2]", st.Ex)
		}
		if got := emitted.TotalEnergy() + residual.TotalEnergy(); math.Abs(got-(parentGSMass+exi)) > 1e-6 {
			t.Fatalf("energy not conserved: %v", got)
		}
		if math.Abs(residual.P4.M()-(daughterGSMass+st.Ex)) > 1e-6 {
			t.Fatalf("residual mass %v does not match sampled excitation %v", residual.P4.M(), st.Ex)
		}
	}
}

func TestContinuumConstructorValidation(t *testing.T) {
	if _, err := NewGammaContinuum(-1, 2, 5, func(float64) float64 { return 1 }, flatJPi, nil, k40GSMass); err == nil {
		t.Fatalf("expected error for negative width")
	}
	if _, err := NewGammaContinuum(1, 5, 5, func(float64) float64 { return 1 }, flatJPi, nil, k40GSMass); err == nil {
		t.Fatalf("expected error for empty energy window")
	}
	if _, err := NewGammaContinuum(1, 2, 5, nil, flatJPi, nil, k40GSMass); err == nil {
		t.Fatalf("expected error for missing density")
	}
	if _, err := NewGammaContinuum(1, 2, 5, func(float64) float64 { return 1 }, nil, nil, k40GSMass); err == nil {
		t.Fatalf("expected error for missing spin-parity table")
	}
	if _, err := NewFragmentContinuum(1, nucleus.Fragment{}, nucleus.Nuclide{Z: 1, A: 1}, 2, 5, nil, flatJPi, nil, 0); err == nil {
		t.Fatalf("expected error for missing fragment density")
	}
}

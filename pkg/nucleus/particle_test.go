package nucleus

import (
	"encoding/json"
	"math"
	"testing"
)

func TestNewParticleOnShell(t *testing.T) {
	p := NewParticle(PDGElectron, 3, 4, 0, 0.511)
	want := math.Sqrt(9 + 16 + 0.511*0.511)
	if math.Abs(p.TotalEnergy()-want) > 1e-12 {
		t.Fatalf("expected E=%v, got %v", want, p.TotalEnergy())
	}
	if math.Abs(p.Momentum()-5) > 1e-12 {
		t.Fatalf("expected |p|=5, got %v", p.Momentum())
	}
	if math.Abs(p.KineticEnergy()-(want-0.511)) > 1e-12 {
		t.Fatalf("expected KE=%v, got %v", want-0.511, p.KineticEnergy())
	}
}

func TestNewParticleAtRest(t *testing.T) {
	p := NewParticleAtRest(PDGNeutron, 939.565)
	if p.Momentum() != 0 {
		t.Fatalf("expected zero momentum at rest, got %v", p.Momentum())
	}
	if p.TotalEnergy() != 939.565 {
		t.Fatalf("expected E=m at rest, got %v", p.TotalEnergy())
	}
}

func TestNewParticleWithEnergyDirection(t *testing.T) {
	p := NewParticleWithEnergy(PDGElectron, 10, 0, 0, 2, 0.511)
	if p.Px() != 0 || p.Py() != 0 {
		t.Fatalf("expected momentum along z, got px=%v py=%v", p.Px(), p.Py())
	}
	wantP := math.Sqrt(100 - 0.511*0.511)
	if math.Abs(p.Pz()-wantP) > 1e-12 {
		t.Fatalf("expected pz=%v, got %v", wantP, p.Pz())
	}
	if math.Abs(p.TotalEnergy()-10) > 1e-12 {
		t.Fatalf("expected E=10, got %v", p.TotalEnergy())
	}
}

func TestParticleJSONRoundTrip(t *testing.T) {
	p := NewParticle(PDGProton, 1, 2, 3, 938.272)
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Particle
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.PDG != p.PDG || back.Mass != p.Mass {
		t.Fatalf("expected identity after round trip, got %+v", back)
	}
	if math.Abs(back.Px()-p.Px()) > 1e-12 || math.Abs(back.TotalEnergy()-p.TotalEnergy()) > 1e-12 {
		t.Fatalf("expected momentum preserved, got %+v", back)
	}
}

package nucleus

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func testEvent() Event {
	projectile := NewParticle(PDGElectronNeutrino, 0, 0, 15, 0)
	target := NewParticleAtRest(1000180400, 37224.7)
	ejectile := NewParticle(PDGElectron, 0, 1, 8, 0.511)
	residue := NewParticle(1000190400, 0, -1, 7, 37230.2)
	return NewEvent(projectile, target, ejectile, residue, 2.29)
}

func TestEventAccessors(t *testing.T) {
	ev := testEvent()
	if ev.Projectile().PDG != PDGElectronNeutrino {
		t.Fatalf("expected neutrino projectile, got %d", ev.Projectile().PDG)
	}
	if ev.Target().PDG != 1000180400 {
		t.Fatalf("expected 40Ar target, got %d", ev.Target().PDG)
	}
	if ev.Ejectile().PDG != PDGElectron {
		t.Fatalf("expected electron ejectile, got %d", ev.Ejectile().PDG)
	}
	if ev.Residue().PDG != 1000190400 {
		t.Fatalf("expected 40K residue, got %d", ev.Residue().PDG)
	}
	if ev.Ex() != 2.29 {
		t.Fatalf("expected Ex=2.29, got %v", ev.Ex())
	}
}

func TestEventAccessorPanicsWhenEmpty(t *testing.T) {
	var ev Event
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic accessing projectile of empty event")
		}
	}()
	ev.Projectile()
}

func TestEventAddAndSetResidue(t *testing.T) {
	ev := testEvent()
	gamma := NewParticle(PDGPhoton, 0, 0, 1.2, 0)
	ev.AddFinal(gamma)
	if ev.FinalCount() != 3 {
		t.Fatalf("expected 3 final particles, got %d", ev.FinalCount())
	}
	newResidue := NewParticleAtRest(1000190400, 37228.9)
	ev.SetResidue(newResidue)
	if ev.Residue().Mass != 37228.9 {
		t.Fatalf("expected residue replaced, got mass %v", ev.Residue().Mass)
	}
	if ev.FinalParticles()[2].PDG != PDGPhoton {
		t.Fatalf("expected appended photon to remain last")
	}
}

func TestEventCloneIsDeep(t *testing.T) {
	ev := testEvent()
	cp := ev.Clone()
	cp.SetResidue(NewParticleAtRest(1000190400, 1))
	cp.AddFinal(NewParticle(PDGPhoton, 0, 0, 1, 0))
	cp.SetEx(0)
	if ev.Residue().Mass != 37230.2 {
		t.Fatalf("expected source residue unchanged, got %v", ev.Residue().Mass)
	}
	if ev.FinalCount() != 2 {
		t.Fatalf("expected source final count unchanged, got %d", ev.FinalCount())
	}
	if ev.Ex() != 2.29 {
		t.Fatalf("expected source Ex unchanged, got %v", ev.Ex())
	}
}

func TestEventTakeEmptiesSource(t *testing.T) {
	ev := testEvent()
	moved := ev.Take()
	if moved.FinalCount() != 2 || moved.Ex() != 2.29 {
		t.Fatalf("expected moved event to carry contents, got %d final Ex=%v",
			moved.FinalCount(), moved.Ex())
	}
	if ev.FinalCount() != 0 || len(ev.InitialParticles()) != 0 || ev.Ex() != 0 {
		t.Fatalf("expected source emptied after move")
	}
}

func TestEventJSONRoundTrip(t *testing.T) {
	ev := testEvent()
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"initial_particles"`) {
		t.Fatalf("expected initial_particles key in %s", data)
	}
	var back Event
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.FinalCount() != ev.FinalCount() || back.Ex() != ev.Ex() {
		t.Fatalf("expected identity after round trip")
	}
	if math.Abs(back.Ejectile().Pz()-ev.Ejectile().Pz()) > 1e-12 {
		t.Fatalf("expected ejectile momentum preserved")
	}
}

func TestEventString(t *testing.T) {
	ev := testEvent()
	out := ev.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected projectile plus 2 final lines, got %d", len(lines))
	}
	if (Event{}).String() != "" {
		t.Fatalf("expected empty string for empty event")
	}
}

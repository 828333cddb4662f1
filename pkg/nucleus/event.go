package nucleus

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Indices of the fixed particles within an event's particle lists.
const (
	projectileIndex = 0
	targetIndex     = 1
	ejectileIndex   = 0
	residueIndex    = 1
)

// Event is one generated reaction event: the ordered initial-state particles
// (projectile, target), the ordered final-state particles (ejectile, residue,
// then any de-excitation products in emission order), and the excitation
// energy of the residue immediately after the two-to-two reaction.
type Event struct {
	initial []Particle
	final   []Particle
	ex      float64
}

// NewEvent creates a two-to-two scattering event with the given projectile,
// target, ejectile, and residue. The residue carries excitation energy ex
// immediately following the reaction.
func NewEvent(projectile, target, ejectile, residue Particle, ex float64) Event {
	return Event{
		initial: []Particle{projectile, target},
		final:   []Particle{ejectile, residue},
		ex:      ex,
	}
}

// Projectile returns the initial-state projectile. It panics when the event
// has no initial particles, which indicates a programming error.
func (e Event) Projectile() Particle { return e.initialAt(projectileIndex) }

// Target returns the initial-state target nucleus. It panics when the event
// has no target, which indicates a programming error.
func (e Event) Target() Particle { return e.initialAt(targetIndex) }

// Ejectile returns the final-state ejectile. It panics when the event has no
// final particles, which indicates a programming error.
func (e Event) Ejectile() Particle { return e.finalAt(ejectileIndex) }

// Residue returns the final-state residual nucleus. It panics when the event
// has no residue, which indicates a programming error.
func (e Event) Residue() Particle { return e.finalAt(residueIndex) }

func (e Event) initialAt(i int) Particle {
	if i >= len(e.initial) {
		panic(fmt.Sprintf("event has %d initial particles, index %d requested", len(e.initial), i))
	}
	return e.initial[i]
}

func (e Event) finalAt(i int) Particle {
	if i >= len(e.final) {
		panic(fmt.Sprintf("event has %d final particles, index %d requested", len(e.final), i))
	}
	return e.final[i]
}

// SetResidue replaces the final-state residual nucleus. It panics when the
// event has no residue slot, which indicates a programming error.
func (e *Event) SetResidue(p Particle) {
	if len(e.final) <= residueIndex {
		panic(fmt.Sprintf("event has %d final particles, cannot set residue", len(e.final)))
	}
	e.final[residueIndex] = p
}

// AddInitial appends a particle to the initial-state list.
func (e *Event) AddInitial(p Particle) { e.initial = append(e.initial, p) }

// AddFinal appends a particle to the final-state list.
func (e *Event) AddFinal(p Particle) { e.final = append(e.final, p) }

// InitialParticles returns a copy of the initial-state particle list.
func (e Event) InitialParticles() []Particle {
	out := make([]Particle, len(e.initial))
	copy(out, e.initial)
	return out
}

// FinalParticles returns a copy of the final-state particle list.
func (e Event) FinalParticles() []Particle {
	out := make([]Particle, len(e.final))
	copy(out, e.final)
	return out
}

// FinalCount returns the number of final-state particles.
func (e Event) FinalCount() int { return len(e.final) }

// Ex returns the residue excitation energy in MeV.
func (e Event) Ex() float64 { return e.ex }

// SetEx records the residue excitation energy in MeV.
func (e *Event) SetEx(ex float64) { e.ex = ex }

// Clone returns a deep copy of the event. Mutating the copy never affects
// the source.
func (e Event) Clone() Event {
	out := Event{ex: e.ex}
	if e.initial != nil {
		out.initial = make([]Particle, len(e.initial))
		copy(out.initial, e.initial)
	}
	if e.final != nil {
		out.final = make([]Particle, len(e.final))
		copy(out.final, e.final)
	}
	return out
}

// Take moves the event contents into the returned value, leaving the
// receiver empty.
func (e *Event) Take() Event {
	out := Event{initial: e.initial, final: e.final, ex: e.ex}
	e.initial = nil
	e.final = nil
	e.ex = 0
	return out
}

// String renders the projectile followed by each final-state particle, one
// per line.
func (e Event) String() string {
	if len(e.initial) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%v\n", e.initial[projectileIndex])
	for _, p := range e.final {
		fmt.Fprintf(&b, "%v\n", p)
	}
	return b.String()
}

// Write dumps the event in the same plain-text form as String.
func (e Event) Write(w io.Writer) error {
	_, err := io.WriteString(w, e.String())
	return err
}

type eventJSON struct {
	Initial []Particle `json:"initial_particles"`
	Final   []Particle `json:"final_particles"`
	Ex      float64    `json:"Ex"`
}

// MarshalJSON encodes the event particle lists and excitation energy.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{Initial: e.initial, Final: e.final, Ex: e.ex})
}

// UnmarshalJSON decodes an event from its particle lists and excitation
// energy.
func (e *Event) UnmarshalJSON(data []byte) error {
	var aux eventJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.initial = aux.Initial
	e.final = aux.Final
	e.ex = aux.Ex
	return nil
}

// pkg/engine/phase.go
package engine

import "fmt"

// Phase is the state of the current round.
type Phase int

const (
	PhaseReady Phase = iota
	PhaseFiring
	PhaseHit
	PhaseMiss
)

var phaseNames = map[Phase]string{
	PhaseReady:  "ready",
	PhaseFiring: "firing",
	PhaseHit:    "hit",
	PhaseMiss:   "miss",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// HasProjectile reports whether a projectile exists in this phase.
func (p Phase) HasProjectile() bool {
	return p == PhaseFiring || p == PhaseHit || p == PhaseMiss
}

// Terminal reports whether the flight has ended.
func (p Phase) Terminal() bool {
	return p == PhaseHit || p == PhaseMiss
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name written by MarshalText.
func (p *Phase) UnmarshalText(text []byte) error {
	for phase, name := range phaseNames {
		if name == string(text) {
			*p = phase
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

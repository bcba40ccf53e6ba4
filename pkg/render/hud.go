// pkg/render/hud.go
package render

import (
	"fmt"

	"github.com/opd-ai/go-cannon/pkg/engine"
	"github.com/opd-ai/go-cannon/pkg/physics"
)

// HUD messages
const (
	MessageHit          = "Hit!"
	MessageMiss         = "Miss! Try again."
	MessageInvalidSpeed = "Please enter a valid initial speed."
)

// HUD is the text panel shown next to the field. Distances are in metres
// relative to the cannon pivot with y pointing up.
type HUD struct {
	Phase          engine.Phase
	Round          uint64
	AngleDegrees   float64
	SpeedText      string
	TargetDistance float64
	TargetRelative physics.Vector2D
	// Shot fields are only meaningful when HasShot is set.
	HasShot    bool
	Position   physics.Vector2D
	Velocity   physics.Vector2D
	FlightTime float64
	Message    string
}

// BuildHUD assembles the HUD for snap. message overrides the phase message
// when it is not empty.
func BuildHUD(snap *engine.Snapshot, speedText, message string) HUD {
	hud := HUD{
		Phase:          snap.Phase,
		Round:          snap.Round,
		AngleDegrees:   snap.AngleDegrees,
		SpeedText:      speedText,
		TargetDistance: snap.TargetDistance,
		TargetRelative: snap.TargetRelative,
		FlightTime:     snap.FlightTime,
		Message:        message,
	}

	if snap.Shot != nil {
		hud.HasShot = true
		hud.Position = snap.Shot.Relative
		hud.Velocity = physics.Vector2D{X: snap.Shot.Instant.X, Y: -snap.Shot.Instant.Y}
	}

	if hud.Message == "" {
		switch snap.Phase {
		case engine.PhaseHit:
			hud.Message = MessageHit
		case engine.PhaseMiss:
			hud.Message = MessageMiss
		}
	}
	return hud
}

// Lines formats the HUD as text lines, one decimal place per value.
func (h HUD) Lines() []string {
	lines := []string{
		fmt.Sprintf("Round %d  Angle: %.1f°  Speed: %s m/s", h.Round, h.AngleDegrees, h.SpeedText),
		fmt.Sprintf("Target: x: %.1fm, y: %.1fm  Distance: %.1fm",
			h.TargetRelative.X, h.TargetRelative.Y, h.TargetDistance),
	}

	if h.HasShot {
		lines = append(lines, fmt.Sprintf("Projectile: x: %.1fm, y: %.1fm  vx: %.1f m/s, vy: %.1f m/s  t: %.2fs",
			h.Position.X, h.Position.Y, h.Velocity.X, h.Velocity.Y, h.FlightTime))
	} else {
		lines = append(lines, "Projectile: -")
	}

	lines = append(lines, h.Message)
	return lines
}

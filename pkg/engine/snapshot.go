// pkg/engine/snapshot.go
package engine

import (
	"math"
	"sync"

	"github.com/opd-ai/go-cannon/pkg/physics"
)

// ShotView describes the shot in a snapshot.
type ShotView struct {
	ProjectileState
	Speed    float64          `json:"speed"`    // m/s
	Angle    float64          `json:"angle"`    // radians
	Instant  physics.Vector2D `json:"instant"`  // velocity now, m/s
	Relative physics.Vector2D `json:"relative"` // metres from the cannon, y up
}

// Snapshot is an immutable copy of the engine state for renderers and
// readers on other goroutines.
type Snapshot struct {
	Phase           Phase              `json:"phase"`
	Round           uint64             `json:"round"`
	Shots           uint64             `json:"shots"`
	Angle           float64            `json:"angle"`
	AngleDegrees    float64            `json:"angleDegrees"`
	Origin          physics.Vector2D   `json:"origin"`
	BarrelLength    float64            `json:"barrelLength"`
	Field           physics.Field      `json:"field"`
	Target          Target             `json:"target"`
	TargetRelative  physics.Vector2D   `json:"targetRelative"`
	TargetDistance  float64            `json:"targetDistance"`
	Shot            *ShotView          `json:"shot,omitempty"`
	Trajectory      []physics.Vector2D `json:"trajectory"`
	VelocitySamples []VelocitySample   `json:"velocitySamples"`
	FlightTime      float64            `json:"flightTime"`
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() *Snapshot {
	s := &Snapshot{
		Phase:           e.phase,
		Round:           e.round,
		Shots:           e.shot,
		Angle:           e.angle,
		AngleDegrees:    e.angle * 180 / math.Pi,
		Origin:          e.origin,
		BarrelLength:    e.cfg.Cannon.BarrelLength,
		Field:           e.field,
		Target:          e.target,
		TargetRelative:  e.TargetRelative(),
		TargetDistance:  e.TargetDistance(),
		Trajectory:      e.Trajectory(),
		VelocitySamples: e.VelocitySamples(),
		FlightTime:      e.FlightTime(),
	}

	if p, ok := e.Projectile(); ok {
		instant, _ := e.InstantVelocity()
		s.Shot = &ShotView{
			ProjectileState: p,
			Speed:           e.shotSpeed,
			Angle:           e.shotAngle,
			Instant:         instant,
			Relative:        e.units.RelativeToOrigin(p.Position),
		}
	}
	return s
}

// SnapshotStore hands the latest snapshot from the driver loop to readers
// on other goroutines.
type SnapshotStore struct {
	mu     sync.RWMutex
	latest *Snapshot
}

// NewSnapshotStore creates an empty store
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Publish replaces the stored snapshot. The snapshot must not be modified
// afterwards.
func (s *SnapshotStore) Publish(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = snap
}

// Latest returns the most recent snapshot, or nil before the first Publish.
func (s *SnapshotStore) Latest() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// pkg/engine/engine.go
package engine

import (
	"context"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/opd-ai/go-cannon/pkg/config"
	"github.com/opd-ai/go-cannon/pkg/event"
	"github.com/opd-ai/go-cannon/pkg/logging"
	"github.com/opd-ai/go-cannon/pkg/physics"
)

// sampleEpsilon absorbs float drift when summing frame deltas against the
// plot interval (0.1 added four times is not exactly 0.4 in every order).
const sampleEpsilon = 1e-9

// ProjectileState is the kinematic state of the live or finished shot.
type ProjectileState struct {
	// Position is in pixels, Velocity is the launch velocity in m/s
	Position physics.Vector2D `json:"position"`
	Velocity physics.Vector2D `json:"velocity"`
	// ElapsedFlightTime is the total time since fire in seconds
	ElapsedFlightTime float64 `json:"elapsedFlightTime"`
}

// Target is the circle the player aims at
type Target struct {
	Position physics.Vector2D `json:"position"`
	Radius   float64          `json:"radius"`
}

// Circle returns the hit area of the target
func (t Target) Circle() physics.Circle {
	return physics.Circle{Center: t.Position, Radius: t.Radius}
}

// VelocitySample is a velocity vector recorded at a point of the trajectory.
type VelocitySample struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"` // instantaneous, m/s, positive down
}

// Engine owns one cannon, one target and at most one shot in flight.
//
// It is advanced only by its commands: SetAngle, Fire, Tick and Reset. The
// engine starts no goroutines and holds no locks; a single driver loop is
// expected to call it. Other goroutines read state through a SnapshotStore.
type Engine struct {
	cfg    *config.TrainerConfig
	rng    *rand.Rand
	bus    *event.Bus
	logger *logging.Logger

	field  physics.Field
	origin physics.Vector2D
	units  physics.Units

	phase Phase
	angle float64 // pending angle for the next fire, radians

	target     Target
	projectile ProjectileState
	flight     physics.Ballistic
	shotAngle  float64
	shotSpeed  float64

	trajectory      []physics.Vector2D
	velocitySamples []VelocitySample
	sampleAcc       float64

	round   uint64
	shot    uint64
	roundID string
}

// NewEngine creates an engine with a random initial angle and target.
//
// A nil cfg uses config.DefaultConfig. A nil rng is seeded from the wall
// clock; pass a seeded *rand.Rand for reproducible rounds. A nil bus or
// logger gets a private bus or a discarding logger.
func NewEngine(cfg *config.TrainerConfig, rng *rand.Rand, bus *event.Bus, logger *logging.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, logging.WrapError(err, "invalid trainer config")
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	if bus == nil {
		bus = event.NewEventBus()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	e := &Engine{
		cfg:    cfg,
		rng:    rng,
		bus:    bus,
		logger: logger,
		field: physics.Field{
			Width:   cfg.Field.Width,
			Height:  cfg.Field.Height,
			GroundY: cfg.GroundY(),
		},
		origin: physics.Vector2D{X: cfg.Cannon.OriginX, Y: cfg.GroundY()},
	}
	e.units = physics.Units{PixelsPerMeter: cfg.Physics.PixelsPerMeter, Origin: e.origin}

	minDeg, maxDeg := cfg.Cannon.MinAngleDegrees, cfg.Cannon.MaxAngleDegrees
	e.angle = (minDeg + rng.Float64()*(maxDeg-minDeg)) * math.Pi / 180

	e.Reset()
	return e, nil
}

// SetAngle stores the elevation used by the next Fire. A shot already in
// flight keeps the angle it was fired with. Non-finite angles are ignored.
func (e *Engine) SetAngle(radians float64) {
	if math.IsNaN(radians) || math.IsInf(radians, 0) {
		err := &InvalidInputError{Field: "angle", Value: strconv.FormatFloat(radians, 'g', -1, 64), Reason: "must be a finite number"}
		e.logger.Warn(e.context(), "angle ignored", "error", err.Error())
		e.bus.Publish(event.NewInputEvent(e, err))
		return
	}
	if radians == e.angle {
		return
	}
	e.angle = radians
	e.bus.Publish(event.NewAngleEvent(e, radians))
}

// Fire launches a shot at speed metres per second using the pending angle.
//
// A speed that is NaN, infinite, zero or negative returns an
// *InvalidInputError in every phase and leaves the engine as it was. A valid
// Fire while a shot is in flight is ignored.
func (e *Engine) Fire(speed float64) error {
	if err := checkSpeed(speed); err != nil {
		e.logger.Warn(e.context(), "shot rejected", "error", err.Error())
		e.bus.Publish(event.NewInputEvent(e, err))
		return err
	}
	if e.phase == PhaseFiring {
		e.logger.Debug(e.context(), "fire ignored during flight", "shot", e.shot)
		return nil
	}

	e.shot++
	e.shotAngle = e.angle
	e.shotSpeed = speed

	launch := e.origin.Add(physics.FromElevation(e.shotAngle, e.cfg.Cannon.BarrelLength))
	e.flight = physics.Ballistic{
		Launch:   launch,
		Velocity: physics.FromElevation(e.shotAngle, speed),
		Gravity:  e.cfg.Physics.Gravity,
		Scale:    e.cfg.Physics.PixelsPerMeter,
	}
	e.projectile = ProjectileState{
		Position: launch,
		Velocity: e.flight.Velocity,
	}
	e.trajectory = nil
	e.velocitySamples = nil
	e.sampleAcc = 0
	e.phase = PhaseFiring

	e.logger.Info(e.context(), "shot fired",
		"shot", e.shot,
		"speed", speed,
		"angle_deg", e.shotAngle*180/math.Pi)
	e.bus.Publish(event.NewShotEvent(event.ShotFired, e, e.round, e.shot, speed, e.shotAngle))
	return nil
}

func checkSpeed(speed float64) error {
	var reason string
	switch {
	case math.IsNaN(speed) || math.IsInf(speed, 0):
		reason = "must be a finite number"
	case speed <= 0:
		reason = "must be greater than zero"
	default:
		return nil
	}
	return &InvalidInputError{
		Field:  "speed",
		Value:  strconv.FormatFloat(speed, 'g', -1, 64),
		Reason: reason,
	}
}

// Tick advances the shot in flight by delta seconds. It is a no-op unless a
// shot is in flight, and for deltas that are not positive finite numbers.
//
// Position is evaluated from the total flight time, so the path does not
// depend on how time was split between ticks. The target is tested before
// the field bounds: a tick that satisfies both is a hit. A position that
// overflowed to a non-finite value ends the flight as a miss.
func (e *Engine) Tick(delta float64) {
	if e.phase != PhaseFiring {
		return
	}
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta <= 0 {
		return
	}

	t := e.projectile.ElapsedFlightTime + delta
	e.projectile.ElapsedFlightTime = t
	e.projectile.Position = e.flight.PositionAt(t)
	e.trajectory = append(e.trajectory, e.projectile.Position)

	e.sampleAcc += delta
	if e.sampleAcc+sampleEpsilon >= e.cfg.Physics.PlotInterval {
		v := e.flight.VelocityAt(t)
		e.velocitySamples = append(e.velocitySamples, VelocitySample{
			X:  e.projectile.Position.X,
			Y:  e.projectile.Position.Y,
			VX: v.X,
			VY: v.Y,
		})
		e.sampleAcc = 0
	}

	switch {
	case e.target.Circle().Contains(e.projectile.Position):
		e.finish(PhaseHit, event.TargetHit)
	case e.field.OutOfBounds(e.projectile.Position) || !e.projectile.Position.IsFinite():
		e.finish(PhaseMiss, event.ShotMissed)
	}
}

func (e *Engine) finish(phase Phase, eventType event.Type) {
	e.phase = phase

	pos := e.projectile.Position
	e.logger.Info(e.context(), "shot finished",
		"shot", e.shot,
		"result", phase.String(),
		"flight_time", e.projectile.ElapsedFlightTime,
		"x", pos.X,
		"y", pos.Y)

	ev := event.NewShotEvent(eventType, e, e.round, e.shot, e.shotSpeed, e.shotAngle)
	ev.FlightTime = e.projectile.ElapsedFlightTime
	ev.X, ev.Y = pos.X, pos.Y
	e.bus.Publish(ev)
}

// Reset aborts any flight, places a new target and returns to Ready.
// The pending angle is kept.
func (e *Engine) Reset() {
	e.round++
	e.roundID = logging.GenerateCorrelationID()

	e.phase = PhaseReady
	e.projectile = ProjectileState{}
	e.flight = physics.Ballistic{}
	e.shotAngle, e.shotSpeed = 0, 0
	e.trajectory = nil
	e.velocitySamples = nil
	e.sampleAcc = 0
	e.target = e.rollTarget()

	dist := e.TargetDistance()
	e.logger.Info(e.context(), "round started",
		"round", e.round,
		"target_x", e.target.Position.X,
		"target_y", e.target.Position.Y,
		"distance_m", dist)
	e.bus.Publish(event.NewRoundEvent(e, e.round, e.target.Position.X, e.target.Position.Y, dist))
}

// rollTarget places the target in the right half of the field, clear of
// the right edge and raised above the ground.
func (e *Engine) rollTarget() Target {
	tc := e.cfg.Target
	half := e.field.Width / 2
	x := half + math.Floor(e.rng.Float64()*(half-tc.MarginRight))
	y := e.field.GroundY - (tc.MinElevation + e.rng.Float64()*(tc.MaxElevation-tc.MinElevation))
	return Target{
		Position: physics.Vector2D{X: x, Y: y},
		Radius:   tc.Radius,
	}
}

func (e *Engine) context() context.Context {
	return logging.WithCorrelationID(context.Background(), e.roundID)
}

// Bus returns the event bus the engine publishes on.
func (e *Engine) Bus() *event.Bus {
	return e.bus
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() *config.TrainerConfig {
	return e.cfg
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Projectile returns the shot state, or false when there is none.
func (e *Engine) Projectile() (ProjectileState, bool) {
	if !e.phase.HasProjectile() {
		return ProjectileState{}, false
	}
	return e.projectile, true
}

// InstantVelocity returns the current velocity of the shot in m/s.
func (e *Engine) InstantVelocity() (physics.Vector2D, bool) {
	if !e.phase.HasProjectile() {
		return physics.Vector2D{}, false
	}
	return e.flight.VelocityAt(e.projectile.ElapsedFlightTime), true
}

// Target returns the current target.
func (e *Engine) Target() Target {
	return e.target
}

// Origin returns the cannon pivot in pixels.
func (e *Engine) Origin() physics.Vector2D {
	return e.origin
}

// Field returns the play area.
func (e *Engine) Field() physics.Field {
	return e.field
}

// Angle returns the pending launch angle in radians.
func (e *Engine) Angle() float64 {
	return e.angle
}

// ShotAngle returns the angle the current shot was fired with, or the
// pending angle when there is no shot.
func (e *Engine) ShotAngle() float64 {
	if !e.phase.HasProjectile() {
		return e.angle
	}
	return e.shotAngle
}

// Trajectory returns a copy of the points recorded during the flight.
func (e *Engine) Trajectory() []physics.Vector2D {
	out := make([]physics.Vector2D, len(e.trajectory))
	copy(out, e.trajectory)
	return out
}

// VelocitySamples returns a copy of the recorded velocity samples.
func (e *Engine) VelocitySamples() []VelocitySample {
	out := make([]VelocitySample, len(e.velocitySamples))
	copy(out, e.velocitySamples)
	return out
}

// FlightTime returns the elapsed flight time in seconds, 0 without a shot.
func (e *Engine) FlightTime() float64 {
	return e.projectile.ElapsedFlightTime
}

// Units returns the pixel to metre conversion anchored at the cannon.
func (e *Engine) Units() physics.Units {
	return e.units
}

// TargetDistance returns the distance from the cannon to the target
// centre in metres.
func (e *Engine) TargetDistance() float64 {
	return e.units.Distance(e.origin, e.target.Position)
}

// TargetRelative returns the target centre in metres relative to the
// cannon, y up.
func (e *Engine) TargetRelative() physics.Vector2D {
	return e.units.RelativeToOrigin(e.target.Position)
}

// Round returns the number of targets placed so far.
func (e *Engine) Round() uint64 {
	return e.round
}

// Shots returns the number of shots fired so far.
func (e *Engine) Shots() uint64 {
	return e.shot
}

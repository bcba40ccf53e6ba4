// Package engine provides unit tests for engine.go
package engine

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/opd-ai/go-cannon/pkg/config"
	"github.com/opd-ai/go-cannon/pkg/event"
	"github.com/opd-ai/go-cannon/pkg/physics"
)

const tolerance = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func deg(d float64) float64 {
	return d * math.Pi / 180
}

func newTestEngine(t *testing.T, cfg *config.TrainerConfig) *Engine {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	e, err := NewEngine(cfg, rand.New(rand.NewPCG(1, 2)), nil, nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return e
}

// parkTarget moves the target where no test trajectory can reach it.
func parkTarget(e *Engine) {
	e.target.Position = physics.Vector2D{X: -1e6, Y: -1e6}
}

// flyUntilDone ticks until the flight ends and returns the number of ticks.
func flyUntilDone(t *testing.T, e *Engine, delta float64) int {
	t.Helper()
	for i := 1; i <= 100000; i++ {
		e.Tick(delta)
		if e.Phase() != PhaseFiring {
			return i
		}
	}
	t.Fatal("flight never ended")
	return 0
}

func TestNewEngine_InitialState(t *testing.T) {
	e := newTestEngine(t, nil)

	if e.Phase() != PhaseReady {
		t.Errorf("expected phase ready, got %v", e.Phase())
	}
	if _, ok := e.Projectile(); ok {
		t.Error("expected no projectile before the first shot")
	}
	if len(e.Trajectory()) != 0 || len(e.VelocitySamples()) != 0 {
		t.Error("expected empty sample sequences")
	}
	if e.Round() != 1 {
		t.Errorf("expected round 1, got %d", e.Round())
	}
	want := physics.Vector2D{X: 50, Y: 530}
	if e.Origin() != want {
		t.Errorf("expected origin %v, got %v", want, e.Origin())
	}
}

func TestNewEngine_InitialAngleInRange(t *testing.T) {
	for seed := uint64(0); seed < 200; seed++ {
		e, err := NewEngine(nil, rand.New(rand.NewPCG(seed, seed)), nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if a := e.Angle(); a < deg(15)-tolerance || a > deg(75)+tolerance {
			t.Fatalf("seed %d: initial angle %.2f deg outside [15, 75]", seed, a*180/math.Pi)
		}
	}
}

func TestNewEngine_SameSeedSameRound(t *testing.T) {
	a, _ := NewEngine(nil, rand.New(rand.NewPCG(7, 7)), nil, nil)
	b, _ := NewEngine(nil, rand.New(rand.NewPCG(7, 7)), nil, nil)
	if a.Angle() != b.Angle() || a.Target() != b.Target() {
		t.Error("engines with the same seed should start identically")
	}
}

func TestNewEngine_RejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Physics.Gravity = 0
	if _, err := NewEngine(cfg, nil, nil, nil); err == nil {
		t.Error("expected error for zero gravity")
	}
}

func TestFire_StartsAtBarrelTip(t *testing.T) {
	angles := []float64{0, deg(15), deg(45), deg(60), deg(89.9), deg(90)}
	speeds := []float64{0.001, 1, 20, 333.3}

	for _, angle := range angles {
		for _, speed := range speeds {
			e := newTestEngine(t, nil)
			e.SetAngle(angle)
			if err := e.Fire(speed); err != nil {
				t.Fatalf("Fire(%v) at %v rad: %v", speed, angle, err)
			}

			p, ok := e.Projectile()
			if !ok {
				t.Fatal("expected projectile after fire")
			}
			barrel := e.cfg.Cannon.BarrelLength
			wantX := e.Origin().X + barrel*math.Cos(angle)
			wantY := e.Origin().Y - barrel*math.Sin(angle)
			if p.Position.X != wantX || p.Position.Y != wantY {
				t.Errorf("angle %v speed %v: position %v, want (%v, %v)", angle, speed, p.Position, wantX, wantY)
			}
			if p.Velocity.X != speed*math.Cos(angle) || p.Velocity.Y != -speed*math.Sin(angle) {
				t.Errorf("angle %v speed %v: velocity %v", angle, speed, p.Velocity)
			}
			if p.ElapsedFlightTime != 0 {
				t.Errorf("expected flight time 0, got %v", p.ElapsedFlightTime)
			}
			if e.Phase() != PhaseFiring {
				t.Errorf("expected phase firing, got %v", e.Phase())
			}
		}
	}
}

func TestTick_IndependentOfStepSize(t *testing.T) {
	const total = 1.0
	splits := map[string][]float64{
		"single": {1.0},
		"halves": {0.5, 0.5},
		"uneven": {0.3, 0.2, 0.25, 0.25},
		"tenths": repeat(0.1, 10),
		"frames": repeat(1.0/60, 60),
		"fine":   repeat(0.001, 1000),
	}

	for name, deltas := range splits {
		t.Run(name, func(t *testing.T) {
			e := newTestEngine(t, nil)
			parkTarget(e)
			e.SetAngle(deg(45))
			if err := e.Fire(30); err != nil {
				t.Fatal(err)
			}
			start, _ := e.Projectile()

			for _, d := range deltas {
				e.Tick(d)
			}

			if e.Phase() != PhaseFiring {
				t.Fatalf("flight ended early: %v", e.Phase())
			}
			p, _ := e.Projectile()
			k := e.cfg.Physics.PixelsPerMeter
			g := e.cfg.Physics.Gravity
			wantX := start.Position.X + start.Velocity.X*total*k
			wantY := start.Position.Y + (start.Velocity.Y*total+0.5*g*total*total)*k
			if !approxEqual(p.Position.X, wantX, 1e-6) || !approxEqual(p.Position.Y, wantY, 1e-6) {
				t.Errorf("position %v, want (%v, %v)", p.Position, wantX, wantY)
			}
			if !approxEqual(e.FlightTime(), total, 1e-9) {
				t.Errorf("flight time %v, want %v", e.FlightTime(), total)
			}
			if got := len(e.Trajectory()); got != len(deltas) {
				t.Errorf("expected %d trajectory points, got %d", len(deltas), got)
			}
		})
	}
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestScenario_FortyFiveDegrees(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Field.Height = 570
	cfg.Field.GroundOffset = 70
	cfg.Physics.PixelsPerMeter = 1
	e := newTestEngine(t, cfg)
	parkTarget(e)

	if e.Origin() != (physics.Vector2D{X: 50, Y: 500}) {
		t.Fatalf("unexpected origin %v", e.Origin())
	}

	e.SetAngle(deg(45))
	if err := e.Fire(20); err != nil {
		t.Fatal(err)
	}
	p, _ := e.Projectile()
	if !approxEqual(p.Velocity.X, 14.14, 0.01) || !approxEqual(p.Velocity.Y, -14.14, 0.01) {
		t.Errorf("launch velocity %v, want (14.14, -14.14)", p.Velocity)
	}
	y0 := p.Position.Y

	e.Tick(1.0)
	p, _ = e.Projectile()
	if got := p.Position.Y - y0; !approxEqual(got, -9.24, 0.01) {
		t.Errorf("y(1.0) - y0 = %v, want -9.24", got)
	}
	v, _ := e.InstantVelocity()
	if !approxEqual(v.Y, -14.142+9.8, 0.01) {
		t.Errorf("instantaneous vy = %v, want %v", v.Y, -14.142+9.8)
	}
}

func TestTick_HitWhenTargetOnPath(t *testing.T) {
	e := newTestEngine(t, nil)
	parkTarget(e)
	e.SetAngle(deg(50))
	if err := e.Fire(25); err != nil {
		t.Fatal(err)
	}
	e.Tick(0.1)
	if e.Phase() != PhaseFiring {
		t.Fatalf("expected firing, got %v", e.Phase())
	}

	e.target.Position = e.flight.PositionAt(0.2)
	e.Tick(0.1)

	if e.Phase() != PhaseHit {
		t.Fatalf("expected hit, got %v", e.Phase())
	}
	p, ok := e.Projectile()
	if !ok {
		t.Fatal("projectile should remain visible after a hit")
	}
	if d := p.Position.Distance(e.Target().Position); d >= e.Target().Radius {
		t.Errorf("hit registered at distance %v", d)
	}
	if len(e.Trajectory()) != 2 {
		t.Errorf("terminating tick should record a point, got %d points", len(e.Trajectory()))
	}
}

func TestTick_RimIsNotAHit(t *testing.T) {
	e := newTestEngine(t, nil)
	e.SetAngle(0)
	if err := e.Fire(10); err != nil {
		t.Fatal(err)
	}

	// a flat shot lands on whole pixels horizontally: x(0.5) = 130 + 50
	pos := e.flight.PositionAt(0.5)
	if pos.X != 180 {
		t.Fatalf("unexpected x(0.5) = %v", pos.X)
	}
	e.target.Position = physics.Vector2D{X: pos.X + e.target.Radius, Y: pos.Y}
	e.Tick(0.5)

	// exactly on the rim is not a hit, so the ground check ends the flight
	if e.Phase() != PhaseMiss {
		t.Errorf("expected miss for a shot on the rim, got %v", e.Phase())
	}
}

func TestTick_HitWinsOverBoundary(t *testing.T) {
	e := newTestEngine(t, nil)
	parkTarget(e)
	e.SetAngle(deg(5))
	if err := e.Fire(300); err != nil {
		t.Fatal(err)
	}

	// first position past the right edge
	ticks := 0
	var pos physics.Vector2D
	for dt := 0.1; ; dt += 0.1 {
		ticks++
		pos = e.flight.PositionAt(dt)
		if pos.X > e.Field().Width {
			break
		}
	}
	e.target.Position = pos
	for i := 0; i < ticks; i++ {
		e.Tick(0.1)
	}

	if e.Phase() != PhaseHit {
		t.Errorf("expected hit to take precedence, got %v", e.Phase())
	}
}

func TestTick_BoundaryMiss(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
		speed float64
		check func(field physics.Field, p physics.Vector2D) bool
	}{
		{"right edge", deg(5), 200, func(f physics.Field, p physics.Vector2D) bool { return p.X > f.Width }},
		{"left edge", deg(170), 40, func(f physics.Field, p physics.Vector2D) bool { return p.X < 0 }},
		{"ground", deg(30), 8, func(f physics.Field, p physics.Vector2D) bool { return p.Y >= f.GroundY }},
		{"ground from flat shot", 0, 10, func(f physics.Field, p physics.Vector2D) bool { return p.Y >= f.GroundY }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, nil)
			parkTarget(e)
			e.SetAngle(tt.angle)
			if err := e.Fire(tt.speed); err != nil {
				t.Fatal(err)
			}

			for i := 0; i < 10000 && e.Phase() == PhaseFiring; i++ {
				e.Tick(0.05)
				p, _ := e.Projectile()
				if e.Field().OutOfBounds(p.Position) && e.Phase() != PhaseMiss {
					t.Fatalf("tick %d: out of bounds at %v but phase %v", i, p.Position, e.Phase())
				}
			}

			if e.Phase() != PhaseMiss {
				t.Fatalf("expected miss, got %v", e.Phase())
			}
			p, _ := e.Projectile()
			if !tt.check(e.Field(), p.Position) {
				t.Errorf("miss at %v did not cross the %s", p.Position, tt.name)
			}
		})
	}
}

func TestTick_NoOpOutsideFlight(t *testing.T) {
	e := newTestEngine(t, nil)
	before := e.Snapshot()
	e.Tick(0.5)
	after := e.Snapshot()
	if after.Phase != PhaseReady || after.FlightTime != 0 || len(after.Trajectory) != 0 {
		t.Error("Tick in ready phase changed state")
	}
	if before.Target != after.Target {
		t.Error("Tick moved the target")
	}

	parkTarget(e)
	e.SetAngle(deg(30))
	if err := e.Fire(5); err != nil {
		t.Fatal(err)
	}
	flyUntilDone(t, e, 0.05)
	points := len(e.Trajectory())
	p1, _ := e.Projectile()

	e.Tick(0.5)
	p2, _ := e.Projectile()
	if p1 != p2 || len(e.Trajectory()) != points {
		t.Error("Tick after the flight ended changed state")
	}
}

func TestTick_IgnoresMalformedDeltas(t *testing.T) {
	e := newTestEngine(t, nil)
	parkTarget(e)
	e.SetAngle(deg(45))
	if err := e.Fire(20); err != nil {
		t.Fatal(err)
	}

	for _, d := range []float64{0, -0.1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		e.Tick(d)
	}

	if e.FlightTime() != 0 {
		t.Errorf("expected flight time 0, got %v", e.FlightTime())
	}
	if n := len(e.Trajectory()); n != 0 {
		t.Errorf("expected no trajectory points, got %d", n)
	}
	if e.Phase() != PhaseFiring {
		t.Errorf("expected firing, got %v", e.Phase())
	}
}

func TestFire_RejectsInvalidSpeed(t *testing.T) {
	speeds := []float64{0, -5, math.NaN(), math.Inf(1), math.Inf(-1), math.Copysign(0, -1)}

	for _, phase := range []Phase{PhaseReady, PhaseHit, PhaseMiss} {
		for _, speed := range speeds {
			e := newTestEngine(t, nil)
			driveToPhase(t, e, phase)
			before := e.Snapshot()

			err := e.Fire(speed)
			if err == nil {
				t.Fatalf("%v: Fire(%v) succeeded", phase, speed)
			}
			var inputErr *InvalidInputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("expected *InvalidInputError, got %T", err)
			}
			if inputErr.Field != "speed" {
				t.Errorf("expected field speed, got %q", inputErr.Field)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Error("expected errors.Is(err, ErrInvalidInput)")
			}

			after := e.Snapshot()
			if after.Phase != phase || after.Shots != before.Shots || after.FlightTime != before.FlightTime {
				t.Errorf("%v: state changed after rejected Fire(%v)", phase, speed)
			}
			if len(after.Trajectory) != len(before.Trajectory) {
				t.Errorf("%v: trajectory changed after rejected Fire(%v)", phase, speed)
			}
		}
	}
}

// driveToPhase fires and flies shots until the engine reaches phase.
func driveToPhase(t *testing.T, e *Engine, phase Phase) {
	t.Helper()
	switch phase {
	case PhaseReady:
	case PhaseFiring:
		parkTarget(e)
		e.SetAngle(deg(45))
		if err := e.Fire(20); err != nil {
			t.Fatal(err)
		}
		e.Tick(0.1)
	case PhaseMiss:
		parkTarget(e)
		e.SetAngle(deg(30))
		if err := e.Fire(5); err != nil {
			t.Fatal(err)
		}
		flyUntilDone(t, e, 0.05)
	case PhaseHit:
		e.SetAngle(deg(45))
		if err := e.Fire(20); err != nil {
			t.Fatal(err)
		}
		e.target.Position = e.flight.PositionAt(0.3)
		flyUntilDone(t, e, 0.1)
	}
	if e.Phase() != phase {
		t.Fatalf("could not reach phase %v, got %v", phase, e.Phase())
	}
}

func TestFire_RefireAfterTerminalPhase(t *testing.T) {
	for _, phase := range []Phase{PhaseHit, PhaseMiss} {
		e := newTestEngine(t, nil)
		driveToPhase(t, e, phase)

		if err := e.Fire(15); err != nil {
			t.Fatalf("Fire from %v failed: %v", phase, err)
		}
		if e.Phase() != PhaseFiring {
			t.Errorf("expected firing, got %v", e.Phase())
		}
		if len(e.Trajectory()) != 0 || len(e.VelocitySamples()) != 0 {
			t.Error("samples should be cleared by Fire")
		}
		if e.FlightTime() != 0 {
			t.Errorf("expected flight time reset, got %v", e.FlightTime())
		}
	}
}

func TestFire_IgnoredDuringFlight(t *testing.T) {
	e := newTestEngine(t, nil)
	driveToPhase(t, e, PhaseFiring)
	before, _ := e.Projectile()
	shots := e.Shots()

	if err := e.Fire(99); err != nil {
		t.Errorf("Fire during flight should be ignored, got %v", err)
	}

	after, _ := e.Projectile()
	if before != after || e.Shots() != shots {
		t.Error("Fire during flight changed the shot")
	}
}

func TestFire_RejectsInvalidSpeedDuringFlight(t *testing.T) {
	for _, speed := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		e := newTestEngine(t, nil)
		driveToPhase(t, e, PhaseFiring)
		before, _ := e.Projectile()

		err := e.Fire(speed)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Fire(%v) during flight: expected ErrInvalidInput, got %v", speed, err)
		}

		after, _ := e.Projectile()
		if e.Phase() != PhaseFiring || before != after {
			t.Errorf("Fire(%v) during flight changed the shot", speed)
		}
	}
}

func TestTick_NonFinitePositionIsAMiss(t *testing.T) {
	e := newTestEngine(t, nil)
	parkTarget(e)
	if err := e.Fire(20); err != nil {
		t.Fatal(err)
	}
	e.flight.Velocity = physics.Vector2D{X: math.NaN(), Y: math.NaN()}

	e.Tick(0.1)

	if e.Phase() != PhaseMiss {
		t.Errorf("expected a non-finite position to end the flight as a miss, got %v", e.Phase())
	}
}

func TestSetAngle_BufferedDuringFlight(t *testing.T) {
	e := newTestEngine(t, nil)
	parkTarget(e)
	e.SetAngle(deg(45))
	if err := e.Fire(20); err != nil {
		t.Fatal(err)
	}
	e.Tick(0.1)

	e.SetAngle(deg(10))
	if e.Angle() != deg(10) {
		t.Errorf("pending angle not stored")
	}
	if e.ShotAngle() != deg(45) {
		t.Errorf("shot angle changed to %v", e.ShotAngle())
	}

	e.Tick(0.1)
	p, _ := e.Projectile()
	want := e.flight.PositionAt(0.2)
	if !approxEqual(p.Position.X, want.X, tolerance) || !approxEqual(p.Position.Y, want.Y, tolerance) {
		t.Errorf("live shot deviated after SetAngle: %v, want %v", p.Position, want)
	}
	if p.Velocity.X != 20*math.Cos(deg(45)) {
		t.Errorf("launch velocity changed: %v", p.Velocity)
	}

	flyUntilDone(t, e, 0.1)
	if err := e.Fire(20); err != nil {
		t.Fatal(err)
	}
	if e.ShotAngle() != deg(10) {
		t.Errorf("next shot should use the buffered angle, got %v", e.ShotAngle())
	}
}

func TestSetAngle_IgnoresNonFinite(t *testing.T) {
	e := newTestEngine(t, nil)
	angle := e.Angle()
	e.SetAngle(math.NaN())
	e.SetAngle(math.Inf(1))
	if e.Angle() != angle {
		t.Errorf("angle changed to %v", e.Angle())
	}
}

func TestReset_FromEveryPhase(t *testing.T) {
	for _, phase := range []Phase{PhaseReady, PhaseFiring, PhaseHit, PhaseMiss} {
		t.Run(phase.String(), func(t *testing.T) {
			e := newTestEngine(t, nil)
			driveToPhase(t, e, phase)
			angle := e.Angle()
			round := e.Round()

			e.Reset()

			if e.Phase() != PhaseReady {
				t.Errorf("expected ready, got %v", e.Phase())
			}
			if _, ok := e.Projectile(); ok {
				t.Error("projectile should be cleared")
			}
			if len(e.Trajectory()) != 0 || len(e.VelocitySamples()) != 0 {
				t.Error("samples should be cleared")
			}
			if e.FlightTime() != 0 {
				t.Errorf("flight time should be 0, got %v", e.FlightTime())
			}
			if e.Angle() != angle {
				t.Error("Reset changed the angle")
			}
			if e.Round() != round+1 {
				t.Errorf("expected round %d, got %d", round+1, e.Round())
			}
			assertTargetInRegion(t, e)
		})
	}
}

func TestReset_TargetRegion(t *testing.T) {
	e := newTestEngine(t, nil)
	seen := map[float64]bool{}
	for i := 0; i < 500; i++ {
		e.Reset()
		assertTargetInRegion(t, e)
		seen[e.Target().Position.X] = true
	}
	if len(seen) < 50 {
		t.Errorf("target placement looks degenerate: %d distinct x values", len(seen))
	}
}

func assertTargetInRegion(t *testing.T, e *Engine) {
	t.Helper()
	cfg := e.cfg
	tgt := e.Target()
	half := cfg.Field.Width / 2

	if tgt.Position.X < half || tgt.Position.X >= cfg.Field.Width-cfg.Target.MarginRight {
		t.Errorf("target x %v outside [%v, %v)", tgt.Position.X, half, cfg.Field.Width-cfg.Target.MarginRight)
	}
	if tgt.Position.X != math.Floor(tgt.Position.X) {
		t.Errorf("target x %v is not a whole pixel", tgt.Position.X)
	}
	top := cfg.GroundY() - cfg.Target.MaxElevation
	bottom := cfg.GroundY() - cfg.Target.MinElevation
	if tgt.Position.Y <= top || tgt.Position.Y > bottom {
		t.Errorf("target y %v outside (%v, %v]", tgt.Position.Y, top, bottom)
	}
	if tgt.Radius != cfg.Target.Radius {
		t.Errorf("target radius %v, want %v", tgt.Radius, cfg.Target.Radius)
	}
}

func TestVelocitySampling_OnePerPlotInterval(t *testing.T) {
	e := newTestEngine(t, nil)
	parkTarget(e)
	e.SetAngle(deg(60))
	if err := e.Fire(50); err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 12; i++ {
		e.Tick(0.1)
		if e.Phase() != PhaseFiring {
			t.Fatalf("flight ended at tick %d", i)
		}
		if want, got := i/4, len(e.VelocitySamples()); got != want {
			t.Fatalf("after %d ticks: %d velocity samples, want %d", i, got, want)
		}
	}

	samples := e.VelocitySamples()
	first := samples[0]
	if !approxEqual(first.VX, 25, 1e-9) {
		t.Errorf("sample vx = %v, want 25", first.VX)
	}
	if want := -50*math.Sin(deg(60)) + 9.8*0.4; !approxEqual(first.VY, want, 1e-6) {
		t.Errorf("sample vy = %v, want %v", first.VY, want)
	}
	if traj := e.Trajectory(); first.X != traj[3].X || first.Y != traj[3].Y {
		t.Errorf("sample at %v,%v should sit on the fourth trajectory point %v", first.X, first.Y, traj[3])
	}
}

func TestVelocitySampling_AccumulatorResetsToZero(t *testing.T) {
	e := newTestEngine(t, nil)
	parkTarget(e)
	e.SetAngle(deg(60))
	if err := e.Fire(50); err != nil {
		t.Fatal(err)
	}

	// 0.3 + 0.3 crosses 0.4; the 0.2 overshoot is dropped, so the next
	// sample needs two more 0.3 ticks rather than one.
	e.Tick(0.3)
	e.Tick(0.3)
	if n := len(e.VelocitySamples()); n != 1 {
		t.Fatalf("expected 1 sample, got %d", n)
	}
	e.Tick(0.3)
	if n := len(e.VelocitySamples()); n != 1 {
		t.Fatalf("expected overshoot to be discarded, got %d samples", n)
	}
	e.Tick(0.3)
	if n := len(e.VelocitySamples()); n != 2 {
		t.Fatalf("expected 2 samples, got %d", n)
	}
}

func TestTargetMeasurements(t *testing.T) {
	e := newTestEngine(t, nil)
	// 300 px right and 40 px above the pivot
	e.target.Position = physics.Vector2D{X: e.Origin().X + 300, Y: e.Origin().Y - 40}

	rel := e.TargetRelative()
	if !approxEqual(rel.X, 30, tolerance) || !approxEqual(rel.Y, 4, tolerance) {
		t.Errorf("relative target %v, want (30, 4)", rel)
	}
	if d := e.TargetDistance(); !approxEqual(d, math.Hypot(30, 4), tolerance) {
		t.Errorf("distance %v, want %v", d, math.Hypot(30, 4))
	}
}

func TestEngine_PublishesEvents(t *testing.T) {
	bus := event.NewEventBus()
	var got []event.Type
	for _, typ := range []event.Type{event.RoundReset, event.ShotFired, event.TargetHit, event.ShotMissed, event.AngleChanged, event.InputRejected} {
		bus.Subscribe(typ, func(ev event.Event) {
			got = append(got, ev.GetType())
		})
	}

	var hit *event.ShotEvent
	bus.Subscribe(event.TargetHit, func(ev event.Event) {
		hit = ev.(*event.ShotEvent)
	})

	e, err := NewEngine(nil, rand.New(rand.NewPCG(3, 4)), bus, nil)
	if err != nil {
		t.Fatal(err)
	}
	e.SetAngle(deg(45))
	_ = e.Fire(-1)
	if err := e.Fire(40); err != nil {
		t.Fatal(err)
	}
	e.target.Position = e.flight.PositionAt(0.2)
	flyUntilDone(t, e, 0.1)

	want := []event.Type{event.RoundReset, event.AngleChanged, event.InputRejected, event.ShotFired, event.TargetHit}
	if len(got) != len(want) {
		t.Fatalf("events %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}

	if hit == nil {
		t.Fatal("no hit event")
	}
	if hit.Shot != 1 || hit.Round != 1 || hit.Speed != 40 {
		t.Errorf("unexpected hit event %+v", hit)
	}
	if !approxEqual(hit.FlightTime, 0.2, 1e-9) {
		t.Errorf("hit flight time %v, want 0.2", hit.FlightTime)
	}
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseReady, "ready"},
		{PhaseFiring, "firing"},
		{PhaseHit, "hit"},
		{PhaseMiss, "miss"},
		{Phase(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestInvalidInputError_Message(t *testing.T) {
	err := &InvalidInputError{Field: "speed", Value: "-5", Reason: "must be greater than zero"}
	want := `invalid speed "-5": must be greater than zero`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func BenchmarkTick(b *testing.B) {
	e, _ := NewEngine(nil, rand.New(rand.NewPCG(1, 1)), nil, nil)
	parkTarget(e)
	e.SetAngle(deg(80))
	for i := 0; i < b.N; i++ {
		if e.Phase() != PhaseFiring {
			_ = e.Fire(1000)
		}
		e.Tick(1.0 / 60)
	}
}

func TestPhase_UnmarshalText(t *testing.T) {
	var p Phase
	if err := p.UnmarshalText([]byte("miss")); err != nil || p != PhaseMiss {
		t.Errorf("UnmarshalText(miss) = %v, %v", p, err)
	}
	if err := p.UnmarshalText([]byte("exploded")); err == nil {
		t.Error("expected error for unknown phase")
	}
}

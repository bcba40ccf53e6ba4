// pkg/physics/ballistic.go
package physics

import "math"

// minCos rejects launch angles within a hair of vertical, where the
// horizontal speed component vanishes.
const minCos = 1e-9

// Ballistic describes an unpowered shot under constant gravity.
//
// Launch is in screen space (pixels). Velocity is in metres per second and
// Gravity in metres per second squared, positive pointing down. Scale is the
// number of pixels per metre applied to every displacement.
type Ballistic struct {
	Launch   Vector2D
	Velocity Vector2D
	Gravity  float64
	Scale    float64
}

// PositionAt evaluates the closed-form trajectory at flight time t.
// The result depends only on t, never on how it was reached.
func (b Ballistic) PositionAt(t float64) Vector2D {
	return Vector2D{
		X: b.Launch.X + b.Velocity.X*t*b.Scale,
		Y: b.Launch.Y + (b.Velocity.Y*t+0.5*b.Gravity*t*t)*b.Scale,
	}
}

// VelocityAt returns the instantaneous velocity at flight time t in m/s.
func (b Ballistic) VelocityAt(t float64) Vector2D {
	return Vector2D{
		X: b.Velocity.X,
		Y: b.Velocity.Y + b.Gravity*t,
	}
}

// SolveSpeed returns the launch speed in m/s that carries a shot fired at
// elevation angle from launch through point, or false when no such speed
// exists (target behind the muzzle, angle too shallow to climb to it).
func SolveSpeed(launch, point Vector2D, angle, gravity, scale float64) (float64, bool) {
	if scale <= 0 || gravity <= 0 {
		return 0, false
	}
	d := (point.X - launch.X) / scale
	h := (launch.Y - point.Y) / scale
	cos := math.Cos(angle)
	if d <= 0 || cos < minCos {
		return 0, false
	}
	rise := d*math.Tan(angle) - h
	if rise <= 0 {
		return 0, false
	}
	speed := math.Sqrt(gravity * d * d / (2 * cos * cos * rise))
	if math.IsNaN(speed) || math.IsInf(speed, 0) {
		return 0, false
	}
	return speed, true
}

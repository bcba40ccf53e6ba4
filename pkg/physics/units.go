// pkg/physics/units.go
package physics

// Units converts between stored screen positions (pixels, y down) and
// physical metres.
type Units struct {
	PixelsPerMeter float64
	// Origin is the reference point for relative coordinates, usually the
	// cannon pivot.
	Origin Vector2D
}

// ToPhysical scales a stored position into metres without changing axes.
func (u Units) ToPhysical(p Vector2D) Vector2D {
	return p.Scale(1 / u.PixelsPerMeter)
}

// RelativeToOrigin returns p in metres relative to Origin with y pointing up.
func (u Units) RelativeToOrigin(p Vector2D) Vector2D {
	return Vector2D{
		X: (p.X - u.Origin.X) / u.PixelsPerMeter,
		Y: (u.Origin.Y - p.Y) / u.PixelsPerMeter,
	}
}

// FromRelative is the inverse of RelativeToOrigin.
func (u Units) FromRelative(m Vector2D) Vector2D {
	return Vector2D{
		X: u.Origin.X + m.X*u.PixelsPerMeter,
		Y: u.Origin.Y - m.Y*u.PixelsPerMeter,
	}
}

// Distance returns the straight-line distance between two stored positions
// in metres.
func (u Units) Distance(a, b Vector2D) float64 {
	return a.Distance(b) / u.PixelsPerMeter
}

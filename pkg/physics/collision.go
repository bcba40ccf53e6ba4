// pkg/physics/collision.go
package physics

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D `json:"center"`
	Radius float64  `json:"radius"`
}

// Contains reports whether point lies strictly inside the circle.
// A point exactly on the rim is outside.
func (c Circle) Contains(point Vector2D) bool {
	return c.Center.Distance(point) < c.Radius
}

// Field is the rectangular play area. The left edge is x=0, the right edge
// is x=Width and the ground line sits at y=GroundY.
type Field struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	GroundY float64 `json:"groundY"`
}

// OutOfBounds reports whether point has left the field horizontally or
// reached the ground.
func (f Field) OutOfBounds(point Vector2D) bool {
	return point.X < 0 || point.X > f.Width || point.Y >= f.GroundY
}

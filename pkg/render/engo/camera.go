// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-cannon/pkg/physics"
)

// Viewport maps field pixels onto the game window. The field keeps its
// aspect ratio and is centred, with letterboxing on the longer axis.
type Viewport struct {
	width  float32
	height float32

	field  physics.Field
	zoom   float32
	offset engo.Point
}

// NewViewport creates a viewport for a window of width x height game units
func NewViewport(width, height float32) *Viewport {
	return &Viewport{
		width:  width,
		height: height,
		zoom:   1,
	}
}

// Fit scales the viewport so field fills the window
func (v *Viewport) Fit(field physics.Field) {
	if field == v.field {
		return
	}
	v.field = field
	if field.Width <= 0 || field.Height <= 0 {
		v.zoom = 1
		v.offset = engo.Point{}
		return
	}

	zx := v.width / float32(field.Width)
	zy := v.height / float32(field.Height)
	v.zoom = min(zx, zy)
	v.offset = engo.Point{
		X: (v.width - float32(field.Width)*v.zoom) / 2,
		Y: (v.height - float32(field.Height)*v.zoom) / 2,
	}
}

// Zoom returns the window units per field pixel
func (v *Viewport) Zoom() float32 {
	return v.zoom
}

// Length scales a field length to window units
func (v *Viewport) Length(l float64) float32 {
	return float32(l) * v.zoom
}

// WorldToScreen converts a field position to window coordinates
func (v *Viewport) WorldToScreen(p physics.Vector2D) engo.Point {
	return engo.Point{
		X: float32(p.X)*v.zoom + v.offset.X,
		Y: float32(p.Y)*v.zoom + v.offset.Y,
	}
}

// ScreenToWorld converts window coordinates to a field position
func (v *Viewport) ScreenToWorld(p engo.Point) physics.Vector2D {
	return physics.Vector2D{
		X: float64((p.X - v.offset.X) / v.zoom),
		Y: float64((p.Y - v.offset.Y) / v.zoom),
	}
}

// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-cannon/pkg/engine"
	"github.com/opd-ai/go-cannon/pkg/logging"
	"github.com/opd-ai/go-cannon/pkg/physics"
)

// Renderer draws engine snapshots. Positions are in field pixels with y
// pointing down; implementations scale them to their own surface.
type Renderer interface {
	Clear()
	RenderField(field physics.Field)
	RenderTarget(target engine.Target)
	RenderTrajectory(points []physics.Vector2D)
	RenderVelocitySamples(samples []engine.VelocitySample)
	RenderCannon(origin physics.Vector2D, angle, barrelLength float64)
	RenderProjectile(shot engine.ShotView)
	RenderHUD(hud HUD)
	Present()
}

// Frame draws one complete frame of snap. Later layers overwrite earlier
// ones, so the projectile and the HUD are always visible.
func Frame(r Renderer, snap *engine.Snapshot, hud HUD) {
	r.Clear()
	r.RenderField(snap.Field)
	r.RenderTarget(snap.Target)
	r.RenderTrajectory(snap.Trajectory)
	r.RenderVelocitySamples(snap.VelocitySamples)
	r.RenderCannon(snap.Origin, snap.Angle, snap.BarrelLength)
	if snap.Shot != nil {
		r.RenderProjectile(*snap.Shot)
	}
	r.RenderHUD(hud)
	r.Present()
}

// NullRenderer draws nothing and logs every call at debug level. Headless
// runs use it.
type NullRenderer struct {
	logger *logging.Logger
	frames uint64
}

// NewNullRenderer creates a new NullRenderer. A nil logger discards output.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &NullRenderer{logger: logger}
}

// Frames returns the number of presented frames
func (d *NullRenderer) Frames() uint64 {
	return d.frames
}

// Clear implements Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "Clear called")
}

// RenderField implements Renderer.
func (d *NullRenderer) RenderField(field physics.Field) {
	d.logger.Debug(context.Background(), "RenderField called",
		"width", field.Width,
		"height", field.Height,
		"ground_y", field.GroundY,
	)
}

// RenderTarget implements Renderer.
func (d *NullRenderer) RenderTarget(target engine.Target) {
	d.logger.Debug(context.Background(), "RenderTarget called",
		"x", target.Position.X,
		"y", target.Position.Y,
		"radius", target.Radius,
	)
}

// RenderTrajectory implements Renderer.
func (d *NullRenderer) RenderTrajectory(points []physics.Vector2D) {
	d.logger.Debug(context.Background(), "RenderTrajectory called", "points", len(points))
}

// RenderVelocitySamples implements Renderer.
func (d *NullRenderer) RenderVelocitySamples(samples []engine.VelocitySample) {
	d.logger.Debug(context.Background(), "RenderVelocitySamples called", "samples", len(samples))
}

// RenderCannon implements Renderer.
func (d *NullRenderer) RenderCannon(origin physics.Vector2D, angle, barrelLength float64) {
	d.logger.Debug(context.Background(), "RenderCannon called",
		"x", origin.X,
		"y", origin.Y,
		"angle", angle,
	)
}

// RenderProjectile implements Renderer.
func (d *NullRenderer) RenderProjectile(shot engine.ShotView) {
	d.logger.Debug(context.Background(), "RenderProjectile called",
		"x", shot.Position.X,
		"y", shot.Position.Y,
		"elapsed", shot.ElapsedFlightTime,
	)
}

// RenderHUD implements Renderer.
func (d *NullRenderer) RenderHUD(hud HUD) {
	d.logger.Debug(context.Background(), "RenderHUD called", "message", hud.Message)
}

// Present implements Renderer.
func (d *NullRenderer) Present() {
	d.frames++
	d.logger.Debug(context.Background(), "Present called", "frame", d.frames)
}

// pkg/render/engo/renderer.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-cannon/pkg/engine"
	"github.com/opd-ai/go-cannon/pkg/physics"
	"github.com/opd-ai/go-cannon/pkg/render"
)

// drawSink receives the entities the renderer draws.
// *common.RenderSystem satisfies it.
type drawSink interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
	Remove(basic ecs.BasicEntity)
}

// sprite is one drawable entity
type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

func newBasic() ecs.BasicEntity {
	return ecs.NewBasic()
}

// Z order of the scene layers
const (
	zGround float32 = iota
	zTarget
	zTrail
	zCannon
	zProjectile
)

// EngoRenderer implements render.Renderer with engo shapes. Entities are
// created once and moved or hidden each frame; trail dots are pooled.
type EngoRenderer struct {
	sink     drawSink
	viewport *Viewport
	assets   *AssetManager

	ground     *sprite
	rings      []*sprite
	barrel     *sprite
	carriage   *sprite
	projectile *sprite
	trail      []*sprite
	samples    []*sprite
	hud        *HUDPanel

	frames uint64
}

// NewEngoRenderer creates the scene entities and adds them to sink
func NewEngoRenderer(sink drawSink, viewport *Viewport, assets *AssetManager) *EngoRenderer {
	r := &EngoRenderer{
		sink:     sink,
		viewport: viewport,
		assets:   assets,
		hud:      NewHUDPanel(sink, assets.Font()),
	}

	r.ground = r.newSprite(assets.Box(), ColorGround, zGround)
	for i, ring := range TargetRings {
		r.rings = append(r.rings, r.newSprite(assets.Disc(), ring.Color, zTarget+float32(i)/10))
	}
	r.barrel = r.newSprite(assets.Box(), ColorBarrel, zCannon)
	r.carriage = r.newSprite(assets.Disc(), ColorCarriage, zCannon)
	r.projectile = r.newSprite(assets.Disc(), ColorProjectile, zProjectile)
	r.projectile.Hidden = true
	return r
}

func (r *EngoRenderer) newSprite(d common.Drawable, c color.Color, z float32) *sprite {
	s := &sprite{BasicEntity: newBasic()}
	s.RenderComponent = common.RenderComponent{
		Drawable:    d,
		Color:       c,
		StartZIndex: z,
	}
	r.sink.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	return s
}

// placeDisc centres s on p with radius in field pixels
func (r *EngoRenderer) placeDisc(s *sprite, p physics.Vector2D, radius float64) {
	pos := r.viewport.WorldToScreen(p.Sub(physics.Vector2D{X: radius, Y: radius}))
	size := r.viewport.Length(2 * radius)
	s.Position = pos
	s.Width, s.Height = size, size
	s.Hidden = false
}

// placeDots positions the first len(points) sprites of pool, growing it as
// needed, and hides the rest.
func (r *EngoRenderer) placeDots(pool []*sprite, points []physics.Vector2D, size float64, c color.Color) []*sprite {
	for len(pool) < len(points) {
		pool = append(pool, r.newSprite(r.assets.Disc(), c, zTrail))
	}
	for i, s := range pool {
		if i < len(points) {
			r.placeDisc(s, points[i], size/2)
		} else {
			s.Hidden = true
		}
	}
	return pool
}

// Clear implements render.Renderer.
func (r *EngoRenderer) Clear() {
	r.projectile.Hidden = true
}

// RenderField implements render.Renderer.
func (r *EngoRenderer) RenderField(field physics.Field) {
	r.viewport.Fit(field)
	r.ground.Position = r.viewport.WorldToScreen(physics.Vector2D{Y: field.GroundY})
	r.ground.Width = r.viewport.Length(field.Width)
	r.ground.Height = r.viewport.Length(field.Height - field.GroundY)
}

// RenderTarget implements render.Renderer.
func (r *EngoRenderer) RenderTarget(target engine.Target) {
	for i, ring := range TargetRings {
		r.placeDisc(r.rings[i], target.Position, target.Radius*ring.Fraction)
	}
}

// RenderTrajectory implements render.Renderer.
func (r *EngoRenderer) RenderTrajectory(points []physics.Vector2D) {
	r.trail = r.placeDots(r.trail, points, TrailDotSize, ColorTrail)
}

// RenderVelocitySamples implements render.Renderer.
func (r *EngoRenderer) RenderVelocitySamples(samples []engine.VelocitySample) {
	points := make([]physics.Vector2D, len(samples))
	for i, s := range samples {
		points[i] = physics.Vector2D{X: s.X, Y: s.Y}
	}
	r.samples = r.placeDots(r.samples, points, SampleDotSize, ColorSample)
}

// RenderCannon implements render.Renderer. engo rotates clockwise about
// the top-left corner, so the corner is moved off the barrel axis by half
// the thickness.
func (r *EngoRenderer) RenderCannon(origin physics.Vector2D, angle, barrelLength float64) {
	side := physics.Vector2D{X: math.Sin(angle), Y: math.Cos(angle)}.Scale(BarrelThickness / 2)
	r.barrel.Position = r.viewport.WorldToScreen(origin.Sub(side))
	r.barrel.Width = r.viewport.Length(barrelLength)
	r.barrel.Height = r.viewport.Length(BarrelThickness)
	r.barrel.Rotation = float32(-angle * 180 / math.Pi)

	r.placeDisc(r.carriage, origin, CarriageRadius)
}

// RenderProjectile implements render.Renderer.
func (r *EngoRenderer) RenderProjectile(shot engine.ShotView) {
	r.placeDisc(r.projectile, shot.Position, ProjectileRadius)
}

// RenderHUD implements render.Renderer.
func (r *EngoRenderer) RenderHUD(hud render.HUD) {
	r.hud.Update(hud)
}

// Present implements render.Renderer. engo draws the entities itself once
// the systems have run.
func (r *EngoRenderer) Present() {
	r.frames++
}

// Frames returns the number of presented frames
func (r *EngoRenderer) Frames() uint64 {
	return r.frames
}

// BarrelTip returns the window position of the barrel's far end on its
// axis
func (r *EngoRenderer) BarrelTip() engo.Point {
	a := float64(-r.barrel.Rotation) * math.Pi / 180
	half := float64(r.barrel.Height) / 2
	length := float64(r.barrel.Width)
	return engo.Point{
		X: r.barrel.Position.X + float32(length*math.Cos(a)+half*math.Sin(a)),
		Y: r.barrel.Position.Y + float32(-length*math.Sin(a)+half*math.Cos(a)),
	}
}

// Remove takes every entity out of the sink
func (r *EngoRenderer) Remove() {
	all := []*sprite{r.ground, r.barrel, r.carriage, r.projectile}
	all = append(all, r.rings...)
	all = append(all, r.trail...)
	all = append(all, r.samples...)
	for _, s := range all {
		r.sink.Remove(s.BasicEntity)
	}
	r.trail, r.samples = nil, nil
	r.hud.Remove()
}

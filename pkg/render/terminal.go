// pkg/render/terminal.go
package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-cannon/pkg/engine"
	"github.com/opd-ai/go-cannon/pkg/physics"
)

// HUDRows is the number of terminal rows reserved below the field
const HUDRows = 4

// EventBuffer is the capacity of the channel returned by PollEvents
const EventBuffer = 100

// Terminal glyphs
const (
	GlyphGround     = '='
	GlyphSoil       = ':'
	GlyphTarget     = 'o'
	GlyphBullseye   = '@'
	GlyphTrail      = '.'
	GlyphSample     = '+'
	GlyphProjectile = '*'
	GlyphCannon     = 'A'
)

var (
	styleGround     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleTarget     = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleTrail      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSample     = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleProjectile = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleCannon     = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleHUD        = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleHit        = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleMiss       = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// TerminalRenderer draws the field on a tcell screen. The field is scaled
// to fill the screen above the HUD rows.
type TerminalRenderer struct {
	screen tcell.Screen
	width  int
	height int
	field  physics.Field
}

// NewTerminalRenderer creates a renderer on an initialised screen
func NewTerminalRenderer(screen tcell.Screen) *TerminalRenderer {
	w, h := screen.Size()
	return &TerminalRenderer{
		screen: screen,
		width:  w,
		height: h,
	}
}

// playRows is the number of rows used by the field
func (r *TerminalRenderer) playRows() int {
	if rows := r.height - HUDRows; rows > 0 {
		return rows
	}
	return 0
}

// worldToScreen converts field pixels to a cell. ok is false when the field
// is unknown or the point falls outside the play area.
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (x, y int, ok bool) {
	rows := r.playRows()
	if r.field.Width <= 0 || r.field.Height <= 0 || r.width == 0 || rows == 0 {
		return 0, 0, false
	}
	x = int(math.Floor(pos.X / r.field.Width * float64(r.width)))
	y = int(math.Floor(pos.Y / r.field.Height * float64(rows)))
	if x < 0 || x >= r.width || y < 0 || y >= rows {
		return 0, 0, false
	}
	return x, y, true
}

// screenToWorld returns the field position of the centre of a cell
func (r *TerminalRenderer) screenToWorld(x, y int) physics.Vector2D {
	rows := r.playRows()
	return physics.Vector2D{
		X: (float64(x) + 0.5) * r.field.Width / float64(r.width),
		Y: (float64(y) + 0.5) * r.field.Height / float64(rows),
	}
}

func (r *TerminalRenderer) plot(pos physics.Vector2D, ch rune, style tcell.Style) {
	if x, y, ok := r.worldToScreen(pos); ok {
		r.screen.SetContent(x, y, ch, nil, style)
	}
}

// Clear implements Renderer. It also picks up terminal resizes.
func (r *TerminalRenderer) Clear() {
	r.width, r.height = r.screen.Size()
	r.screen.Clear()
}

// RenderField implements Renderer.
func (r *TerminalRenderer) RenderField(field physics.Field) {
	r.field = field
	_, groundRow, ok := r.worldToScreen(physics.Vector2D{Y: field.GroundY})
	if !ok {
		return
	}
	for y := groundRow; y < r.playRows(); y++ {
		ch := GlyphSoil
		if y == groundRow {
			ch = GlyphGround
		}
		for x := 0; x < r.width; x++ {
			r.screen.SetContent(x, y, ch, nil, styleGround)
		}
	}
}

// RenderTarget implements Renderer. Every cell whose centre lies inside
// the target circle is filled.
func (r *TerminalRenderer) RenderTarget(target engine.Target) {
	cx, cy, ok := r.worldToScreen(target.Position)
	if !ok {
		return
	}
	circle := target.Circle()
	for y := 0; y < r.playRows(); y++ {
		for x := 0; x < r.width; x++ {
			if circle.Contains(r.screenToWorld(x, y)) {
				r.screen.SetContent(x, y, GlyphTarget, nil, styleTarget)
			}
		}
	}
	r.screen.SetContent(cx, cy, GlyphBullseye, nil, styleTarget)
}

// RenderTrajectory implements Renderer.
func (r *TerminalRenderer) RenderTrajectory(points []physics.Vector2D) {
	for _, p := range points {
		r.plot(p, GlyphTrail, styleTrail)
	}
}

// RenderVelocitySamples implements Renderer.
func (r *TerminalRenderer) RenderVelocitySamples(samples []engine.VelocitySample) {
	for _, s := range samples {
		r.plot(physics.Vector2D{X: s.X, Y: s.Y}, GlyphSample, styleSample)
	}
}

// RenderCannon implements Renderer. The barrel is drawn with a glyph that
// follows its slope.
func (r *TerminalRenderer) RenderCannon(origin physics.Vector2D, angle, barrelLength float64) {
	barrel := barrelGlyph(angle)
	const steps = 8
	for i := 1; i <= steps; i++ {
		p := origin.Add(physics.FromElevation(angle, barrelLength*float64(i)/steps))
		r.plot(p, barrel, styleCannon)
	}
	r.plot(origin, GlyphCannon, styleCannon)
}

// barrelGlyph picks the glyph closest to the barrel slope
func barrelGlyph(angle float64) rune {
	deg := angle * 180 / math.Pi
	switch {
	case deg < 22.5:
		return '-'
	case deg < 67.5:
		return '/'
	default:
		return '|'
	}
}

// RenderProjectile implements Renderer.
func (r *TerminalRenderer) RenderProjectile(shot engine.ShotView) {
	r.plot(shot.Position, GlyphProjectile, styleProjectile)
}

// RenderHUD implements Renderer.
func (r *TerminalRenderer) RenderHUD(hud HUD) {
	top := r.playRows()
	for i, line := range hud.Lines() {
		style := styleHUD
		if line == hud.Message {
			switch hud.Phase {
			case engine.PhaseHit:
				style = styleHit
			case engine.PhaseMiss:
				style = styleMiss
			}
			if hud.Message == MessageInvalidSpeed {
				style = styleMiss
			}
		}
		r.drawText(0, top+i, line, style)
	}
}

func (r *TerminalRenderer) drawText(x, y int, text string, style tcell.Style) {
	if y < 0 || y >= r.height {
		return
	}
	for _, ch := range text {
		if x >= r.width {
			return
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

// Present implements Renderer.
func (r *TerminalRenderer) Present() {
	r.screen.Show()
}

// PollEvents forwards events from poll on a goroutine until poll returns
// nil or done is closed. The returned channel is closed when forwarding
// stops.
func PollEvents(poll func() tcell.Event, done <-chan struct{}) <-chan tcell.Event {
	events := make(chan tcell.Event, EventBuffer)
	go func() {
		defer close(events)
		for {
			ev := poll()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events
}

// HandleEvent applies a terminal event to c. It returns false once the
// user asked to quit.
func HandleEvent(c *Controls, ev tcell.Event) bool {
	if key, ok := ev.(*tcell.EventKey); ok {
		return HandleKey(c, key.Key(), key.Rune())
	}
	return !c.Quit()
}

// HandleKey maps a key press onto c:
//
//	←/→ ↑/↓    turn the barrel by AngleStep
//	0-9 .      edit the speed field
//	Backspace  delete from the speed field
//	Enter Space fire
//	r          new round
//	q Esc ^C   quit
func HandleKey(c *Controls, key tcell.Key, ch rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		c.RequestQuit()
	case tcell.KeyLeft, tcell.KeyDown:
		c.AdjustAngle(-AngleStep)
	case tcell.KeyRight, tcell.KeyUp:
		c.AdjustAngle(AngleStep)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		c.Backspace()
	case tcell.KeyEnter:
		_ = c.Fire()
	case tcell.KeyRune:
		switch ch {
		case 'q', 'Q':
			c.RequestQuit()
		case 'r', 'R':
			c.Reset()
		case ' ':
			_ = c.Fire()
		default:
			c.TypeRune(ch)
		}
	}
	return !c.Quit()
}

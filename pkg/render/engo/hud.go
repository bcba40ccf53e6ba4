// pkg/render/engo/hud.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-cannon/pkg/engine"
	"github.com/opd-ai/go-cannon/pkg/render"
)

// HUD layout in window units
const (
	hudMargin     = 10
	hudLineHeight = 20
	hudZIndex     = 100
)

// HUDPanel shows the trainer HUD as text lines in the top-left corner.
// Without a font it only keeps the text, which headless tests read back.
type HUDPanel struct {
	sink  drawSink
	font  *common.Font
	lines []*sprite
	texts []string
}

// NewHUDPanel creates an empty panel drawing into sink with font
func NewHUDPanel(sink drawSink, font *common.Font) *HUDPanel {
	return &HUDPanel{
		sink: sink,
		font: font,
	}
}

// Update replaces the panel text with the lines of hud
func (hud *HUDPanel) Update(h render.HUD) {
	hud.texts = h.Lines()
	for len(hud.lines) < len(hud.texts) {
		hud.addLine(len(hud.lines))
	}

	for i, line := range hud.lines {
		if i >= len(hud.texts) || hud.texts[i] == "" {
			line.Hidden = true
			continue
		}
		line.Hidden = false
		line.Color = lineColor(h, hud.texts[i])
		if hud.font != nil {
			line.Drawable = common.Text{Font: hud.font, Text: hud.texts[i]}
		}
	}
}

func (hud *HUDPanel) addLine(index int) {
	line := &sprite{BasicEntity: newBasic()}
	line.SpaceComponent = common.SpaceComponent{
		Position: engo.Point{X: hudMargin, Y: hudMargin + float32(index)*hudLineHeight},
	}
	line.RenderComponent = common.RenderComponent{
		Color:       ColorHUD,
		StartZIndex: hudZIndex,
	}
	hud.lines = append(hud.lines, line)
	if hud.font != nil {
		line.Drawable = common.Text{Font: hud.font}
		hud.sink.Add(&line.BasicEntity, &line.RenderComponent, &line.SpaceComponent)
	}
}

// lineColor colours the result message like the terminal front end
func lineColor(h render.HUD, text string) color.Color {
	if text != h.Message {
		return ColorHUD
	}
	switch {
	case h.Message == render.MessageInvalidSpeed:
		return ColorMiss
	case h.Phase == engine.PhaseHit:
		return ColorHit
	case h.Phase == engine.PhaseMiss:
		return ColorMiss
	}
	return ColorHUD
}

// Lines returns the text currently shown
func (hud *HUDPanel) Lines() []string {
	return hud.texts
}

// Remove takes the panel's entities out of the sink
func (hud *HUDPanel) Remove() {
	if hud.font != nil {
		for _, line := range hud.lines {
			hud.sink.Remove(line.BasicEntity)
		}
	}
	hud.lines = nil
}

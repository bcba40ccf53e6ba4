// pkg/render/engo/hud_test.go
package engo

import (
	"image/color"
	"testing"

	"github.com/opd-ai/go-cannon/pkg/engine"
	"github.com/opd-ai/go-cannon/pkg/render"
)

func TestHUDPanel_UpdateWithoutFont(t *testing.T) {
	sink := newFakeSink()
	hud := NewHUDPanel(sink, nil)

	hud.Update(render.HUD{Phase: engine.PhaseHit, Message: render.MessageHit})

	lines := hud.Lines()
	if len(lines) != render.HUDRows || lines[3] != render.MessageHit {
		t.Fatalf("unexpected lines %q", lines)
	}
	if len(sink.entities) != 0 {
		t.Errorf("expected no text entities without a font, got %d", len(sink.entities))
	}
	if len(hud.lines) != render.HUDRows {
		t.Errorf("expected %d line slots, got %d", render.HUDRows, len(hud.lines))
	}

	hud.Remove()
	if hud.lines != nil {
		t.Error("expected line slots released")
	}
}

func TestHUDPanel_EmptyMessageHidden(t *testing.T) {
	hud := NewHUDPanel(newFakeSink(), nil)
	hud.Update(render.HUD{Phase: engine.PhaseReady})

	if !hud.lines[3].Hidden {
		t.Error("expected empty message line hidden")
	}
	if hud.lines[0].Hidden {
		t.Error("expected first line visible")
	}
}

func TestLineColor(t *testing.T) {
	tests := []struct {
		name string
		hud  render.HUD
		text string
		want color.Color
	}{
		{"hit message", render.HUD{Phase: engine.PhaseHit, Message: render.MessageHit}, render.MessageHit, ColorHit},
		{"miss message", render.HUD{Phase: engine.PhaseMiss, Message: render.MessageMiss}, render.MessageMiss, ColorMiss},
		{"invalid speed", render.HUD{Phase: engine.PhaseReady, Message: render.MessageInvalidSpeed}, render.MessageInvalidSpeed, ColorMiss},
		{"other line", render.HUD{Phase: engine.PhaseHit, Message: render.MessageHit}, "Round 1", ColorHUD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lineColor(tt.hud, tt.text); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// pkg/render/engo/assets.go
package engo

import (
	"bytes"
	"image/color"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/goregular"
)

// FontURL is the asset name the HUD font is registered under
const FontURL = "cannon-hud.ttf"

// HUDFontSize is the HUD font size in points
const HUDFontSize = 16

// Scene colours
var (
	ColorSky        = color.RGBA{135, 206, 235, 255}
	ColorGround     = color.RGBA{86, 125, 70, 255}
	ColorBarrel     = color.RGBA{85, 85, 85, 255}
	ColorCarriage   = color.RGBA{102, 102, 102, 255}
	ColorRingOuter  = color.RGBA{255, 255, 255, 255}
	ColorRingMiddle = color.RGBA{255, 0, 0, 255}
	ColorProjectile = color.RGBA{0, 0, 0, 255}
	ColorTrail      = color.RGBA{0, 0, 0, 77}
	ColorSample     = color.RGBA{0, 0, 255, 200}
	ColorHUD        = color.RGBA{0, 0, 0, 255}
	ColorHit        = color.RGBA{0, 128, 0, 255}
	ColorMiss       = color.RGBA{200, 0, 0, 255}
)

// Sizes in field pixels
const (
	ProjectileRadius = 8
	TrailDotSize     = 3
	SampleDotSize    = 6
	BarrelThickness  = 20
	CarriageRadius   = 30
)

// Ring is one band of the target, drawn as a filled circle at a fraction
// of the target radius.
type Ring struct {
	Fraction float64
	Color    color.Color
}

// TargetRings lists the target bands from the outside in
var TargetRings = []Ring{
	{Fraction: 1, Color: ColorRingOuter},
	{Fraction: 0.66, Color: ColorRingMiddle},
	{Fraction: 0.33, Color: ColorRingOuter},
}

// AssetManager owns the drawables shared by the scene. Shapes need no
// loading; only the HUD font does.
type AssetManager struct {
	font *common.Font
}

// NewAssetManager creates a new asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{}
}

// LoadAssets registers and prepares the HUD font. It must run after engo
// has started, from the scene's Preload.
func (am *AssetManager) LoadAssets() error {
	if err := engo.Files.LoadReaderData(FontURL, bytes.NewReader(goregular.TTF)); err != nil {
		return err
	}

	font := &common.Font{
		URL:  FontURL,
		FG:   ColorHUD,
		Size: HUDFontSize,
	}
	if err := font.CreatePreloaded(); err != nil {
		return err
	}
	am.font = font
	return nil
}

// Font returns the HUD font, nil until LoadAssets succeeded
func (am *AssetManager) Font() *common.Font {
	return am.font
}

// Disc returns a filled circle drawable
func (am *AssetManager) Disc() common.Drawable {
	return common.Circle{}
}

// Box returns a filled rectangle drawable
func (am *AssetManager) Box() common.Drawable {
	return common.Rectangle{}
}

package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/plus3/evade/internal/game"
)

const (
	hudFontSize = 16
	hudMargin   = 10
)

var hudColor = color.RGBA{0xf5, 0xf5, 0xf5, 0xff}

// HUDLines formats the on-screen status text.
func HUDLines(t game.Tally, paused bool) []string {
	lines := []string{
		fmt.Sprintf("time %.1fs", t.Elapsed),
		fmt.Sprintf("bounces %d", t.Bounces),
		fmt.Sprintf("near misses %d", t.Proximity),
	}
	if paused {
		lines = append(lines, "paused")
	}
	return lines
}

// HUD draws status text in the top-left corner.
type HUD struct {
	face       font.Face
	lineHeight int
}

// NewHUD builds the HUD face from the embedded Go Regular font.
func NewHUD() (*HUD, error) {
	tt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("render: parse font: %w", err)
	}
	face, err := opentype.NewFace(tt, &opentype.FaceOptions{
		Size:    hudFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("render: font face: %w", err)
	}
	return &HUD{face: face, lineHeight: face.Metrics().Height.Ceil()}, nil
}

func (h *HUD) Draw(screen *ebiten.Image, lines []string) {
	y := hudMargin + h.face.Metrics().Ascent.Ceil()
	for _, line := range lines {
		text.Draw(screen, line, h.face, hudMargin, y, hudColor)
		y += h.lineHeight
	}
}

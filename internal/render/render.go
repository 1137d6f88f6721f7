// Package render draws the world and the HUD onto the ebiten screen.
package render

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/evade/internal/assets"
	"github.com/plus3/evade/internal/game"
)

// ToScreen converts a y-up world position to y-down screen coordinates.
func ToScreen(pos mgl64.Vec2, screenHeight float64) (x, y float64) {
	return pos.X(), screenHeight - pos.Y()
}

// SpriteGeoM scales an image of imgW x imgH to size and centers it on (x, y).
func SpriteGeoM(imgW, imgH int, size, x, y float64) ebiten.GeoM {
	var geo ebiten.GeoM
	if imgW > 0 && imgH > 0 {
		geo.Scale(size/float64(imgW), size/float64(imgH))
	}
	geo.Translate(x-size/2, y-size/2)
	return geo
}

// WorldRenderer draws every sprite of a world.
type WorldRenderer struct {
	lib *assets.Library
}

func NewWorldRenderer(lib *assets.Library) *WorldRenderer {
	return &WorldRenderer{lib: lib}
}

func (r *WorldRenderer) Draw(screen *ebiten.Image, world *game.World) {
	height := float64(screen.Bounds().Dy())
	for d := range world.Drawables() {
		img := r.lib.Image(r.lib.Load(d.Sprite.Asset), d.Sprite.Size, d.Sprite.Color)
		x, y := ToScreen(d.Position, height)
		b := img.Bounds()

		op := &ebiten.DrawImageOptions{}
		op.GeoM = SpriteGeoM(b.Dx(), b.Dy(), d.Sprite.Size, x, y)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(img, op)
	}
}

package game

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// Bounds is the range of positions a sprite's center may occupy.
type Bounds struct {
	Min, Max mgl64.Vec2
}

// BoundsFor returns the bounds of a sprite of the given size inside w.
func BoundsFor(w Window, size float64) Bounds {
	half := size / 2
	return Bounds{
		Min: mgl64.Vec2{half, half},
		Max: mgl64.Vec2{w.Width - half, w.Height - half},
	}
}

// Contains reports whether p lies inside b, bounds included.
func (b Bounds) Contains(p mgl64.Vec2) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y()
}

// HeldDirection sums the held arrow keys into a unit vector, or zero when
// nothing (or only opposing keys) is held.
func HeldDirection(in Input) mgl64.Vec2 {
	var dir mgl64.Vec2
	if in.Right {
		dir = dir.Add(mgl64.Vec2{1, 0})
	}
	if in.Left {
		dir = dir.Add(mgl64.Vec2{-1, 0})
	}
	if in.Up {
		dir = dir.Add(mgl64.Vec2{0, 1})
	}
	if in.Down {
		dir = dir.Add(mgl64.Vec2{0, -1})
	}
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return dir
}

// MovePlayer advances pos along the held direction at speed for dt seconds.
func MovePlayer(pos mgl64.Vec2, in Input, speed, dt float64) mgl64.Vec2 {
	return pos.Add(HeldDirection(in).Mul(speed * dt))
}

// MoveEnemy advances pos along dir at speed for dt seconds.
func MoveEnemy(pos, dir mgl64.Vec2, speed, dt float64) mgl64.Vec2 {
	return pos.Add(dir.Mul(speed * dt))
}

// ClampElapsed caps a measured frame time at limit so a stalled host does not
// tunnel entities through the walls. Negative times become zero and a
// non-positive limit disables the cap.
func ClampElapsed(dt, limit float64) float64 {
	dt = max(0, dt)
	if limit > 0 {
		dt = min(dt, limit)
	}
	return dt
}

// Confine clamps each axis of pos into b independently.
func Confine(pos mgl64.Vec2, b Bounds) mgl64.Vec2 {
	return mgl64.Vec2{
		mgl64.Clamp(pos.X(), b.Min.X(), b.Max.X()),
		mgl64.Clamp(pos.Y(), b.Min.Y(), b.Max.Y()),
	}
}

// Bounce points dir back inside b for every axis on which pos touches or
// crosses a bound, and reports whether any axis did. Only signs change.
//
// The comparisons are inclusive because confinement has already clamped pos
// onto the bound by the time this runs.
func Bounce(pos, dir mgl64.Vec2, b Bounds) (mgl64.Vec2, bool) {
	hit := false
	if pos.Y() <= b.Min.Y() {
		dir[1] = math.Abs(dir.Y())
		hit = true
	}
	if pos.Y() >= b.Max.Y() {
		dir[1] = -math.Abs(dir.Y())
		hit = true
	}
	if pos.X() <= b.Min.X() {
		dir[0] = math.Abs(dir.X())
		hit = true
	}
	if pos.X() >= b.Max.X() {
		dir[0] = -math.Abs(dir.X())
		hit = true
	}
	return dir, hit
}

// Near reports whether an enemy of enemySize overlaps the player position.
func Near(player, enemy mgl64.Vec2, enemySize float64) bool {
	return player.Sub(enemy).Len() < enemySize
}

// RandomDirection returns a unit vector with both components drawn from [0, 1)
// before normalization. The all-zero draw falls back to +x.
func RandomDirection(r *rand.Rand) mgl64.Vec2 {
	dir := mgl64.Vec2{r.Float64(), r.Float64()}
	if dir.Len() == 0 {
		return mgl64.Vec2{1, 0}
	}
	return dir.Normalize()
}

// RandomSpawn returns a position uniformly drawn from [margin, dim-margin) on both axes.
func RandomSpawn(r *rand.Rand, w Window, margin float64) mgl64.Vec2 {
	return mgl64.Vec2{
		margin + r.Float64()*(w.Width-2*margin),
		margin + r.Float64()*(w.Height-2*margin),
	}
}

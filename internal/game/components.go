// Package game holds the entities, per-frame systems and world wiring of the
// evade arcade game. World coordinates are in pixels with the origin at the
// bottom-left corner of the window and y pointing up.
package game

import (
	"image/color"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/plus3/evade/internal/config"
)

type Transform struct {
	Position mgl64.Vec2
}

// Player marks the entity steered by the arrow keys.
type Player struct{}

type Enemy struct {
	// Direction is a unit vector; bounces only flip the sign of a component.
	Direction mgl64.Vec2
}

// Sprite names the asset drawn at an entity's Transform. Size and Color are
// used when the asset is missing and a disc is drawn instead.
type Sprite struct {
	Asset string
	Size  float64
	Color color.RGBA
}

var (
	PlayerColor = color.RGBA{0x3b, 0x82, 0xf6, 0xff}
	EnemyColor  = color.RGBA{0xef, 0x44, 0x44, 0xff}
)

// Window is the drawable area, written by the host every frame.
type Window struct {
	Width, Height float64
}

// Valid reports whether the window has a usable size.
func (w *Window) Valid() bool {
	return w != nil && w.Width > 0 && w.Height > 0
}

// Input is the set of arrow keys held during the current frame.
type Input struct {
	Up, Down, Left, Right bool
}

type CueKind int

const (
	// CueImpact is emitted when an enemy bounces off a wall or passes close to the player.
	CueImpact CueKind = iota
)

func (k CueKind) String() string {
	switch k {
	case CueImpact:
		return "impact"
	default:
		return "unknown"
	}
}

// Cue is a fire-and-forget sound request.
type Cue struct {
	Kind  CueKind
	Asset string
}

// Cues queues the cues of one frame until the host drains them.
type Cues struct {
	queue []Cue
}

func (c *Cues) Push(cue Cue) {
	c.queue = append(c.queue, cue)
}

// Drain returns the queued cues and empties the queue.
func (c *Cues) Drain() []Cue {
	out := c.queue
	c.queue = nil
	return out
}

func (c *Cues) Len() int {
	return len(c.queue)
}

// Settings is the immutable tunables of a world.
type Settings struct {
	Game   config.Game
	Assets config.Assets
}

// Random is the world's seeded random source.
type Random struct {
	*rand.Rand
}

// Tally counts what happened since the world was (re)started.
type Tally struct {
	Frames    int64
	Elapsed   float64
	Cues      int
	Bounces   int
	Proximity int
}

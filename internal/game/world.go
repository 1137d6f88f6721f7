package game

import (
	"iter"
	"math/rand/v2"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/plus3/evade/ecs"
)

// NewRegistry registers every component type of the game.
func NewRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Player](registry)
	ecs.RegisterComponent[Enemy](registry)
	ecs.RegisterComponent[Sprite](registry)
	return registry
}

// World is one game: its storage, the scheduler running the game systems and
// handles on the singletons the host reads and writes.
type World struct {
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler

	settings Settings
	seed     uint64

	window  *ecs.Singleton[Window]
	input   *ecs.Singleton[Input]
	cues    *ecs.Singleton[Cues]
	tally   *ecs.Singleton[Tally]
	sprites *ecs.View[struct {
		ecs.EntityId
		*Transform
		*Sprite
	}]
	enemies *ecs.View[struct {
		ecs.EntityId
		*Transform
		*Enemy
	}]
	players *ecs.View[struct {
		*Transform
		*Player
	}]
}

// NewWorld builds a world whose random source is seeded with seed. Entities
// are spawned on the first Step that has a valid window.
func NewWorld(settings Settings, seed uint64) *World {
	storage := ecs.NewStorage(NewRegistry())

	ecs.NewSingleton(storage, settings)
	ecs.NewSingleton(storage, Random{Rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))})

	w := &World{
		Storage:   storage,
		Scheduler: ecs.NewScheduler(storage),
		settings:  settings,
		seed:      seed,
		window:    ecs.NewSingleton[Window](storage),
		input:     ecs.NewSingleton[Input](storage),
		cues:      ecs.NewSingleton[Cues](storage),
		tally:     ecs.NewSingleton[Tally](storage),
	}
	w.sprites = ecs.NewView[struct {
		ecs.EntityId
		*Transform
		*Sprite
	}](storage)
	w.enemies = ecs.NewView[struct {
		ecs.EntityId
		*Transform
		*Enemy
	}](storage)
	w.players = ecs.NewView[struct {
		*Transform
		*Player
	}](storage)

	w.Scheduler.RegisterStartup(&SpawnPlayerSystem{})
	w.Scheduler.RegisterStartup(&SpawnEnemiesSystem{})

	w.Scheduler.Register(&PlayerMovementSystem{})
	w.Scheduler.Register(&EnemyMovementSystem{})
	w.Scheduler.Register(&ConfinePlayerSystem{})
	w.Scheduler.Register(&ConfineEnemiesSystem{})
	w.Scheduler.Register(&EnemyDirectionSystem{})
	w.Scheduler.Register(&TallySystem{})
	return w
}

// Settings returns the tunables the world was built with.
func (w *World) Settings() Settings {
	return w.settings
}

// Seed returns the seed of the world's random source.
func (w *World) Seed() uint64 {
	return w.seed
}

// SetWindow records the drawable size for the next Step.
func (w *World) SetWindow(width, height float64) {
	*w.window.Get() = Window{Width: width, Height: height}
}

// Window returns the size set by the last SetWindow.
func (w *World) Window() Window {
	return *w.window.Get()
}

// SetInput records the keys held for the next Step.
func (w *World) SetInput(in Input) {
	*w.input.Get() = in
}

// Step runs one frame of dt seconds and returns the cues it produced. Entities
// move by velocity x dt; a negative dt counts as zero. Hosts that measure
// wall time should cap it with ClampElapsed first.
func (w *World) Step(dt float64) []Cue {
	dt = max(0, dt)
	w.Scheduler.Once(dt)
	return w.cues.Get().Drain()
}

// Restart removes every entity, clears the tally and queued cues, and makes the
// next Step spawn a fresh player and enemies. The random source continues.
func (w *World) Restart() {
	var ids []ecs.EntityId
	for a := range w.Storage.Archetypes() {
		ids = slices.AppendSeq(ids, a.Iter())
	}
	for _, id := range ids {
		w.Storage.Delete(id)
	}
	*w.tally.Get() = Tally{}
	w.cues.Get().Drain()
	w.Scheduler.Restart()
}

// Tally returns a copy of the counters for the current round.
func (w *World) Tally() Tally {
	return *w.tally.Get()
}

// Player returns the player position, if a player exists.
func (w *World) Player() (mgl64.Vec2, bool) {
	player, ok := w.players.Single()
	if !ok {
		return mgl64.Vec2{}, false
	}
	return player.Position, true
}

// EnemyState is a snapshot of one enemy.
type EnemyState struct {
	ID        ecs.EntityId
	Position  mgl64.Vec2
	Direction mgl64.Vec2
}

// Enemies yields a snapshot of every enemy.
func (w *World) Enemies() iter.Seq[EnemyState] {
	return func(yield func(EnemyState) bool) {
		for id, enemy := range w.enemies.Iter() {
			if !yield(EnemyState{ID: id, Position: enemy.Position, Direction: enemy.Direction}) {
				return
			}
		}
	}
}

// Drawable is a sprite placed at a world position.
type Drawable struct {
	ID       ecs.EntityId
	Position mgl64.Vec2
	Sprite   Sprite
}

// Drawables yields every entity that has a sprite.
func (w *World) Drawables() iter.Seq[Drawable] {
	return func(yield func(Drawable) bool) {
		for id, item := range w.sprites.Iter() {
			if !yield(Drawable{ID: id, Position: item.Position, Sprite: *item.Sprite}) {
				return
			}
		}
	}
}

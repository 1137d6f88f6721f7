package game_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/evade/ecs"
	"github.com/plus3/evade/internal/config"
	"github.com/plus3/evade/internal/game"
)

func testSettings(enemies int) game.Settings {
	cfg := config.Default()
	cfg.Game.NumberOfEnemies = enemies
	return game.Settings{Game: cfg.Game, Assets: cfg.Assets}
}

func newTestWorld(t *testing.T, enemies int) *game.World {
	t.Helper()
	w := game.NewWorld(testSettings(enemies), 42)
	w.SetWindow(800, 600)
	return w
}

func enemyStates(w *game.World) []game.EnemyState {
	var out []game.EnemyState
	for e := range w.Enemies() {
		out = append(out, e)
	}
	return out
}

func TestWorldSpawns(t *testing.T) {
	w := newTestWorld(t, 5)
	w.Step(0)

	pos, ok := w.Player()
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec2{400, 300}, pos)

	enemies := enemyStates(w)
	require.Len(t, enemies, 5)
	for _, e := range enemies {
		assert.GreaterOrEqual(t, e.Position.X(), 32.0)
		assert.Less(t, e.Position.X(), 768.0)
		assert.GreaterOrEqual(t, e.Position.Y(), 32.0)
		assert.Less(t, e.Position.Y(), 568.0)
		assert.InDelta(t, 1.0, e.Direction.Len(), epsilon)
		assert.GreaterOrEqual(t, e.Direction.X(), 0.0)
		assert.GreaterOrEqual(t, e.Direction.Y(), 0.0)
	}

	var drawn int
	for d := range w.Drawables() {
		assert.NotEmpty(t, d.Sprite.Asset)
		assert.Equal(t, 64.0, d.Sprite.Size)
		drawn++
	}
	assert.Equal(t, 6, drawn)

	w.Step(0)
	assert.Len(t, enemyStates(w), 5, "startup runs once")
}

func TestWorldSameSeedSameSpawns(t *testing.T) {
	a := newTestWorld(t, 5)
	b := newTestWorld(t, 5)
	a.Step(0)
	b.Step(0)
	assert.Equal(t, enemyStates(a), enemyStates(b))
}

func TestPlayerMovesAndIsConfined(t *testing.T) {
	w := game.NewWorld(testSettings(0), 1)
	w.SetWindow(800, 600)
	w.Step(0)

	w.SetInput(game.Input{Right: true})
	w.Step(1)

	pos, ok := w.Player()
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec2{768, 300}, pos)
}

func TestStepUsesFullElapsed(t *testing.T) {
	w := newTestWorld(t, 0)
	w.Step(0)

	w.SetInput(game.Input{Up: true})
	w.Step(0.5)

	pos, _ := w.Player()
	assert.InDelta(t, 300+500*0.5, pos.Y(), epsilon)
	assert.InDelta(t, 0.5, w.Tally().Elapsed, epsilon)

	w.Step(-1)
	after, _ := w.Player()
	assert.Equal(t, pos, after, "negative elapsed is treated as zero")
}

func TestZeroElapsedMovesNothing(t *testing.T) {
	w := newTestWorld(t, 5)
	w.Step(0)
	before := enemyStates(w)
	player, _ := w.Player()

	w.SetInput(game.Input{Left: true, Down: true})
	w.Step(0)

	after, _ := w.Player()
	assert.Equal(t, player, after)
	for i, e := range enemyStates(w) {
		assert.Equal(t, before[i].Position, e.Position)
	}
}

func TestEnemyBouncesOffCeiling(t *testing.T) {
	w := newTestWorld(t, 0)
	w.Step(0)

	id := w.Storage.Spawn(
		game.Transform{Position: mgl64.Vec2{100, 598}},
		game.Enemy{Direction: mgl64.Vec2{0.6, 0.8}},
	)

	cues := w.Step(0)

	enemy := ecs.ReadComponent[game.Enemy](w.Storage, id)
	require.NotNil(t, enemy)
	assert.Equal(t, mgl64.Vec2{0.6, -0.8}, enemy.Direction)
	require.Len(t, cues, 1)
	assert.Equal(t, game.CueImpact, cues[0].Kind)
	assert.Equal(t, config.Default().Assets.ImpactSound, cues[0].Asset)

	tally := w.Tally()
	assert.Equal(t, 1, tally.Bounces)
	assert.Equal(t, 1, tally.Cues)
	assert.Zero(t, tally.Proximity)
}

func TestProximityCueLeavesDirection(t *testing.T) {
	w := newTestWorld(t, 0)
	w.Step(0)

	dir := mgl64.Vec2{0.6, 0.8}
	w.Storage.Spawn(
		game.Transform{Position: mgl64.Vec2{420, 300}},
		game.Enemy{Direction: dir},
	)

	cues := w.Step(0)
	require.Len(t, cues, 1)

	enemies := enemyStates(w)
	require.Len(t, enemies, 1)
	assert.Equal(t, dir, enemies[0].Direction)
	assert.Equal(t, 1, w.Tally().Proximity)
	assert.Zero(t, w.Tally().Bounces)
}

func TestOneCuePerEnemy(t *testing.T) {
	w := newTestWorld(t, 0)
	w.Step(0)

	// Near the player and past the right wall at once.
	w.SetWindow(430, 600)
	w.Storage.Spawn(
		game.Transform{Position: mgl64.Vec2{420, 300}},
		game.Enemy{Direction: mgl64.Vec2{1, 0}},
	)
	w.Storage.Spawn(
		game.Transform{Position: mgl64.Vec2{200, 568}},
		game.Enemy{Direction: mgl64.Vec2{0, 1}},
	)

	assert.Len(t, w.Step(0), 2)
}

func TestAllEnemiesConfined(t *testing.T) {
	w := newTestWorld(t, 0)
	w.Step(0)

	for _, p := range []mgl64.Vec2{{-100, 300}, {900, 300}, {400, -50}, {400, 1000}} {
		w.Storage.Spawn(game.Transform{Position: p}, game.Enemy{Direction: mgl64.Vec2{1, 0}})
	}
	w.Step(0.016)

	bounds := game.BoundsFor(w.Window(), 64)
	for _, e := range enemyStates(w) {
		assert.True(t, bounds.Contains(e.Position), "enemy at %v", e.Position)
	}
}

func TestNoWindowIsNoOp(t *testing.T) {
	w := game.NewWorld(testSettings(5), 7)

	cues := w.Step(0.05)
	assert.Empty(t, cues)
	assert.Zero(t, w.Storage.Count(), "nothing spawns without a window")

	// Entities outside the window are neither confined nor bounced.
	w.Storage.Spawn(game.Transform{Position: mgl64.Vec2{-500, -500}}, game.Enemy{Direction: mgl64.Vec2{-1, 0}})
	assert.Empty(t, w.Step(0))

	enemies := enemyStates(w)
	require.Len(t, enemies, 1)
	assert.Equal(t, mgl64.Vec2{-500, -500}, enemies[0].Position)
	assert.Equal(t, mgl64.Vec2{-1, 0}, enemies[0].Direction)
}

func TestRestart(t *testing.T) {
	w := newTestWorld(t, 3)
	w.Step(0)
	first := enemyStates(w)
	for range 100 {
		w.Step(0.05)
	}
	require.Positive(t, w.Tally().Frames)

	w.Restart()
	assert.Zero(t, w.Storage.Count())
	assert.Equal(t, game.Tally{}, w.Tally())

	w.Step(0)
	pos, ok := w.Player()
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec2{400, 300}, pos)
	second := enemyStates(w)
	require.Len(t, second, 3)
	assert.NotEqual(t, first[0].Position, second[0].Position, "random source continues across restarts")
}

func TestInvariantsHoldOverManyFrames(t *testing.T) {
	w := newTestWorld(t, 8)
	inputs := []game.Input{{Right: true}, {Up: true, Left: true}, {Down: true}, {}}

	for frame := range 2000 {
		w.SetInput(inputs[(frame/97)%len(inputs)])
		w.Step(1.0 / 60)

		playerBounds := game.BoundsFor(w.Window(), 64)
		pos, ok := w.Player()
		require.True(t, ok)
		require.True(t, playerBounds.Contains(pos), "frame %d: player at %v", frame, pos)

		for _, e := range enemyStates(w) {
			require.True(t, playerBounds.Contains(e.Position), "frame %d: enemy at %v", frame, e.Position)
			require.InDelta(t, 1.0, e.Direction.Len(), 1e-6)
		}
	}
	assert.Positive(t, w.Tally().Bounces)
}

package debugui_test

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/evade/internal/config"
	"github.com/plus3/evade/internal/debugui"
	"github.com/plus3/evade/internal/game"
)

func newWorld(t *testing.T, enemies int) *game.World {
	t.Helper()
	cfg := config.Default()
	cfg.Game.NumberOfEnemies = enemies
	w := game.NewWorld(game.Settings{Game: cfg.Game, Assets: cfg.Assets}, 3)
	w.SetWindow(800, 600)
	w.Step(0)
	return w
}

func TestFrameHistory(t *testing.T) {
	h := debugui.NewFrameHistory(3)
	assert.Zero(t, h.Average())

	h.Push(0.010)
	h.Push(0.020)
	assert.InDelta(t, 15.0, h.Average(), 1e-3, "only filled samples count")

	h.Push(0.030)
	h.Push(0.040)
	assert.InDelta(t, 30.0, h.Average(), 1e-3, "oldest sample is overwritten")
	assert.Len(t, h.Samples(), 3)
}

func TestStalledFrameRaisesAverage(t *testing.T) {
	timer := debugui.NewFrameTimer()
	h := debugui.NewFrameHistory(4)

	h.Push(timer.Tick())
	steady := h.Average()

	time.Sleep(50 * time.Millisecond)
	h.Push(timer.Tick())

	assert.GreaterOrEqual(t, h.Samples()[1], float32(50), "stall is measured in milliseconds")
	assert.Greater(t, h.Average(), steady)
	assert.GreaterOrEqual(t, h.Average(), float32(25))
}

func TestEntityRows(t *testing.T) {
	w := newWorld(t, 3)

	rows := debugui.EntityRows(w)
	require.Len(t, rows, 4)
	assert.Equal(t, "player", rows[0].Kind)
	assert.Equal(t, "(400.0, 300.0)", rows[0].Position)
	assert.Empty(t, rows[0].Direction)
	for _, row := range rows[1:] {
		assert.Equal(t, "enemy", row.Kind)
		assert.NotEmpty(t, row.Direction)
	}
}

func TestSelectionClearsOnRestart(t *testing.T) {
	w := newWorld(t, 2)
	rows := debugui.EntityRows(w)

	var sel debugui.Selection
	_, ok := sel.Resolve(w.Storage)
	assert.False(t, ok, "empty selection")

	sel.Select(w.Storage, rows[1].ID)
	id, ok := sel.Resolve(w.Storage)
	require.True(t, ok)
	assert.Equal(t, rows[1].ID, id)

	w.Restart()
	w.Step(0)

	_, ok = sel.Resolve(w.Storage)
	assert.False(t, ok, "deleted entity is not followed into its reused slot")
}

func TestFieldLines(t *testing.T) {
	enemy := &game.Enemy{Direction: mgl64.Vec2{0.6, 0.8}}
	assert.Equal(t, []string{"Direction: [0.6 0.8]"}, debugui.FieldLines(enemy))

	assert.Equal(t, []string{"(marker)"}, debugui.FieldLines(game.Player{}))
	assert.Nil(t, debugui.FieldLines((*game.Enemy)(nil)))

	sprite := debugui.FieldLines(game.Sprite{Asset: "a.png", Size: 64})
	require.Len(t, sprite, 3)
	assert.Equal(t, "Asset: a.png", sprite[0])
	assert.Equal(t, "Size: 64", sprite[1])
}

package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/evade/ecs"
)

func TestCommandsFlushOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	doomed := storage.Spawn(Position{X: 1})

	var commands ecs.Commands
	var log []string

	commands.Defer(func() {
		log = append(log, "defer")
		assert.False(t, storage.Alive(doomed), "deletes run before defers")
		assert.Equal(t, 2, storage.Count(), "spawns run before defers")
	})
	commands.Spawn(Position{X: 2})
	commands.Spawn(Position{X: 3}, Velocity{})
	commands.Delete(doomed)
	assert.Equal(t, 4, commands.Len())

	spawned := commands.Flush(storage)

	require.Len(t, spawned, 2)
	assert.Equal(t, 2.0, ecs.ReadComponent[Position](storage, spawned[0]).X)
	assert.Equal(t, 3.0, ecs.ReadComponent[Position](storage, spawned[1]).X)
	assert.Equal(t, []string{"defer"}, log)
	assert.Zero(t, commands.Len())

	assert.Empty(t, commands.Flush(storage), "buffer is reset")
}

type spawnOnceSystem struct {
	Positions ecs.Query[struct{ *Position }]
	visible   []int
}

func (s *spawnOnceSystem) Execute(frame *ecs.UpdateFrame) {
	s.visible = append(s.visible, s.Positions.Count())
	frame.Commands.Spawn(Position{})
}

func TestCommandsAreDeferredToFrameEnd(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	system := &spawnOnceSystem{}
	scheduler.Register(system)

	scheduler.Once(0)
	scheduler.Once(0)
	scheduler.Once(0)

	assert.Equal(t, []int{0, 1, 2}, system.visible)
	assert.Equal(t, 3, storage.Count())
}

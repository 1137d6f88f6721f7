package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/evade/ecs"
)

func TestViewIter(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	moving := storage.Spawn(Position{X: 1}, Velocity{DX: 1})
	storage.Spawn(Position{X: 2})
	other := storage.Spawn(Position{X: 3}, Velocity{DX: 2}, Name("named"))

	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	var ids []ecs.EntityId
	for id, item := range view.Iter() {
		ids = append(ids, id)
		item.Position.X += item.Velocity.DX
	}

	assert.ElementsMatch(t, []ecs.EntityId{moving, other}, ids)
	assert.Equal(t, 2.0, ecs.ReadComponent[Position](storage, moving).X)
	assert.Equal(t, 5.0, ecs.ReadComponent[Position](storage, other).X)
	assert.Equal(t, 2, view.Count())
}

func TestViewEntityIdField(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{}, Marker{})

	view := ecs.NewView[struct {
		ecs.EntityId
		*Marker
	}](storage)

	for item := range view.Values() {
		assert.Equal(t, id, item.EntityId)
	}
}

func TestViewOptionalFields(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	withName := storage.Spawn(Position{}, Name("a"))
	withoutName := storage.Spawn(Position{})

	view := ecs.NewView[struct {
		*Position
		Name *Name `ecs:"optional"`
	}](storage)

	got := map[ecs.EntityId]bool{}
	for id, item := range view.Iter() {
		got[id] = item.Name != nil
	}
	assert.Equal(t, map[ecs.EntityId]bool{withName: true, withoutName: false}, got)
}

func TestViewGet(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	full := storage.Spawn(Position{X: 1}, Health{Current: 5})
	partial := storage.Spawn(Position{X: 2})

	view := ecs.NewView[struct {
		*Position
		*Health
	}](storage)

	item := view.Get(full)
	require.NotNil(t, item)
	assert.Equal(t, 5, item.Health.Current)

	assert.Nil(t, view.Get(partial))

	storage.Delete(full)
	assert.Nil(t, view.Get(full))
}

func TestViewSingle(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	view := ecs.NewView[struct {
		*Marker
		*Position
	}](storage)

	_, ok := view.Single()
	assert.False(t, ok, "no match")

	first := storage.Spawn(Marker{}, Position{X: 7})
	item, ok := view.Single()
	require.True(t, ok)
	assert.Equal(t, 7.0, item.Position.X)

	storage.Spawn(Marker{}, Position{X: 8})
	_, ok = view.Single()
	assert.False(t, ok, "two matches")

	storage.Delete(first)
	item, ok = view.Single()
	require.True(t, ok)
	assert.Equal(t, 8.0, item.Position.X)
}

func TestViewRejectsBadShapes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { ecs.NewView[Position](storage) })
	assert.Panics(t, func() {
		ecs.NewView[struct{ Pos Position }](storage)
	})
	assert.Panics(t, func() {
		ecs.NewView[struct {
			Pos *Position `ecs:"maybe"`
		}](storage)
	})
}

func TestQuerySeesNewArchetypes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[struct{ *Position }](storage)

	storage.Spawn(Position{})
	assert.Equal(t, 1, query.Count())

	storage.Spawn(Position{}, Velocity{})
	storage.Spawn(Velocity{})
	assert.Equal(t, 2, query.Count())

	for item := range query.Values() {
		item.Position.Y = 9
	}
	for item := range query.Values() {
		assert.Equal(t, 9.0, item.Position.Y)
	}
}

func TestQueryEarlyBreak(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	for range 10 {
		storage.Spawn(Position{})
	}

	query := ecs.NewQuery[struct{ *Position }](storage)
	n := 0
	for range query.Iter() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestUnboundQueryPanics(t *testing.T) {
	var query ecs.Query[struct{ *Position }]
	assert.Panics(t, func() { query.Count() })
}

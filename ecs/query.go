package ecs

import "iter"

// Query is a View that remembers which archetypes match. Systems declare
// Query fields and the Scheduler binds them to its storage on Register.
type Query[T any] struct {
	view       *View[T]
	storage    *Storage
	archetypes []*Archetype
	seen       int
}

// NewQuery creates a query bound to storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.bind(storage)
	return q
}

func (q *Query[T]) bind(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.archetypes = nil
	q.seen = 0
}

// refresh picks up archetypes created since the last call. Archetypes are
// append-only, so only the tail needs matching.
func (q *Query[T]) refresh() {
	if q.storage == nil {
		panic("ecs: Query used before it was bound to a storage")
	}
	for _, a := range q.storage.archetypes[q.seen:] {
		if q.view.matches(a) {
			q.archetypes = append(q.archetypes, a)
		}
	}
	q.seen = len(q.storage.archetypes)
}

// Iter yields every matching entity.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	q.refresh()
	return q.view.iterArchetypes(q.archetypes)
}

// Values yields the view structs without IDs.
func (q *Query[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range q.Iter() {
			if !yield(item) {
				return
			}
		}
	}
}

// Single returns the only matching entity, reporting false for zero or many.
func (q *Query[T]) Single() (T, bool) {
	return single(q.Iter())
}

// Get returns the view of id if it matches the query.
func (q *Query[T]) Get(id EntityId) *T {
	return q.view.Get(id)
}

// Count returns the number of matching entities.
func (q *Query[T]) Count() int {
	n := 0
	for range q.Iter() {
		n++
	}
	return n
}

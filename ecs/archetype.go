package ecs

import (
	"iter"
	"reflect"
	"slices"
	"strings"
	"weak"

	"github.com/kamstrup/intmap"
)

// Archetype holds every entity that has exactly one particular set of component
// types. Slots are reused after deletion, so an index is stable for the lifetime
// of its entity.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []column
	alive   []bool
	free    []uint32
	count   int
	refs    *intmap.Map[uint32, weak.Pointer[EntityRef]]
}

func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
		refs:    intmap.New[uint32, weak.Pointer[EntityRef]](8),
	}
	for i, t := range types {
		a.columns[i] = registry.newColumn(t)
	}
	return a
}

// ID returns the archetype's identifier.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the archetype's component types, sorted by name.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	return a.count
}

// HasComponent reports whether the archetype stores compType.
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return a.columnIndex(compType) >= 0
}

func (a *Archetype) columnIndex(compType reflect.Type) int {
	return slices.Index(a.types, compType)
}

func (a *Archetype) spawn(components []any) uint32 {
	var slot uint32
	if n := len(a.free); n > 0 {
		slot = a.free[n-1]
		a.free = a.free[:n-1]
		a.alive[slot] = true
	} else {
		slot = uint32(len(a.alive))
		a.alive = append(a.alive, true)
	}

	for _, comp := range components {
		a.columns[a.columnIndex(componentType(comp))].set(slot, comp)
	}
	a.count++
	return slot
}

func (a *Archetype) live(slot uint32) bool {
	return int(slot) < len(a.alive) && a.alive[slot]
}

func (a *Archetype) component(slot uint32, col int) any {
	if col < 0 || !a.live(slot) {
		return nil
	}
	return a.columns[col].ptr(slot)
}

func (a *Archetype) remove(slot uint32) bool {
	if !a.live(slot) {
		return false
	}

	if wp, ok := a.refs.Get(slot); ok {
		if ref := wp.Value(); ref != nil {
			ref.Id = 0
		}
		a.refs.Del(slot)
	}

	for _, col := range a.columns {
		col.reset(slot)
	}
	a.alive[slot] = false
	a.free = append(a.free, slot)
	a.count--
	return true
}

func (a *Archetype) ref(slot uint32) *EntityRef {
	if wp, ok := a.refs.Get(slot); ok {
		if ref := wp.Value(); ref != nil {
			return ref
		}
	}
	ref := &EntityRef{Id: NewEntityId(a.id, slot)}
	a.refs.Put(slot, weak.Make(ref))
	return ref
}

// Iter yields the ID of every live entity in slot order.
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for slot, ok := range a.alive {
			if ok && !yield(NewEntityId(a.id, uint32(slot))) {
				return
			}
		}
	}
}

func archetypeKey(types []reflect.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.PkgPath() + ":" + t.String()
	}
	return strings.Join(names, "|")
}

package ecs

import (
	"iter"
	"reflect"
)

var entityIdType = reflect.TypeFor[EntityId]()

// View matches entities against a struct shape. Every field of T must be a
// pointer to a registered component type, except for an optional EntityId field
// that receives the entity's ID. Embedded pointer fields are always required;
// named fields tagged `ecs:"optional"` are set to nil when the component is absent.
type View[T any] struct {
	storage *Storage
	fields  []viewField
	idField int
}

type viewField struct {
	index    int
	compType reflect.Type
	optional bool
}

// NewView creates a view over storage for the struct type T.
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("ecs: View type parameter must be a struct")
	}

	v := &View[T]{storage: storage, idField: -1}
	for i := range structType.NumField() {
		field := structType.Field(i)

		if field.Type == entityIdType {
			v.idField = i
			continue
		}
		if field.Type.Kind() != reflect.Pointer {
			panic("ecs: View struct fields must be pointer types, got " + field.Type.String())
		}

		optional := false
		if tag, ok := field.Tag.Lookup("ecs"); ok && !field.Anonymous {
			if tag != "optional" {
				panic("ecs: invalid ecs tag value " + tag)
			}
			optional = true
		}

		v.fields = append(v.fields, viewField{
			index:    i,
			compType: field.Type.Elem(),
			optional: optional,
		})
	}
	return v
}

func (v *View[T]) matches(a *Archetype) bool {
	for _, f := range v.fields {
		if !f.optional && !a.HasComponent(f.compType) {
			return false
		}
	}
	return true
}

func (v *View[T]) columns(a *Archetype) []int {
	cols := make([]int, len(v.fields))
	for i, f := range v.fields {
		cols[i] = a.columnIndex(f.compType)
	}
	return cols
}

func (v *View[T]) fill(out *T, a *Archetype, slot uint32, cols []int) bool {
	dst := reflect.ValueOf(out).Elem()
	for i, f := range v.fields {
		comp := a.component(slot, cols[i])
		field := dst.Field(f.index)
		if comp == nil {
			if !f.optional {
				return false
			}
			field.SetZero()
			continue
		}
		field.Set(reflect.ValueOf(comp))
	}
	if v.idField >= 0 {
		dst.Field(v.idField).Set(reflect.ValueOf(NewEntityId(a.id, slot)))
	}
	return true
}

// Get returns the populated view for id, or nil if the entity does not match.
func (v *View[T]) Get(id EntityId) *T {
	a := v.storage.archetype(id)
	if a == nil || !a.live(id.Index()) || !v.matches(a) {
		return nil
	}
	var out T
	if !v.fill(&out, a, id.Index(), v.columns(a)) {
		return nil
	}
	return &out
}

// GetRef is Get for an EntityRef; it returns nil once the entity is deleted.
func (v *View[T]) GetRef(ref *EntityRef) *T {
	id, ok := v.storage.ResolveEntityRef(ref)
	if !ok {
		return nil
	}
	return v.Get(id)
}

// Iter yields every matching entity.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return v.iterArchetypes(v.storage.archetypes)
}

func (v *View[T]) iterArchetypes(archetypes []*Archetype) iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, a := range archetypes {
			if a.count == 0 || !v.matches(a) {
				continue
			}
			cols := v.columns(a)
			for slot, ok := range a.alive {
				if !ok {
					continue
				}
				var out T
				if !v.fill(&out, a, uint32(slot), cols) {
					continue
				}
				if !yield(NewEntityId(a.id, uint32(slot)), out) {
					return
				}
			}
		}
	}
}

// Values yields the view structs without IDs.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range v.Iter() {
			if !yield(item) {
				return
			}
		}
	}
}

// Single returns the only matching entity. It reports false when there are zero
// or several matches.
func (v *View[T]) Single() (T, bool) {
	return single(v.Iter())
}

func single[T any](seq iter.Seq2[EntityId, T]) (T, bool) {
	var (
		found T
		n     int
	)
	for _, item := range seq {
		found = item
		n++
		if n > 1 {
			var zero T
			return zero, false
		}
	}
	return found, n == 1
}

// Count returns the number of matching entities.
func (v *View[T]) Count() int {
	n := 0
	for range v.Iter() {
		n++
	}
	return n
}

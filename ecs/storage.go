package ecs

import (
	"iter"
	"reflect"
	"slices"
	"strings"
)

// Storage owns all entities, their components and the singleton components of
// one world.
type Storage struct {
	registry   *ComponentRegistry
	archetypes []*Archetype
	byKey      map[string]*Archetype
	singletons map[reflect.Type]any
}

// NewStorage creates an empty storage backed by registry.
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:   registry,
		byKey:      make(map[string]*Archetype),
		singletons: make(map[reflect.Type]any),
	}
}

// Registry returns the component registry the storage was created with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Spawn creates an entity with the given components. Components may be passed
// by value or by pointer; the storage always keeps its own copy.
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("ecs: cannot spawn entity without components")
	}

	types := make([]reflect.Type, len(components))
	for i, comp := range components {
		types[i] = componentType(comp)
	}
	sortTypes(types)
	for i := 1; i < len(types); i++ {
		if types[i] == types[i-1] {
			panic("ecs: duplicate component type " + types[i].String())
		}
	}

	archetype := s.archetypeFor(types)
	return NewEntityId(archetype.id, archetype.spawn(components))
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	key := archetypeKey(types)
	if a, ok := s.byKey[key]; ok {
		return a
	}
	a := newArchetype(uint32(len(s.archetypes)+1), types, s.registry)
	s.archetypes = append(s.archetypes, a)
	s.byKey[key] = a
	return a
}

func (s *Storage) archetype(id EntityId) *Archetype {
	idx := int(id.ArchetypeId()) - 1
	if idx < 0 || idx >= len(s.archetypes) {
		return nil
	}
	return s.archetypes[idx]
}

// Delete removes the entity and invalidates any EntityRef pointing at it.
// It returns false if the entity was not alive. The slot is reused by a later
// Spawn, so id itself must not be kept.
func (s *Storage) Delete(id EntityId) bool {
	a := s.archetype(id)
	if a == nil {
		return false
	}
	return a.remove(id.Index())
}

// Alive reports whether id names a live entity. A stale id whose slot has been
// reused reports true; use ResolveEntityRef to detect that.
func (s *Storage) Alive(id EntityId) bool {
	a := s.archetype(id)
	return a != nil && a.live(id.Index())
}

// GetComponent returns a pointer to the entity's component of type compType,
// or nil if the entity is gone or lacks the component.
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	a := s.archetype(id)
	if a == nil {
		return nil
	}
	return a.component(id.Index(), a.columnIndex(compType))
}

// HasComponent reports whether a live entity has a component of type compType.
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	a := s.archetype(id)
	return a != nil && a.live(id.Index()) && a.HasComponent(compType)
}

// CreateEntityRef returns the shared EntityRef for id, or nil if id is not alive.
func (s *Storage) CreateEntityRef(id EntityId) *EntityRef {
	a := s.archetype(id)
	if a == nil || !a.live(id.Index()) {
		return nil
	}
	return a.ref(id.Index())
}

// ResolveEntityRef returns the entity a ref points at and whether it still exists.
func (s *Storage) ResolveEntityRef(ref *EntityRef) (EntityId, bool) {
	if ref == nil || !ref.Id.Valid() || !s.Alive(ref.Id) {
		return 0, false
	}
	return ref.Id, true
}

// Count returns the number of live entities.
func (s *Storage) Count() int {
	n := 0
	for _, a := range s.archetypes {
		n += a.count
	}
	return n
}

// Archetypes iterates over every archetype created so far.
func (s *Storage) Archetypes() iter.Seq[*Archetype] {
	return slices.Values(s.archetypes)
}

// AddSingleton stores value as the singleton of its type, replacing any previous
// one. Pointers are stored as given, values are copied.
func (s *Storage) AddSingleton(value any) {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Pointer {
		s.singletons[v.Type().Elem()] = value
		return
	}
	ptr := reflect.New(v.Type())
	ptr.Elem().Set(v)
	s.singletons[v.Type()] = ptr.Interface()
}

// RemoveSingleton drops the singleton of type t.
func (s *Storage) RemoveSingleton(t reflect.Type) {
	delete(s.singletons, t)
}

// ReadSingleton sets *dst to the stored singleton. dst must be a **T.
// It returns false and leaves dst untouched when no singleton of type T exists.
func (s *Storage) ReadSingleton(dst any) bool {
	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.Elem().Kind() != reflect.Pointer {
		panic("ecs: ReadSingleton expects a pointer to a pointer")
	}
	value, ok := s.singletons[target.Elem().Type().Elem()]
	if !ok {
		return false
	}
	target.Elem().Set(reflect.ValueOf(value))
	return true
}

func (s *Storage) singleton(t reflect.Type) any {
	return s.singletons[t]
}

// ComponentReader is implemented by Storage.
type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's component of type T, or nil.
func ReadComponent[T any](reader ComponentReader, id EntityId) *T {
	comp, _ := reader.GetComponent(id, reflect.TypeFor[T]()).(*T)
	return comp
}

func componentType(comp any) reflect.Type {
	t := reflect.TypeOf(comp)
	if t == nil {
		panic("ecs: nil component")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
		panic("ecs: components cannot be pointers, maps, channels, or functions")
	}
	return t
}

func sortTypes(types []reflect.Type) {
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return strings.Compare(a.PkgPath()+":"+a.String(), b.PkgPath()+":"+b.String())
	})
}

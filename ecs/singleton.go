package ecs

import "reflect"

// Singleton gives a system direct access to a component that belongs to the
// world rather than to an entity: window size, input state, settings and the like.
type Singleton[T any] struct {
	storage *Storage
	ptr     *T
}

// NewSingleton returns an accessor for T, storing the initializer (or the zero
// value) first if storage has no T yet.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	if storage.singleton(reflect.TypeFor[T]()) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(&value)
	}
	s := &Singleton[T]{}
	s.bind(storage)
	return s
}

func (s *Singleton[T]) bind(storage *Storage) {
	s.storage = storage
	s.ptr = nil
}

// Get returns the singleton, or nil if it has not been added to the storage.
func (s *Singleton[T]) Get() *T {
	if s.storage == nil {
		return nil
	}
	// Always re-read: AddSingleton may have replaced the value.
	ptr, _ := s.storage.singleton(reflect.TypeFor[T]()).(*T)
	s.ptr = ptr
	return s.ptr
}

// Exists reports whether the singleton is present.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

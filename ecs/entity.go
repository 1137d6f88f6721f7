package ecs

// EntityId packs the archetype ID into the upper 32 bits and the archetype slot
// into the lower 32 bits. Archetype IDs start at 1, so the zero EntityId never
// names a live entity. IDs carry no generation: once an entity is deleted its
// slot is reused, and a stale ID then names the new occupant. Hold an
// EntityRef to track one entity across deletes.
type EntityId uint64

// NewEntityId creates an EntityId from an archetype ID and slot index
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

// ArchetypeId extracts the archetype ID from the entity ID
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Index extracts the slot index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e)
}

// Valid reports whether the ID could name an entity.
func (e EntityId) Valid() bool {
	return e.ArchetypeId() != 0
}

// EntityRef is a handle that outlives the entity it points at. Once the entity
// is deleted the storage zeroes Id, so holders can detect the loss with
// Storage.ResolveEntityRef instead of reading a reused slot.
type EntityRef struct {
	Id EntityId
}

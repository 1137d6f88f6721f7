package ecs

// Commands buffers structural changes made while systems run. The scheduler
// flushes the buffer once every system of the frame has executed, so queries
// never observe an entity appearing or disappearing mid-iteration.
type Commands struct {
	spawns  [][]any
	deletes []EntityId
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

// Spawn queues an entity spawn.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, components)
}

// Delete queues an entity deletion.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// Defer queues fn to run after the spawns and deletes are applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.deletes) + len(c.defers)
}

// Flush applies deletes, then spawns, then deferred functions, and empties the
// buffer. It returns the IDs of the spawned entities in queue order.
func (c *Commands) Flush(storage *Storage) []EntityId {
	for _, id := range c.deletes {
		storage.Delete(id)
	}

	var spawned []EntityId
	for _, components := range c.spawns {
		spawned = append(spawned, storage.Spawn(components...))
	}

	for _, fn := range c.defers {
		fn()
	}

	clear(c.spawns)
	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	clear(c.defers)
	c.defers = c.defers[:0]
	return spawned
}

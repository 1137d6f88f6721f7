package ecs

const blockSize = 64

// column stores one component type for every slot of an archetype. Slot
// allocation belongs to the archetype; a column only holds values.
type column interface {
	set(slot uint32, value any)
	reset(slot uint32)
	ptr(slot uint32) any
}

// typedColumn keeps values in fixed-size blocks so pointers handed out by ptr
// stay valid while the column grows.
type typedColumn[T any] struct {
	blocks []*[blockSize]T
}

func (c *typedColumn[T]) set(slot uint32, value any) {
	var v T
	switch x := value.(type) {
	case T:
		v = x
	case *T:
		v = *x
	default:
		panic("ecs: value does not match column type")
	}

	block, offset := slot/blockSize, slot%blockSize
	for int(block) >= len(c.blocks) {
		c.blocks = append(c.blocks, new([blockSize]T))
	}
	c.blocks[block][offset] = v
}

func (c *typedColumn[T]) reset(slot uint32) {
	block, offset := slot/blockSize, slot%blockSize
	if int(block) >= len(c.blocks) {
		return
	}
	var zero T
	c.blocks[block][offset] = zero
}

func (c *typedColumn[T]) ptr(slot uint32) any {
	block, offset := slot/blockSize, slot%blockSize
	if int(block) >= len(c.blocks) {
		return nil
	}
	return &c.blocks[block][offset]
}

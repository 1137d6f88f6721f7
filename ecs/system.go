package ecs

// System is one step of a frame. Implementations are usually structs whose
// Query and Singleton fields are bound by Scheduler.Register, plus any state that
// should persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// UpdateFrame is handed to every system of one scheduler frame.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
}

func newUpdateFrame(dt float64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  newCommands(),
		Storage:   storage,
	}
}

// binder is implemented by *Query[T] and *Singleton[T].
type binder interface {
	bind(storage *Storage)
}

package debugui

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/evade/ecs"
	"github.com/plus3/evade/internal/game"
)

const historyFrames = 120

// Overlay owns the ImGui backend and the overlay's windows.
type Overlay struct {
	backend   *ebitenbackend.EbitenBackend
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	timer     *FrameTimer

	control *ecs.Singleton[Control]
	input   *ecs.Singleton[ImguiInputState]
}

// New creates the ImGui backend, which also opens the ebiten window with the
// given title and size, and spawns the overlay windows for world.
func New(world *game.World, title string, width, height int) *Overlay {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")

	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[ImguiItem](registry)
	storage := ecs.NewStorage(registry)

	o := &Overlay{
		backend:   backend,
		storage:   storage,
		scheduler: ecs.NewScheduler(storage),
		timer:     NewFrameTimer(),
		control:   ecs.NewSingleton[Control](storage),
		input:     ecs.NewSingleton[ImguiInputState](storage),
	}

	perf := NewPerformanceWindow(historyFrames)
	entities := NewEntityWindow()
	storage.Spawn(ImguiItem{Render: func() { perf.Render(world) }})
	storage.Spawn(ImguiItem{Render: func() { entities.Render(world, o.control.Get()) }})

	o.scheduler.Register(&ImguiSystem{})
	o.scheduler.Register(&frameSampler{window: perf})
	return o
}

// frameSampler feeds the measured frame time into the performance window.
type frameSampler struct {
	window *PerformanceWindow
}

func (s *frameSampler) Execute(frame *ecs.UpdateFrame) {
	s.window.Frames.Push(frame.DeltaTime)
}

// Update runs one overlay frame with the wall time since the previous one.
// Call it from ebiten's Update after the world has been stepped.
func (o *Overlay) Update() {
	o.backend.BeginFrame()
	o.scheduler.Once(o.timer.Tick())
	o.backend.EndFrame()
}

func (o *Overlay) Draw(screen *ebiten.Image) {
	o.backend.Draw(screen)
}

func (o *Overlay) Layout(width, height int) {
	o.backend.Layout(width, height)
}

// Paused reports whether the pause toggle is set.
func (o *Overlay) Paused() bool {
	return o.control.Get().Paused
}

// TakeRestart reports and clears a pending restart request.
func (o *Overlay) TakeRestart() bool {
	c := o.control.Get()
	requested := c.Restart
	c.Restart = false
	return requested
}

// WantsKeyboard reports whether an ImGui widget has keyboard focus.
func (o *Overlay) WantsKeyboard() bool {
	return o.input.Get().WantCaptureKeyboard
}

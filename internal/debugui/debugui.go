// Package debugui provides the Dear ImGui debug overlay of the game. The
// overlay runs on its own ECS storage and scheduler: every window is an entity
// holding a render function, so the game world is never touched by UI code
// except through the World API.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/evade/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks whether ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Control is the overlay's request channel back to the host.
type Control struct {
	Paused  bool
	Restart bool
}

// ImguiSystem defers every ImguiItem's render function to the end of the frame
// and records the input capture state.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	state := i.InputState.Get()
	state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

	for item := range i.Items.Values() {
		frame.Commands.Defer(item.Render)
	}
}

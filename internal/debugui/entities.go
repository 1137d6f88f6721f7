package debugui

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/evade/ecs"
	"github.com/plus3/evade/internal/game"
)

// EntityRow is one line of the entity table.
type EntityRow struct {
	ID        ecs.EntityId
	Kind      string
	Position  string
	Direction string
}

// EntityRows lists the player first, then every enemy.
func EntityRows(world *game.World) []EntityRow {
	var rows []EntityRow
	for d := range world.Drawables() {
		if ecs.ReadComponent[game.Player](world.Storage, d.ID) != nil {
			rows = append([]EntityRow{{
				ID:       d.ID,
				Kind:     "player",
				Position: fmt.Sprintf("(%.1f, %.1f)", d.Position.X(), d.Position.Y()),
			}}, rows...)
		}
	}
	for e := range world.Enemies() {
		rows = append(rows, EntityRow{
			ID:        e.ID,
			Kind:      "enemy",
			Position:  fmt.Sprintf("(%.1f, %.1f)", e.Position.X(), e.Position.Y()),
			Direction: fmt.Sprintf("(%.3f, %.3f)", e.Direction.X(), e.Direction.Y()),
		})
	}
	return rows
}

// Selection pins an entity through an EntityRef, so it clears itself when the
// entity is deleted even if its slot is reused.
type Selection struct {
	ref *ecs.EntityRef
}

func (s *Selection) Select(storage *ecs.Storage, id ecs.EntityId) {
	s.ref = storage.CreateEntityRef(id)
}

// Resolve returns the selected entity if it still exists.
func (s *Selection) Resolve(storage *ecs.Storage) (ecs.EntityId, bool) {
	id, ok := storage.ResolveEntityRef(s.ref)
	if !ok {
		s.ref = nil
	}
	return id, ok
}

type fieldInfo struct {
	name  string
	index int
}

var fieldCache sync.Map // reflect.Type -> []fieldInfo

func exportedFields(t reflect.Type) []fieldInfo {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]fieldInfo)
	}
	var fields []fieldInfo
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			if f := t.Field(i); f.IsExported() {
				fields = append(fields, fieldInfo{name: f.Name, index: i})
			}
		}
	}
	fieldCache.Store(t, fields)
	return fields
}

// FieldLines formats the exported fields of a component (or pointer to one)
// as "Name: value" lines. Components without fields yield "(marker)".
func FieldLines(component any) []string {
	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return []string{fmt.Sprintf("%v", val.Interface())}
	}

	fields := exportedFields(val.Type())
	if len(fields) == 0 {
		return []string{"(marker)"}
	}
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("%s: %v", f.name, val.Field(f.index).Interface()))
	}
	return lines
}

// EntityWindow lists the game's entities, inspects the selected one and
// offers pause and restart controls.
type EntityWindow struct {
	selection Selection
}

func NewEntityWindow() *EntityWindow {
	return &EntityWindow{}
}

func (ew *EntityWindow) Render(world *game.World, control *Control) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 320), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(420, 260), imgui.CondOnce)
	if !imgui.BeginV("Entities", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Checkbox("Paused", &control.Paused)
	imgui.SameLine()
	if imgui.Button("Restart") {
		control.Restart = true
	}
	tally := world.Tally()
	imgui.Text(fmt.Sprintf("Seed %d  Frames %d  Cues %d", world.Seed(), tally.Frames, tally.Cues))
	imgui.Separator()

	selected, hasSelection := ew.selection.Resolve(world.Storage)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Kind")
		imgui.TableSetupColumn("Position")
		imgui.TableSetupColumn("Direction")
		imgui.TableHeadersRow()

		for _, row := range EntityRows(world) {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			isSelected := hasSelection && selected == row.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", row.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				ew.selection.Select(world.Storage, row.ID)
			}
			imgui.TableNextColumn()
			imgui.Text(row.Kind)
			imgui.TableNextColumn()
			imgui.Text(row.Position)
			imgui.TableNextColumn()
			imgui.Text(row.Direction)
		}
		imgui.EndTable()
	}

	if id, ok := ew.selection.Resolve(world.Storage); ok {
		ew.renderInspector(world.Storage, id)
	}
	imgui.End()
}

func (ew *EntityWindow) renderInspector(storage *ecs.Storage, id ecs.EntityId) {
	imgui.Separator()
	imgui.Text(fmt.Sprintf("Entity %d (archetype 0x%X)", id, id.ArchetypeId()))

	for a := range storage.Archetypes() {
		if a.ID() != id.ArchetypeId() {
			continue
		}
		for _, compType := range a.Types() {
			if imgui.TreeNodeStr(compType.String()) {
				for _, line := range FieldLines(storage.GetComponent(id, compType)) {
					imgui.Text(line)
				}
				imgui.TreePop()
			}
		}
	}
}

package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/keyfall/ecs"
)

// StoragePanel returns a render function summarising entity, archetype and
// singleton counts with a sortable archetype table.
func StoragePanel(storage *ecs.Storage) func() {
	sortColumn, ascending := ColumnEntityCount, false

	return func() {
		if !imgui.BeginV("Storage", nil, imgui.WindowFlagsNone) {
			imgui.End()
			return
		}

		stats := storage.CollectStats()
		imgui.Text(fmt.Sprintf("Total Entities: %d", stats.TotalEntityCount))
		imgui.Text(fmt.Sprintf("Archetypes: %d", stats.ArchetypeCount))
		imgui.Text(fmt.Sprintf("Singletons: %d", stats.SingletonCount))
		imgui.Separator()

		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable
		if imgui.BeginTableV("ArchetypeTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Archetype ID")
			imgui.TableSetupColumn("Components")
			imgui.TableSetupColumn("Comp Count")
			imgui.TableSetupColumn("Entity Count")
			imgui.TableHeadersRow()

			sortSpecs := imgui.TableGetSortSpecs()
			if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
				spec := sortSpecs.Specs()
				sortColumn = int(spec.ColumnIndex())
				ascending = spec.SortDirection() == imgui.SortDirectionAscending
				sortSpecs.SetSpecsDirty(false)
			}

			for _, row := range ArchetypeRows(stats, sortColumn, ascending) {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("0x%X", row.ID))
				imgui.TableNextColumn()
				imgui.Text(row.Components)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", row.ComponentCount))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", row.EntityCount))
			}
			imgui.EndTable()
		}

		if imgui.TreeNodeStr("Singleton Details") {
			for _, name := range stats.SingletonTypes {
				imgui.BulletText(name)
			}
			imgui.TreePop()
		}

		imgui.End()
	}
}

// SchedulerPanel returns a render function with frame times and per-system
// timings. history is the number of frames kept for the graph.
func SchedulerPanel(scheduler *ecs.Scheduler, history int) func() {
	frames := NewFrameHistory(history)
	last := time.Now()

	return func() {
		now := time.Now()
		frames.Add(float32(now.Sub(last).Seconds() * 1000))
		last = now

		if !imgui.BeginV("Scheduler", nil, imgui.WindowFlagsNone) {
			imgui.End()
			return
		}

		stats := scheduler.GetStats()
		avg := frames.Average()
		fps := float32(0)
		if avg > 0 {
			fps = 1000 / avg
		}
		imgui.Text(fmt.Sprintf("Frames: %d", stats.Frames))
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, fps))

		if samples := frames.Samples(); len(samples) > 0 {
			imgui.PlotLinesFloatPtr("##frametime", &samples[0], int32(len(samples)))
		}
		imgui.Separator()

		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Last")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range stats.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(sys.LastDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}
			imgui.EndTable()
		}

		imgui.End()
	}
}

// EntityInspector returns a render function listing live entities; selecting
// one shows its component fields.
func EntityInspector(storage *ecs.Storage) func() {
	var selected ecs.EntityId

	return func() {
		if !imgui.BeginV("Entities", nil, imgui.WindowFlagsNone) {
			imgui.End()
			return
		}

		for _, archetype := range storage.Archetypes() {
			for id := range archetype.Iter() {
				if imgui.SelectableBoolV(id.String(), id == selected, imgui.SelectableFlagsNone, imgui.NewVec2(0, 0)) {
					selected = id
				}
			}
		}

		imgui.Separator()
		if selected == 0 || !storage.Exists(selected) {
			imgui.Text("No entity selected")
			imgui.End()
			return
		}

		archetype := storage.GetArchetypeByID(selected.ArchetypeId())
		for _, compType := range archetype.Types() {
			component := storage.GetComponent(selected, compType)
			if component == nil || !imgui.TreeNodeStr(compType.String()) {
				continue
			}
			for _, line := range DescribeComponent(component) {
				imgui.Text(fmt.Sprintf("%*s%s: %s", line.Depth*2, "", line.Name, line.Value))
			}
			imgui.TreePop()
		}

		imgui.End()
	}
}

package main

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/keyfall/ecs/debugui"
	"github.com/plus3/keyfall/game"
)

const symbolTail = 40

func spawnDebugPanels(world *game.World) {
	debugui.Spawn(world.Storage,
		debugui.StoragePanel(world.Storage),
		debugui.SchedulerPanel(world.Scheduler, 120),
		debugui.EntityInspector(world.Storage),
		sessionPanel(world),
	)
}

// sessionPanel shows the session counters, the live targets and the tail
// of the spawned symbol log.
func sessionPanel(world *game.World) func() {
	return func() {
		imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
		imgui.SetNextWindowSizeV(imgui.NewVec2(320, 360), imgui.CondOnce)

		if !imgui.BeginV("Session", nil, imgui.WindowFlagsNone) {
			imgui.End()
			return
		}

		session := world.Session()
		imgui.Text(fmt.Sprintf("Elapsed: %s", session.Elapsed.Truncate(100_000_000)))
		imgui.Text(fmt.Sprintf("Spawned: %d  Hits: %d  Misses: %d  Expired: %d",
			session.Spawned, session.Hits, session.Misses, session.Expired))
		imgui.Text(fmt.Sprintf("Accuracy: %.0f%%", session.Accuracy()*100))
		imgui.Separator()

		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("TargetTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Letter")
			imgui.TableSetupColumn("Position")
			imgui.TableSetupColumn("Remaining")
			imgui.TableSetupColumn("Entity")
			imgui.TableHeadersRow()

			for _, target := range world.Targets() {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				letter := string(target.Letter)
				if target.Focused {
					letter += " *"
				}
				imgui.Text(letter)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%.1f, %.1f", target.X, target.Y))
				imgui.TableNextColumn()
				imgui.Text(target.Remaining.String())
				imgui.TableNextColumn()
				imgui.Text(target.ID.String())
			}
			imgui.EndTable()
		}

		if imgui.TreeNodeStr("Symbol Queue") {
			symbols := world.Symbols()
			if len(symbols) > symbolTail {
				symbols = symbols[len(symbols)-symbolTail:]
			}
			imgui.Text(string(symbols))
			imgui.TreePop()
		}

		imgui.End()
	}
}

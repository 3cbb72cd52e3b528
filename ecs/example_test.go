package ecs_test

import (
	"fmt"
	"time"

	"github.com/plus3/keyfall/ecs"
)

type FuseSystem struct {
	Lit ecs.Query[struct {
		ecs.EntityId
		*Letter
		*Fuse
	}]
}

func (s *FuseSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Lit.Values() {
		if item.Fuse.Timer.Tick(frame.Delta()).JustFinished() {
			fmt.Printf("frame %d: %c burned out\n", frame.Index, item.Letter.Value)
			frame.Commands.Delete(item.EntityId)
		}
	}
}

// ExampleScheduler shows a timer-driven system deleting entities through the
// frame's command buffer. Deletes are applied once every system has run.
func ExampleScheduler() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Letter](registry)
	ecs.RegisterComponent[Fuse](registry)
	storage := ecs.NewStorage(registry)

	storage.Spawn(Letter{Value: 'a'}, Fuse{Timer: ecs.NewTimer(200*time.Millisecond, ecs.TimerModeOnce)})
	storage.Spawn(Letter{Value: 'b'}, Fuse{Timer: ecs.NewTimer(300*time.Millisecond, ecs.TimerModeOnce)})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&FuseSystem{})

	for range 4 {
		scheduler.Once(0.1)
	}
	fmt.Println("remaining:", storage.Count())

	// Output:
	// frame 2: a burned out
	// frame 3: b burned out
	// remaining: 0
}

// ExampleView shows reading entities with an id field and an optional component.
func ExampleView() {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Letter{Value: 'g'}, Spot{X: 10, Y: 90})
	storage.Spawn(Letter{Value: 'o'}, Spot{X: 50, Y: 50}, Streak{Count: 4})

	view := ecs.NewView[struct {
		*Letter
		*Spot
		Streak *Streak `ecs:"optional"`
	}](storage)

	for item := range view.Values() {
		streak := 0
		if item.Streak != nil {
			streak = item.Streak.Count
		}
		fmt.Printf("%c at (%.0f, %.0f) streak %d\n", item.Letter.Value, item.Spot.X, item.Spot.Y, streak)
	}

	// Output:
	// g at (10, 90) streak 0
	// o at (50, 50) streak 4
}

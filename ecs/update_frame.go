package ecs

import (
	"math"
	"time"
)

// UpdateFrame is passed to every system during one Scheduler.Once call.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
	Index     uint64
}

func newUpdateFrame(dt float64, storage *Storage, commands *Commands, index uint64) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  commands,
		Storage:   storage,
		Index:     index,
	}
}

// Delta returns DeltaTime as a Duration rounded to the nearest nanosecond,
// so that 0.1 seconds ticks timers by exactly 100ms.
func (f *UpdateFrame) Delta() time.Duration {
	return time.Duration(math.Round(f.DeltaTime * float64(time.Second)))
}

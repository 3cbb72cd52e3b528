package game

import (
	"time"

	"github.com/plus3/keyfall/ecs"
)

// Glyph is the letter a target asks the player to type.
type Glyph struct {
	Letter rune
}

// Position is measured in percent of the play area from the left and top edges.
type Position struct {
	X, Y float32
}

// Expiry destroys its target the first time the timer finishes.
type Expiry struct {
	Timer ecs.Timer
}

type SpawnSchedule struct {
	Timer ecs.Timer
}

// SymbolQueue records every spawned letter in spawn order. Gameplay never
// reads it.
type SymbolQueue struct {
	Letters []rune
}

// Keyboard holds the letters newly pressed since the previous frame.
type Keyboard struct {
	Pressed []rune
}

// Focus is the target the matcher will compare against next.
type Focus struct {
	Ref *ecs.EntityRef
}

// Session accumulates counters for one run.
type Session struct {
	Elapsed time.Duration
	Spawned int
	Hits    int
	Misses  int
	Expired int
}

// Accuracy is hits over hits plus misses, or zero before the first press.
func (s Session) Accuracy() float64 {
	presses := s.Hits + s.Misses
	if presses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(presses)
}

// Rules are the parts of Config the systems read every frame.
type Rules struct {
	Letters     []rune
	PositionMin float32
	PositionMax float32
	Lifetime    time.Duration
	Matching    MatchMode
}

func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Glyph](registry)
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Expiry](registry)
}

type target struct {
	ecs.EntityId
	*Glyph
	*Position
	*Expiry
}

package game

import (
	"math"
	"math/rand/v2"

	"github.com/plus3/keyfall/ecs"
)

// Feedback is told about every press the matcher resolves. Calls happen
// after the frame's commands are applied.
type Feedback interface {
	Hit(letter rune)
	Miss(letter rune)
}

type ClockSystem struct {
	Session ecs.Singleton[Session]
}

func (s *ClockSystem) Execute(frame *ecs.UpdateFrame) {
	s.Session.Get().Elapsed += frame.Delta()
}

// SpawnSystem queues one target each time the spawn schedule finishes.
type SpawnSystem struct {
	Schedule ecs.Singleton[SpawnSchedule]
	Symbols  ecs.Singleton[SymbolQueue]
	Session  ecs.Singleton[Session]
	Rules    ecs.Singleton[Rules]

	rng *rand.Rand
}

func (s *SpawnSystem) Execute(frame *ecs.UpdateFrame) {
	if !s.Schedule.Get().Timer.Tick(frame.Delta()).JustFinished() {
		return
	}

	rules := s.Rules.Get()
	letter := rules.Letters[s.rng.IntN(len(rules.Letters))]

	frame.Commands.Spawn(
		Glyph{Letter: letter},
		Position{
			X: randomCoord(s.rng, rules.PositionMin, rules.PositionMax),
			Y: randomCoord(s.rng, rules.PositionMin, rules.PositionMax),
		},
		Expiry{Timer: ecs.NewTimer(rules.Lifetime, ecs.TimerModeRepeating)},
	)

	symbols := s.Symbols.Get()
	symbols.Letters = append(symbols.Letters, letter)
	s.Session.Get().Spawned++
}

// randomCoord draws uniformly from [lo, hi).
func randomCoord(rng *rand.Rand, lo, hi float32) float32 {
	v := lo + rng.Float32()*(hi-lo)
	if v >= hi {
		v = math.Nextafter32(hi, lo)
	}
	return v
}

// ExpirySystem ticks every target's expiry and deletes the ones that finished.
type ExpirySystem struct {
	Targets ecs.Query[struct {
		ecs.EntityId
		*Expiry
	}]
	Session ecs.Singleton[Session]
}

func (s *ExpirySystem) Execute(frame *ecs.UpdateFrame) {
	delta := frame.Delta()
	for id, item := range s.Targets.Iter() {
		if item.Expiry.Timer.Tick(delta).JustFinished() {
			frame.Commands.Delete(id)
			s.Session.Get().Expired++
		}
	}
}

// MatchSystem resolves this frame's key presses against live targets.
// It must run after ExpirySystem: targets that expired this frame are
// already gone as far as matching is concerned.
type MatchSystem struct {
	Targets  ecs.Query[target]
	Keyboard ecs.Singleton[Keyboard]
	Focus    ecs.Singleton[Focus]
	Session  ecs.Singleton[Session]
	Rules    ecs.Singleton[Rules]

	feedback Feedback
	claimed  map[ecs.EntityId]struct{}
}

func (s *MatchSystem) Execute(frame *ecs.UpdateFrame) {
	pressed := s.Keyboard.Get().Pressed
	if len(pressed) > 0 {
		if s.Rules.Get().Matching == MatchScan {
			s.scan(frame, pressed)
		} else {
			s.strict(frame, pressed[0])
		}
	}

	frame.Commands.Defer(func() { s.refocus(frame.Storage) })
}

func (s *MatchSystem) strict(frame *ecs.UpdateFrame, key rune) {
	for id, item := range s.Targets.Iter() {
		if expiredNow(item) {
			continue
		}
		if item.Glyph.Letter == key {
			s.hit(frame, id, key)
			return
		}
		break
	}
	s.miss(frame, key)
}

func (s *MatchSystem) scan(frame *ecs.UpdateFrame, pressed []rune) {
	if s.claimed == nil {
		s.claimed = make(map[ecs.EntityId]struct{})
	}
	clear(s.claimed)

	for _, key := range pressed {
		matched := false
		for id, item := range s.Targets.Iter() {
			if item.Glyph.Letter != key || expiredNow(item) {
				continue
			}
			if _, taken := s.claimed[id]; taken {
				continue
			}
			s.claimed[id] = struct{}{}
			s.hit(frame, id, key)
			matched = true
			break
		}
		if !matched {
			s.miss(frame, key)
		}
	}
}

func (s *MatchSystem) hit(frame *ecs.UpdateFrame, id ecs.EntityId, key rune) {
	frame.Commands.Delete(id)
	s.Session.Get().Hits++
	if s.feedback != nil {
		frame.Commands.Defer(func() { s.feedback.Hit(key) })
	}
}

func (s *MatchSystem) miss(frame *ecs.UpdateFrame, key rune) {
	s.Session.Get().Misses++
	if s.feedback != nil {
		frame.Commands.Defer(func() { s.feedback.Miss(key) })
	}
}

// refocus runs after the frame's deletes and spawns, so the first target in
// storage order is exactly the one strict matching will see next frame.
func (s *MatchSystem) refocus(storage *ecs.Storage) {
	focus := s.Focus.Get()
	id, _, ok := s.Targets.View().First()
	if !ok {
		focus.Ref = nil
		return
	}
	focus.Ref = storage.CreateEntityRef(id)
}

func expiredNow(item target) bool {
	return item.Expiry.Timer.JustFinished()
}

// InputResetSystem clears the keyboard once every system has seen it.
type InputResetSystem struct {
	Keyboard ecs.Singleton[Keyboard]
}

func (s *InputResetSystem) Execute(frame *ecs.UpdateFrame) {
	keyboard := s.Keyboard.Get()
	keyboard.Pressed = keyboard.Pressed[:0]
}

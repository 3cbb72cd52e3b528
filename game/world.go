// Package game implements keyfall's rules as ECS systems: targets spawn on a
// schedule, expire after their lifetime and are cleared by matching key presses.
// Hosts own the window and input; they feed presses and deltas into a World and
// draw what Targets returns.
package game

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/plus3/keyfall/ecs"
)

// World bundles the storage, singletons and scheduler of one game session.
type World struct {
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler

	keyboard *ecs.Singleton[Keyboard]
	session  *ecs.Singleton[Session]
	focus    *ecs.Singleton[Focus]
	symbols  *ecs.Singleton[SymbolQueue]
	targets  *ecs.View[target]
}

type worldOptions struct {
	rng        *rand.Rand
	feedback   Feedback
	components []func(*ecs.ComponentRegistry)
	systems    []ecs.System
}

type Option func(*worldOptions)

// WithRand sets the random source used for letters and positions.
func WithRand(rng *rand.Rand) Option {
	return func(o *worldOptions) { o.rng = rng }
}

// WithSeed is WithRand over a PCG source seeded with seed.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func WithFeedback(feedback Feedback) Option {
	return func(o *worldOptions) { o.feedback = feedback }
}

// WithComponents registers extra component types, e.g. for debug overlays.
func WithComponents(register ...func(*ecs.ComponentRegistry)) Option {
	return func(o *worldOptions) { o.components = append(o.components, register...) }
}

// WithSystems appends systems that run after the game systems each frame.
func WithSystems(systems ...ecs.System) Option {
	return func(o *worldOptions) { o.systems = append(o.systems, systems...) }
}

// NewWorld validates config and builds a world ready to Step.
func NewWorld(config Config, opts ...Option) (*World, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	options := worldOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.rng == nil {
		options.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	for _, register := range options.components {
		register(registry)
	}
	storage := ecs.NewStorage(registry)

	ecs.NewSingleton(storage, SpawnSchedule{
		Timer: ecs.NewTimer(config.SpawnInterval, ecs.TimerModeRepeating),
	})
	ecs.NewSingleton(storage, Rules{
		Letters:     []rune(config.Letters),
		PositionMin: config.PositionMin,
		PositionMax: config.PositionMax,
		Lifetime:    config.Lifetime,
		Matching:    config.Matching,
	})

	w := &World{
		Storage:  storage,
		keyboard: ecs.NewSingleton[Keyboard](storage),
		session:  ecs.NewSingleton[Session](storage),
		focus:    ecs.NewSingleton[Focus](storage),
		symbols:  ecs.NewSingleton[SymbolQueue](storage),
		targets:  ecs.NewView[target](storage),
	}

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&ClockSystem{})
	scheduler.Register(&SpawnSystem{rng: options.rng})
	scheduler.Register(&ExpirySystem{})
	scheduler.Register(&MatchSystem{feedback: options.feedback})
	for _, system := range options.systems {
		scheduler.Register(system)
	}
	scheduler.Register(&InputResetSystem{})
	w.Scheduler = scheduler

	return w, nil
}

// Press queues letters for the next Step. Anything outside a..z is dropped
// after lowercasing.
func (w *World) Press(letters ...rune) {
	keyboard := w.keyboard.Get()
	for _, r := range letters {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if r < 'a' || r > 'z' {
			continue
		}
		keyboard.Pressed = append(keyboard.Pressed, r)
	}
}

// Step runs one frame of dt.
func (w *World) Step(dt time.Duration) {
	w.Scheduler.Once(dt.Seconds())
}

// Target is a read-only snapshot of a live target for renderers.
type Target struct {
	ID        ecs.EntityId
	Letter    rune
	X, Y      float32
	Remaining time.Duration
	// Age runs from 0 at spawn to 1 at expiry.
	Age     float64
	Focused bool
}

func (t Target) String() string {
	return fmt.Sprintf("%c@(%.1f,%.1f)", t.Letter, t.X, t.Y)
}

// Targets returns the live targets in matching order.
func (w *World) Targets() []Target {
	focused, hasFocus := w.Focus()

	var out []Target
	for id, item := range w.targets.Iter() {
		out = append(out, Target{
			ID:        id,
			Letter:    item.Glyph.Letter,
			X:         item.Position.X,
			Y:         item.Position.Y,
			Remaining: item.Expiry.Timer.Remaining(),
			Age:       item.Expiry.Timer.Fraction(),
			Focused:   hasFocus && id == focused,
		})
	}
	return out
}

func (w *World) Session() Session {
	return *w.session.Get()
}

// Focus returns the target strict matching compares against next.
func (w *World) Focus() (ecs.EntityId, bool) {
	return w.Storage.ResolveEntityRef(w.focus.Get().Ref)
}

// Symbols returns a copy of every letter spawned so far.
func (w *World) Symbols() []rune {
	return append([]rune(nil), w.symbols.Get().Letters...)
}

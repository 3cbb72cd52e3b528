package game_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/plus3/keyfall/ecs"
	"github.com/plus3/keyfall/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 100 * time.Millisecond

func newWorld(t *testing.T, mutate func(*game.Config), opts ...game.Option) *game.World {
	t.Helper()
	config := game.DefaultConfig()
	if mutate != nil {
		mutate(&config)
	}
	world, err := game.NewWorld(config, append([]game.Option{game.WithSeed(7)}, opts...)...)
	require.NoError(t, err)
	return world
}

// quietWorld never spawns on its own; tests place targets with place.
func quietWorld(t *testing.T, matching game.MatchMode, opts ...game.Option) *game.World {
	return newWorld(t, func(c *game.Config) {
		c.SpawnInterval = time.Hour
		c.Matching = matching
	}, opts...)
}

func place(w *game.World, letters string) []*ecs.EntityRef {
	var refs []*ecs.EntityRef
	for i, r := range letters {
		id := w.Storage.Spawn(
			game.Glyph{Letter: r},
			game.Position{X: float32(10 + i), Y: 50},
			game.Expiry{Timer: ecs.NewTimer(1200*time.Millisecond, ecs.TimerModeRepeating)},
		)
		refs = append(refs, w.Storage.CreateEntityRef(id))
	}
	return refs
}

func letters(targets []game.Target) string {
	out := make([]rune, len(targets))
	for i, target := range targets {
		out[i] = target.Letter
	}
	return string(out)
}

func steps(w *game.World, n int) {
	for range n {
		w.Step(frame)
	}
}

func TestNewWorldRejectsInvalidConfig(t *testing.T) {
	config := game.DefaultConfig()
	config.Letters = ""
	_, err := game.NewWorld(config)
	assert.ErrorIs(t, err, game.ErrInvalidConfig)
}

func TestSpawnCadence(t *testing.T) {
	w := newWorld(t, nil)

	steps(w, 3)
	assert.Empty(t, w.Targets())

	steps(w, 1)
	require.Len(t, w.Targets(), 1, "first target appears on the frame crossing 0.4s")

	steps(w, 4)
	assert.Len(t, w.Targets(), 2)
	assert.Equal(t, 2, w.Session().Spawned)
	assert.Equal(t, 800*time.Millisecond, w.Session().Elapsed)
}

func TestSpawnAtMostOncePerFrame(t *testing.T) {
	w := newWorld(t, nil)
	w.Step(time.Second)
	assert.Len(t, w.Targets(), 1)
	assert.Equal(t, []rune{w.Targets()[0].Letter}, w.Symbols())
}

func TestGeneratedTargetsStayInRange(t *testing.T) {
	w := newWorld(t, func(c *game.Config) { c.Lifetime = 10 * time.Second })

	for range 2000 {
		w.Step(400 * time.Millisecond)
	}

	symbols := w.Symbols()
	require.Len(t, symbols, 2000)
	for _, r := range symbols {
		assert.GreaterOrEqual(t, r, 'a')
		assert.LessOrEqual(t, r, 'z')
	}

	targets := w.Targets()
	require.NotEmpty(t, targets)
	for _, target := range targets {
		assert.GreaterOrEqual(t, target.X, float32(5))
		assert.Less(t, target.X, float32(95))
		assert.GreaterOrEqual(t, target.Y, float32(5))
		assert.Less(t, target.Y, float32(95))
	}
}

func TestSeededWorldsAgree(t *testing.T) {
	a := newWorld(t, nil)
	b := newWorld(t, nil)
	steps(a, 40)
	steps(b, 40)
	assert.Equal(t, a.Symbols(), b.Symbols())
	assert.Equal(t, a.Targets(), b.Targets())
}

func TestMatchedTargetRemovedOnPressFrame(t *testing.T) {
	w := newWorld(t, func(c *game.Config) { c.Letters = "m" })

	steps(w, 4)
	targets := w.Targets()
	require.Len(t, targets, 1)
	first := w.Storage.CreateEntityRef(targets[0].ID)
	assert.Equal(t, 'm', targets[0].Letter)

	steps(w, 5)
	w.Press('m')
	steps(w, 1)

	assert.False(t, first.Alive(), "pressed at 1.0s, removed at 1.0s")
	assert.Equal(t, 1, w.Session().Hits)
	assert.Len(t, w.Targets(), 1, "the 0.8s target is untouched")

	steps(w, 6)
	assert.Zero(t, w.Session().Expired, "a matched target never expires")
}

func TestUnmatchedTargetExpiresOnCrossingFrame(t *testing.T) {
	w := newWorld(t, func(c *game.Config) { c.Letters = "q" })

	steps(w, 8)
	targets := w.Targets()
	require.Len(t, targets, 2)
	second := w.Storage.CreateEntityRef(targets[1].ID)

	steps(w, 11)
	assert.True(t, second.Alive(), "still alive at 1.9s")
	assert.Equal(t, 1, w.Session().Expired)

	steps(w, 1)
	assert.False(t, second.Alive(), "spawned at 0.8s, expired at 2.0s")
	assert.Equal(t, 2, w.Session().Expired)
	assert.Zero(t, w.Session().Hits)
}

func TestPressWithoutMatchDestroysNothing(t *testing.T) {
	for _, mode := range []game.MatchMode{game.MatchStrict, game.MatchScan} {
		t.Run(string(mode), func(t *testing.T) {
			w := quietWorld(t, mode)
			refs := place(w, "ab")

			w.Press('z')
			w.Step(frame)

			assert.True(t, refs[0].Alive())
			assert.True(t, refs[1].Alive())
			assert.Equal(t, 1, w.Session().Misses)
			assert.Zero(t, w.Session().Hits)
		})
	}
}

func TestStrictMatchingOnlyChecksFirstTargetAndPress(t *testing.T) {
	w := quietWorld(t, game.MatchStrict)
	refs := place(w, "xyx")

	w.Press('y')
	w.Step(frame)
	assert.True(t, refs[1].Alive(), "y is not the first target")
	assert.Equal(t, 1, w.Session().Misses)

	w.Press('x', 'y', 'x')
	w.Step(frame)
	assert.False(t, refs[0].Alive())
	assert.True(t, refs[1].Alive())
	assert.True(t, refs[2].Alive(), "only one target per frame")
	assert.Equal(t, 1, w.Session().Hits)
	assert.Equal(t, "yx", letters(w.Targets()))
}

func TestScanMatchingClearsEveryPress(t *testing.T) {
	w := quietWorld(t, game.MatchScan)
	refs := place(w, "xyxw")

	w.Press('y', 'x', 'x', 'z')
	w.Step(frame)

	assert.False(t, refs[0].Alive())
	assert.False(t, refs[1].Alive())
	assert.False(t, refs[2].Alive())
	assert.True(t, refs[3].Alive())
	assert.Equal(t, 3, w.Session().Hits)
	assert.Equal(t, 1, w.Session().Misses)
	assert.Equal(t, "w", letters(w.Targets()))
}

func TestExpiringTargetCannotBeMatched(t *testing.T) {
	w := quietWorld(t, game.MatchStrict)
	refs := place(w, "k")

	steps(w, 11)
	w.Press('k')
	w.Step(frame)

	assert.False(t, refs[0].Alive())
	assert.Equal(t, 1, w.Session().Expired)
	assert.Zero(t, w.Session().Hits)
	assert.Equal(t, 1, w.Session().Misses)
}

func TestPressesLastOneFrame(t *testing.T) {
	w := quietWorld(t, game.MatchScan)

	w.Press('A', '1', 'b', ' ')
	w.Step(frame)
	assert.Equal(t, 2, w.Session().Misses, "uppercase folds, non-letters drop")

	w.Step(frame)
	assert.Equal(t, 2, w.Session().Misses)
}

func TestFocusFollowsFirstTarget(t *testing.T) {
	w := quietWorld(t, game.MatchStrict)

	w.Step(frame)
	_, ok := w.Focus()
	assert.False(t, ok)

	refs := place(w, "ab")
	w.Step(frame)
	id, ok := w.Focus()
	require.True(t, ok)
	assert.Equal(t, refs[0].Id, id)
	assert.True(t, w.Targets()[0].Focused)
	assert.False(t, w.Targets()[1].Focused)

	w.Press('a')
	w.Step(frame)
	id, ok = w.Focus()
	require.True(t, ok)
	assert.Equal(t, refs[1].Id, id)

	w.Press('b')
	w.Step(frame)
	_, ok = w.Focus()
	assert.False(t, ok)
}

type recorder struct {
	world  *game.World
	events []string
}

func (r *recorder) Hit(letter rune) {
	r.events = append(r.events, fmt.Sprintf("hit %c (%d left)", letter, len(r.world.Targets())))
}

func (r *recorder) Miss(letter rune) {
	r.events = append(r.events, fmt.Sprintf("miss %c", letter))
}

func TestFeedbackRunsAfterCommandsApply(t *testing.T) {
	rec := &recorder{}
	w := quietWorld(t, game.MatchScan, game.WithFeedback(rec))
	rec.world = w
	place(w, "ab")

	w.Press('b', 'c')
	w.Step(frame)

	assert.Equal(t, []string{"hit b (1 left)", "miss c"}, rec.events)
}

func TestTargetSnapshot(t *testing.T) {
	w := quietWorld(t, game.MatchStrict)
	place(w, "r")

	steps(w, 3)
	targets := w.Targets()
	require.Len(t, targets, 1)
	assert.Equal(t, 900*time.Millisecond, targets[0].Remaining)
	assert.InDelta(t, 0.25, targets[0].Age, 1e-9)
	assert.Equal(t, "r@(10.0,50.0)", targets[0].String())
}

func TestExtraSystemsRunBeforeInputReset(t *testing.T) {
	var seen []rune
	probe := probeSystem(func(frame *ecs.UpdateFrame) {
		var keyboard *game.Keyboard
		if frame.Storage.ReadSingleton(&keyboard) {
			seen = append(seen, keyboard.Pressed...)
		}
	})
	w := quietWorld(t, game.MatchStrict, game.WithSystems(probe))

	w.Press('h', 'i')
	w.Step(frame)
	w.Step(frame)
	assert.Equal(t, []rune("hi"), seen)
}

type probeSystem func(frame *ecs.UpdateFrame)

func (p probeSystem) Execute(frame *ecs.UpdateFrame) { p(frame) }

func TestSessionAccuracy(t *testing.T) {
	assert.Zero(t, game.Session{}.Accuracy())
	assert.Equal(t, 0.75, game.Session{Hits: 3, Misses: 1}.Accuracy())
}

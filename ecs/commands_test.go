package ecs_test

import (
	"testing"

	"github.com/plus3/keyfall/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spawnLettersSystem struct {
	letters string
}

func (s *spawnLettersSystem) Execute(frame *ecs.UpdateFrame) {
	for _, r := range s.letters {
		frame.Commands.Spawn(Letter{Value: r}, Spot{})
	}
}

type deleteLetterSystem struct {
	Letters ecs.Query[letterSpot]
	target  rune
	times   int
}

func (s *deleteLetterSystem) Execute(frame *ecs.UpdateFrame) {
	for id, item := range s.Letters.Iter() {
		if item.Letter.Value == s.target {
			for range s.times {
				frame.Commands.Delete(id)
			}
		}
	}
}

type countingSystem struct {
	Letters ecs.Query[letterSpot]
	seen    []int
}

func (s *countingSystem) Execute(frame *ecs.UpdateFrame) {
	s.seen = append(s.seen, s.Letters.Len())
}

func TestCommandsSpawnIsDeferred(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	counter := &countingSystem{}
	scheduler.Register(&spawnLettersSystem{letters: "ab"})
	scheduler.Register(counter)

	scheduler.Once(0.1)
	assert.Equal(t, 2, storage.Count())

	scheduler.Once(0.1)
	assert.Equal(t, []int{0, 2}, counter.seen, "spawns become visible on the next frame")
}

func TestCommandsDeleteIsDeferredAndIdempotent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Letter{Value: 'x'}, Spot{})
	storage.Spawn(Letter{Value: 'y'}, Spot{})

	scheduler := ecs.NewScheduler(storage)
	deleter := &deleteLetterSystem{target: 'x', times: 2}
	counter := &countingSystem{}
	scheduler.Register(deleter)
	scheduler.Register(counter)

	scheduler.Once(0.1)
	assert.Equal(t, []int{2}, counter.seen, "deletes are not visible inside the frame")
	assert.Equal(t, 1, storage.Count())

	_, item, ok := ecs.NewView[letterSpot](storage).First()
	require.True(t, ok)
	assert.Equal(t, 'y', item.Letter.Value)
}

func TestCommandsFlushOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	old := storage.Spawn(Letter{Value: 'o'})

	commands := &ecs.Commands{}
	var log []string

	commands.Defer(func() {
		log = append(log, "defer")
		assert.False(t, storage.Exists(old))
		assert.Equal(t, 1, storage.Count())
	})
	commands.Spawn(Letter{Value: 'n'})
	commands.Delete(old)

	spawns, deletes := commands.Pending()
	assert.Equal(t, 1, spawns)
	assert.Equal(t, 1, deletes)

	commands.Flush(storage)
	assert.Equal(t, []string{"defer"}, log)

	spawns, deletes = commands.Pending()
	assert.Zero(t, spawns)
	assert.Zero(t, deletes)

	commands.Flush(storage)
	assert.Equal(t, []string{"defer"}, log, "flush resets the buffer")
}

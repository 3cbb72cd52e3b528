package ecs_test

import (
	"testing"

	"github.com/plus3/keyfall/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type letterSpot struct {
	ecs.EntityId
	*Letter
	*Spot
}

func TestViewGet(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Letter{Value: 'w'}, Spot{X: 30, Y: 60})

	view := ecs.NewView[letterSpot](storage)

	item := view.Get(id)
	require.NotNil(t, item)
	assert.Equal(t, id, item.EntityId)
	assert.Equal(t, 'w', item.Letter.Value)
	assert.Equal(t, float32(60), item.Spot.Y)

	t.Run("mutations write through", func(t *testing.T) {
		item.Spot.X = 99
		assert.Equal(t, float32(99), ecs.ReadComponent[Spot](storage, id).X)
	})

	t.Run("missing component", func(t *testing.T) {
		only := storage.Spawn(Letter{Value: 'z'})
		assert.Nil(t, view.Get(only))

		var out letterSpot
		assert.False(t, view.Fill(only, &out))
	})

	t.Run("unknown id", func(t *testing.T) {
		assert.Nil(t, view.Get(ecs.NewEntityId(9999, 9999)))
	})

	t.Run("deleted id", func(t *testing.T) {
		storage.Delete(id)
		assert.Nil(t, view.Get(id))
	})
}

func TestViewNamedIdField(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Points(7))

	view := ecs.NewView[struct {
		Id     ecs.EntityId
		Points *Points
	}](storage)

	item := view.Get(id)
	require.NotNil(t, item)
	assert.Equal(t, id, item.Id)
	assert.Equal(t, Points(7), *item.Points)
}

func TestViewOptionalComponents(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	plain := storage.Spawn(Letter{Value: 'a'})
	streaky := storage.Spawn(Letter{Value: 'b'}, Streak{Count: 3})

	view := ecs.NewView[struct {
		*Letter
		Streak *Streak `ecs:"optional"`
	}](storage)

	item := view.Get(plain)
	require.NotNil(t, item)
	assert.Nil(t, item.Streak)

	item = view.Get(streaky)
	require.NotNil(t, item)
	require.NotNil(t, item.Streak)
	assert.Equal(t, 3, item.Streak.Count)

	assert.Equal(t, 2, view.Count())
}

func TestViewIterOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var want []rune
	for _, r := range "typing" {
		storage.Spawn(Letter{Value: r}, Spot{})
		want = append(want, r)
	}
	storage.Spawn(Letter{Value: '!'})

	view := ecs.NewView[letterSpot](storage)

	var got []rune
	for item := range view.Values() {
		got = append(got, item.Letter.Value)
	}
	assert.Equal(t, want, got)

	id, first, ok := view.First()
	require.True(t, ok)
	assert.Equal(t, 't', first.Letter.Value)
	assert.Equal(t, id, first.EntityId)

	t.Run("archetypes visit in creation order", func(t *testing.T) {
		letters := ecs.NewView[struct{ *Letter }](storage)
		var all []rune
		for _, item := range letters.Iter() {
			all = append(all, item.Letter.Value)
		}
		assert.Equal(t, append(want, '!'), all)
	})

	t.Run("early break", func(t *testing.T) {
		n := 0
		for range view.Iter() {
			n++
			if n == 2 {
				break
			}
		}
		assert.Equal(t, 2, n)
	})
}

func TestViewFirstEmpty(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	_, _, ok := ecs.NewView[letterSpot](storage).First()
	assert.False(t, ok)
}

func TestViewSpawn(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	view := ecs.NewView[struct {
		ecs.EntityId
		*Letter
		Drift *Drift `ecs:"optional"`
	}](storage)

	id := view.Spawn(struct {
		ecs.EntityId
		*Letter
		Drift *Drift `ecs:"optional"`
	}{Letter: &Letter{Value: 'x'}})

	item := view.Get(id)
	require.NotNil(t, item)
	assert.Equal(t, 'x', item.Letter.Value)
	assert.Nil(t, item.Drift)

	assert.Panics(t, func() {
		view.Spawn(struct {
			ecs.EntityId
			*Letter
			Drift *Drift `ecs:"optional"`
		}{})
	})
}

func TestViewGetRef(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Letter{Value: 'r'}, Spot{})
	ref := storage.CreateEntityRef(id)

	view := ecs.NewView[letterSpot](storage)
	require.NotNil(t, view.GetRef(ref))

	storage.Delete(id)
	assert.Nil(t, view.GetRef(ref))
	assert.Nil(t, view.GetRef(nil))
}

func TestViewShapeValidation(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { ecs.NewView[int](storage) })
	assert.Panics(t, func() { ecs.NewView[struct{ Letter Letter }](storage) })
	assert.Panics(t, func() {
		ecs.NewView[struct {
			Letter *Letter `ecs:"sometimes"`
		}](storage)
	})
}

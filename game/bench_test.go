package game_test

import (
	"testing"
	"time"

	"github.com/plus3/keyfall/game"
)

func BenchmarkWorldStep(b *testing.B) {
	w, err := game.NewWorld(game.DefaultConfig(), game.WithSeed(1))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%7 == 0 {
			w.Press('a' + rune(i%26))
		}
		w.Step(time.Second / 60)
	}
}

func BenchmarkWorldTargets(b *testing.B) {
	config := game.DefaultConfig()
	config.SpawnInterval = 10 * time.Millisecond
	config.Lifetime = time.Hour
	w, err := game.NewWorld(config, game.WithSeed(1))
	if err != nil {
		b.Fatal(err)
	}
	for range 200 {
		w.Step(10 * time.Millisecond)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = w.Targets()
	}
}

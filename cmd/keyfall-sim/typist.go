package main

import (
	"math/rand/v2"
	"time"

	"github.com/plus3/keyfall/game"
)

// Typist is a scripted player. It waits Reaction after a target appears,
// then types at most one key per Reaction, hitting the right letter with
// probability Accuracy.
type Typist struct {
	Reaction time.Duration
	Accuracy float64
	Lifetime time.Duration
	Letters  []rune

	rng  *rand.Rand
	next time.Duration
}

func NewTypist(rng *rand.Rand, reaction time.Duration, accuracy float64, config game.Config) *Typist {
	return &Typist{
		Reaction: reaction,
		Accuracy: accuracy,
		Lifetime: config.Lifetime,
		Letters:  []rune(config.Letters),
		rng:      rng,
	}
}

// Keys returns what to press at simulated time now, given the targets on
// screen.
func (t *Typist) Keys(now time.Duration, targets []game.Target) []rune {
	if now < t.next {
		return nil
	}

	for _, target := range targets {
		if !target.Focused || t.Lifetime-target.Remaining < t.Reaction {
			continue
		}
		t.next = now + t.Reaction
		if t.rng.Float64() < t.Accuracy {
			return []rune{target.Letter}
		}
		return []rune{t.wrong(target.Letter)}
	}
	return nil
}

func (t *Typist) wrong(letter rune) rune {
	if len(t.Letters) < 2 {
		return '?'
	}
	for {
		if r := t.Letters[t.rng.IntN(len(t.Letters))]; r != letter {
			return r
		}
	}
}

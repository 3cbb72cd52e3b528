// Package sound plays short tones for hits and misses through the system
// speaker.
package sound

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

// Player implements game.Feedback. Until Init succeeds every call is a no-op,
// so a player that failed to open the speaker can be used as is.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool

	hit, miss ToneSpec
}

func NewPlayer() *Player {
	return &Player{
		mixer: &beep.Mixer{},
		hit:   HitTone,
		miss:  MissTone,
	}
}

// Init opens the speaker and starts streaming the player's mixer.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("failed to open speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

func (p *Player) Hit(letter rune) {
	p.play(p.hit)
}

func (p *Player) Miss(letter rune) {
	p.play(p.miss)
}

func (p *Player) play(spec ToneSpec) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Add(spec.Streamer(sampleRate))
	speaker.Unlock()
}

// Close silences pending tones and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}

package sound

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// ToneSpec describes a short enveloped sine blip.
type ToneSpec struct {
	Freq     float64
	Duration time.Duration
	Attack   time.Duration
	Release  time.Duration
	Volume   float64
}

var (
	HitTone = ToneSpec{
		Freq:     880,
		Duration: 90 * time.Millisecond,
		Attack:   5 * time.Millisecond,
		Release:  60 * time.Millisecond,
		Volume:   0.3,
	}
	MissTone = ToneSpec{
		Freq:     220,
		Duration: 140 * time.Millisecond,
		Attack:   5 * time.Millisecond,
		Release:  80 * time.Millisecond,
		Volume:   0.3,
	}
)

// Streamer renders spec at rate.
func (spec ToneSpec) Streamer(rate beep.SampleRate) beep.Streamer {
	total := rate.N(spec.Duration)
	osc := &sine{step: spec.Freq / float64(rate), samples: total}
	shaped := &envelope{
		streamer: osc,
		total:    total,
		attack:   min(rate.N(spec.Attack), total),
		release:  min(rate.N(spec.Release), total),
	}
	return volume(shaped, spec.Volume)
}

type sine struct {
	phase    float64
	step     float64
	position int
	samples  int
}

func (s *sine) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if s.position >= s.samples {
			return i, i > 0
		}
		v := math.Sin(2 * math.Pi * s.phase)
		samples[i][0] = v
		samples[i][1] = v

		s.phase += s.step
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *sine) Err() error { return nil }

// envelope ramps the first attack samples up and the last release samples down.
type envelope struct {
	streamer beep.Streamer
	position int
	total    int
	attack   int
	release  int
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if e.attack > 0 && e.position < e.attack {
			gain = float64(e.position) / float64(e.attack)
		}
		if remaining := e.total - e.position; e.release > 0 && remaining < e.release {
			gain = min(gain, float64(remaining)/float64(e.release))
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// volume scales linearly; effects.Volume works in powers of Base.
func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

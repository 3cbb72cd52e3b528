package sound

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, s beep.Streamer) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			break
		}
	}
	require.NoError(t, s.Err())
	return out
}

func TestToneLength(t *testing.T) {
	rate := beep.SampleRate(8000)
	for _, spec := range []ToneSpec{HitTone, MissTone} {
		samples := drain(t, spec.Streamer(rate))
		assert.Len(t, samples, rate.N(spec.Duration))
	}
}

func TestToneEnvelopeAndVolume(t *testing.T) {
	rate := beep.SampleRate(8000)
	spec := ToneSpec{Freq: 440, Duration: 50 * time.Millisecond, Attack: 5 * time.Millisecond, Release: 10 * time.Millisecond, Volume: 0.5}
	samples := drain(t, spec.Streamer(rate))

	assert.Zero(t, samples[0][0], "attack starts silent")
	peak := 0.0
	for _, s := range samples {
		assert.Equal(t, s[0], s[1], "mono tone")
		peak = max(peak, math.Abs(s[0]))
	}
	assert.LessOrEqual(t, peak, 0.5+1e-9)
	assert.Greater(t, peak, 0.4)

	last := samples[len(samples)-1][0]
	assert.Less(t, math.Abs(last), 0.5/float64(rate.N(spec.Release))+1e-9, "release ends near silence")
}

func TestSilentTone(t *testing.T) {
	samples := drain(t, ToneSpec{Freq: 440, Duration: 10 * time.Millisecond}.Streamer(beep.SampleRate(8000)))
	for _, s := range samples {
		assert.Zero(t, s[0])
	}
}

func TestUninitializedPlayerIsQuiet(t *testing.T) {
	p := NewPlayer()
	assert.False(t, p.Enabled())

	p.Hit('a')
	p.Miss('b')
	assert.Zero(t, p.mixer.Len())

	p.Close()
}

package ecs

import (
	"fmt"
	"time"
)

type TimerMode int

const (
	// TimerModeOnce finishes once and stays finished.
	TimerModeOnce TimerMode = iota
	// TimerModeRepeating wraps around after each finish.
	TimerModeRepeating
)

// Timer accumulates frame deltas toward a duration. It is a plain value so it
// can live inside components and singletons.
type Timer struct {
	duration      time.Duration
	elapsed       time.Duration
	mode          TimerMode
	finished      bool
	timesFinished int
}

func NewTimer(duration time.Duration, mode TimerMode) Timer {
	return Timer{duration: duration, mode: mode}
}

// Tick advances the timer by delta and returns it for chaining, e.g.
// timer.Tick(frame.Delta()).JustFinished().
func (t *Timer) Tick(delta time.Duration) *Timer {
	if t.mode == TimerModeOnce && t.finished {
		t.timesFinished = 0
		return t
	}

	t.elapsed += delta
	t.timesFinished = 0
	t.finished = t.elapsed >= t.duration

	if !t.finished {
		return t
	}

	if t.mode == TimerModeOnce {
		t.elapsed = t.duration
		t.timesFinished = 1
		return t
	}

	if t.duration <= 0 {
		t.elapsed = 0
		t.timesFinished = 1
		return t
	}
	t.timesFinished = int(t.elapsed / t.duration)
	t.elapsed %= t.duration
	return t
}

// JustFinished reports whether the last Tick crossed the duration.
func (t *Timer) JustFinished() bool {
	return t.timesFinished > 0
}

// TimesFinishedThisTick is how many periods the last Tick covered.
// Only repeating timers can report more than one.
func (t *Timer) TimesFinishedThisTick() int {
	return t.timesFinished
}

func (t *Timer) Finished() bool {
	return t.finished
}

func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

func (t *Timer) Duration() time.Duration {
	return t.duration
}

func (t *Timer) Mode() TimerMode {
	return t.mode
}

// Remaining returns the time left in the current period.
func (t *Timer) Remaining() time.Duration {
	return max(t.duration-t.elapsed, 0)
}

// Fraction returns elapsed/duration in [0, 1].
func (t *Timer) Fraction() float64 {
	if t.duration <= 0 {
		return 1
	}
	return min(float64(t.elapsed)/float64(t.duration), 1)
}

func (t *Timer) Reset() {
	t.elapsed = 0
	t.finished = false
	t.timesFinished = 0
}

func (t *Timer) String() string {
	return fmt.Sprintf("%s/%s", t.elapsed, t.duration)
}

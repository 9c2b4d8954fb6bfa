// Package sched computes the voice count for each synthesis event.
//
// Load varies in steps of NotesPerStep events. A new count is computed
// only at half-step boundaries and held in between, so the load never
// jumps on every single event. Each mode is a pure function of the event
// counter, the bounds, and the previous value, which keeps the variants
// independently testable.
package sched

import (
	"fmt"
	"math/rand"
)

// NotesPerStep is the number of synthesis events per load step.
const NotesPerStep = 10

// Mode selects how the voice count moves between the low and high bounds.
type Mode int

const (
	// ModeSwitch alternates: low for the first half of each step window,
	// high for the second half.
	ModeSwitch Mode = iota

	// ModeRandom draws uniformly from [low, high] with a fixed seed so
	// repeated runs produce identical sequences.
	ModeRandom

	// ModeLinearLoop sweeps upward by half a step window per change and
	// wraps back to low past the high bound.
	ModeLinearLoop

	// ModeConstant always returns the low bound.
	ModeConstant
)

// ParseMode maps a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "switch", "":
		return ModeSwitch, nil
	case "random":
		return ModeRandom, nil
	case "linear-loop":
		return ModeLinearLoop, nil
	case "constant":
		return ModeConstant, nil
	default:
		return ModeSwitch, fmt.Errorf("unknown voices mode %q", s)
	}
}

// String returns the configuration spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeRandom:
		return "random"
	case ModeLinearLoop:
		return "linear-loop"
	case ModeConstant:
		return "constant"
	default:
		return "switch"
	}
}

// Scheduler holds the state that persists between scheduling decisions.
type Scheduler struct {
	mode Mode
	low  int
	high int
	last int
	rng  *rand.Rand
}

// New creates a scheduler. high ≤ 0 disables variation: every call
// returns low regardless of mode.
func New(mode Mode, low, high int, seed int64) *Scheduler {
	return &Scheduler{
		mode: mode,
		low:  low,
		high: high,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Low returns the base voice count.
func (s *Scheduler) Low() int { return s.low }

// High returns the high voice count, 0 meaning disabled.
func (s *Scheduler) High() int { return s.high }

// Next returns the voice count for the event identified by noteCounter.
// The count is recomputed only when the counter crosses a half-step
// boundary; otherwise the previous value is returned unchanged.
func (s *Scheduler) Next(noteCounter int) int {
	if s.high <= 0 {
		return s.low
	}
	if noteCounter%(NotesPerStep/2) == 0 {
		s.last = s.step(noteCounter)
	}
	return s.last
}

func (s *Scheduler) step(noteCounter int) int {
	switch s.mode {
	case ModeLinearLoop:
		return stepLinearLoop(s.last, s.low, s.high)
	case ModeRandom:
		return stepRandom(s.rng, s.low, s.high)
	case ModeConstant:
		return s.low
	default:
		return stepSwitch(noteCounter, s.low, s.high)
	}
}

// stepSwitch restarts its pattern every full step window based on the
// counter modulo the window size.
func stepSwitch(noteCounter, low, high int) int {
	if noteCounter%NotesPerStep < NotesPerStep/2 {
		return low
	}
	return high
}

// stepLinearLoop advances by half a window and wraps to low when the
// result leaves [low, high].
func stepLinearLoop(prev, low, high int) int {
	next := prev + NotesPerStep/2
	if next > high || next < low {
		next = low
	}
	return next
}

func stepRandom(rng *rand.Rand, low, high int) int {
	return low + rng.Intn(high-low+1)
}

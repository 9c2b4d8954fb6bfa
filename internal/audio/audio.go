// Package audio defines the sink contract the benchmark renders into.
//
// A sink owns the output buffer size and the underrun count. The harness
// is the only writer of the buffer size (and only ever grows it, one burst
// at a time); the background monitor and the control server read it
// concurrently. Implementations must therefore make the size and the
// underrun count safe for concurrent reads.
package audio

import "time"

// Sink is an audio output device, real or simulated.
type Sink interface {
	// SampleRate returns the output sample rate in Hz.
	SampleRate() int

	// FramesPerBurst returns the fixed number of frames consumed per
	// I/O cycle. The buffer size is always a whole multiple of this.
	FramesPerBurst() int

	// BufferSizeInFrames returns the current output buffer size.
	BufferSizeInFrames() int

	// SetBufferSizeInFrames requests a new buffer size and returns the
	// size actually achieved: rounded down to a whole number of bursts,
	// never below one burst, never above the device maximum.
	SetBufferSizeInFrames(desired int) int

	// UnderrunCount returns the number of underruns observed since the
	// sink was created or last reset. It never decreases.
	UnderrunCount() int

	// ResetUnderrunCount zeroes the underrun count for a fresh run.
	ResetUnderrunCount()

	// WriteBurst delivers one rendered burst of mono float32 samples.
	// renderTime is the wall time the caller spent producing the burst;
	// simulated sinks use it to advance their device clock, real sinks
	// ignore it and pace off their own clock.
	WriteBurst(samples []float32, renderTime time.Duration) error

	// Close releases the device.
	Close() error
}

// clampFrames applies the shared buffer sizing rules: round down to a
// whole number of bursts, at least one burst, at most maxFrames.
func clampFrames(desired, framesPerBurst, maxFrames int) int {
	frames := (desired / framesPerBurst) * framesPerBurst
	if frames < framesPerBurst {
		frames = framesPerBurst
	}
	if frames > maxFrames {
		frames = maxFrames
	}
	return frames
}

package audio

import (
	"sync/atomic"
	"time"
)

// VirtualSink simulates an output device so the benchmark can run faster
// than real time and without audio hardware. The device clock advances by
// the render time the caller reports for each burst: while a burst was
// being rendered, a real DAC would have consumed renderTime worth of
// frames from the buffer. If the buffer runs dry, that is an underrun.
//
// The buffer refills by one burst per write and the writer is assumed to
// block once the buffer is full, so the fill level is capped rather than
// overflowed.
type VirtualSink struct {
	sampleRate     int
	framesPerBurst int
	maxFrames      int

	bufferFrames atomic.Int64
	underruns    atomic.Int64

	fillFrames float64 // written only on the measurement goroutine
}

var _ Sink = (*VirtualSink)(nil)

// NewVirtualSink creates a simulated sink. maxBursts is the device
// ceiling expressed in bursts.
func NewVirtualSink(sampleRate, framesPerBurst, maxBursts int) *VirtualSink {
	if maxBursts < 1 {
		maxBursts = 1
	}
	s := &VirtualSink{
		sampleRate:     sampleRate,
		framesPerBurst: framesPerBurst,
		maxFrames:      framesPerBurst * maxBursts,
	}
	s.bufferFrames.Store(int64(framesPerBurst))
	s.fillFrames = float64(framesPerBurst)
	return s
}

// SampleRate returns the output sample rate in Hz.
func (s *VirtualSink) SampleRate() int { return s.sampleRate }

// FramesPerBurst returns the frames consumed per I/O cycle.
func (s *VirtualSink) FramesPerBurst() int { return s.framesPerBurst }

// MaxBufferSizeInFrames returns the device ceiling.
func (s *VirtualSink) MaxBufferSizeInFrames() int { return s.maxFrames }

// BufferSizeInFrames returns the current buffer size.
func (s *VirtualSink) BufferSizeInFrames() int {
	return int(s.bufferFrames.Load())
}

// SetBufferSizeInFrames resizes the buffer and returns the achieved size.
// The device restarts with a full buffer so the new size gets a clean
// trial window.
func (s *VirtualSink) SetBufferSizeInFrames(desired int) int {
	frames := clampFrames(desired, s.framesPerBurst, s.maxFrames)
	s.bufferFrames.Store(int64(frames))
	s.fillFrames = float64(frames)
	return frames
}

// UnderrunCount returns the underruns observed so far.
func (s *VirtualSink) UnderrunCount() int {
	return int(s.underruns.Load())
}

// ResetUnderrunCount zeroes the underrun count.
func (s *VirtualSink) ResetUnderrunCount() {
	s.underruns.Store(0)
}

// WriteBurst advances the simulated device by renderTime and then queues
// one burst. At most one underrun is counted per burst.
func (s *VirtualSink) WriteBurst(samples []float32, renderTime time.Duration) error {
	consumed := renderTime.Seconds() * float64(s.sampleRate)
	s.fillFrames -= consumed
	if s.fillFrames < 0 {
		s.underruns.Add(1)
		s.fillFrames = 0
	}
	s.fillFrames += float64(len(samples))
	if limit := float64(s.bufferFrames.Load()); s.fillFrames > limit {
		s.fillFrames = limit
	}
	return nil
}

// Close is a no-op for the simulated device.
func (s *VirtualSink) Close() error { return nil }

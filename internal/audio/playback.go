package audio

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/oto"
)

// PlaybackSink plays the rendered workload on the real output device.
// The adjustable buffer is a software limit in front of the device:
// consumer audio APIs expose no underrun counter, so underruns are
// estimated from missed write deadlines — if the time since the previous
// burst exceeds what the buffer could have covered, the device must have
// starved. The virtual sink remains the measurement-grade path; playback
// exists to make the workload audible on a real machine.
type PlaybackSink struct {
	otoContext *oto.Context
	player     *oto.Player

	sampleRate     int
	framesPerBurst int
	maxFrames      int

	bufferFrames atomic.Int64
	underruns    atomic.Int64

	lastWrite time.Time
	buf       []byte
}

var _ Sink = (*PlaybackSink)(nil)

const bitDepthInBytes = 2

// NewPlaybackSink opens the default output device for mono 16-bit output.
func NewPlaybackSink(sampleRate, framesPerBurst, maxBursts int) (*PlaybackSink, error) {
	if maxBursts < 1 {
		maxBursts = 1
	}
	otoContext, err := oto.NewContext(sampleRate, 1, bitDepthInBytes, framesPerBurst*bitDepthInBytes)
	if err != nil {
		return nil, fmt.Errorf("opening output device: %w", err)
	}
	s := &PlaybackSink{
		otoContext:     otoContext,
		player:         otoContext.NewPlayer(),
		sampleRate:     sampleRate,
		framesPerBurst: framesPerBurst,
		maxFrames:      framesPerBurst * maxBursts,
		buf:            make([]byte, framesPerBurst*bitDepthInBytes),
	}
	s.bufferFrames.Store(int64(framesPerBurst))
	return s, nil
}

// SampleRate returns the output sample rate in Hz.
func (s *PlaybackSink) SampleRate() int { return s.sampleRate }

// FramesPerBurst returns the frames consumed per I/O cycle.
func (s *PlaybackSink) FramesPerBurst() int { return s.framesPerBurst }

// BufferSizeInFrames returns the current software buffer limit.
func (s *PlaybackSink) BufferSizeInFrames() int {
	return int(s.bufferFrames.Load())
}

// SetBufferSizeInFrames resizes the software buffer limit and returns the
// achieved size. The deadline clock restarts so the new size gets a clean
// trial window.
func (s *PlaybackSink) SetBufferSizeInFrames(desired int) int {
	frames := clampFrames(desired, s.framesPerBurst, s.maxFrames)
	s.bufferFrames.Store(int64(frames))
	s.lastWrite = time.Time{}
	return frames
}

// UnderrunCount returns the underruns estimated so far.
func (s *PlaybackSink) UnderrunCount() int {
	return int(s.underruns.Load())
}

// ResetUnderrunCount zeroes the underrun count.
func (s *PlaybackSink) ResetUnderrunCount() {
	s.underruns.Store(0)
}

// WriteBurst packs the burst as 16-bit little-endian PCM and writes it to
// the device. The device paces the caller by blocking the write.
func (s *PlaybackSink) WriteBurst(samples []float32, renderTime time.Duration) error {
	now := time.Now()
	if !s.lastWrite.IsZero() {
		covered := time.Duration(float64(s.bufferFrames.Load()) / float64(s.sampleRate) * float64(time.Second))
		if now.Sub(s.lastWrite) > covered {
			s.underruns.Add(1)
		}
	}
	s.lastWrite = now

	for i, v := range samples {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		b := int16(v * 32767)
		s.buf[2*i] = byte(b)
		s.buf[2*i+1] = byte(b >> 8)
	}
	if _, err := s.player.Write(s.buf[:len(samples)*bitDepthInBytes]); err != nil {
		return fmt.Errorf("writing burst: %w", err)
	}
	return nil
}

// Close tears down the player and the device context.
func (s *PlaybackSink) Close() error {
	if err := s.player.Close(); err != nil {
		return err
	}
	return s.otoContext.Close()
}

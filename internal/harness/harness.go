// Package harness drives the latency measurement: a generic note-loop
// driver, the buffer adaptation controller, and the background monitor
// that reports buffer-size changes without touching the measurement path.
package harness

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/soundbench/latencymark/internal/analysis"
	"github.com/soundbench/latencymark/internal/audio"
	"github.com/soundbench/latencymark/internal/capture"
	"github.com/soundbench/latencymark/internal/result"
	"github.com/soundbench/latencymark/internal/synth"
)

// Measurement receives driver callbacks at well-defined points of the
// note loop. The driver owns pacing; the measurement only reacts.
type Measurement interface {
	// OnBeginMeasurement is invoked once before the first burst.
	OnBeginMeasurement() error

	// OnBeforeNoteOn is invoked before each scheduled note event.
	// A non-success code aborts the run.
	OnBeforeNoteOn() result.Code

	// OnEndMeasurement is invoked after the last burst, or after an
	// abort, to assemble the report.
	OnEndMeasurement()

	// CurrentNumVoices returns the voice count for the next note event.
	CurrentNumVoices() int
}

// Driver renders the workload burst by burst, triggering note events at
// fixed frame intervals and handing control to the Measurement callbacks.
// The frame and note counters reset whenever the controller restarts the
// trial window, so the run ends only after a full clean window.
type Driver struct {
	sink    audio.Sink
	synth   *synth.Synth
	jitter  *analysis.JitterRecorder
	cpu     *analysis.CPUMonitor
	capture *capture.Writer

	framesPerNote int64
	totalFrames   int64

	frameCounter atomic.Int64
	noteCounter  atomic.Int64
}

// NewDriver creates a driver that runs for seconds of clean audio,
// scheduling notesPerSecond note events. The note interval is rounded
// down to a whole number of bursts.
func NewDriver(sink audio.Sink, syn *synth.Synth, jitter *analysis.JitterRecorder,
	cpu *analysis.CPUMonitor, seconds, notesPerSecond int) *Driver {
	burst := int64(sink.FramesPerBurst())
	framesPerNote := int64(sink.SampleRate()/notesPerSecond) / burst * burst
	if framesPerNote < burst {
		framesPerNote = burst
	}
	return &Driver{
		sink:          sink,
		synth:         syn,
		jitter:        jitter,
		cpu:           cpu,
		framesPerNote: framesPerNote,
		totalFrames:   int64(seconds) * int64(sink.SampleRate()),
	}
}

// SetCapture attaches an optional WAV capture writer.
func (d *Driver) SetCapture(w *capture.Writer) { d.capture = w }

// FrameCounter returns the frames elapsed in the current trial window.
func (d *Driver) FrameCounter() int64 { return d.frameCounter.Load() }

// NoteCounter returns the note events elapsed in the current trial window.
func (d *Driver) NoteCounter() int64 { return d.noteCounter.Load() }

// TotalFrames returns the clean-window length in frames.
func (d *Driver) TotalFrames() int64 { return d.totalFrames }

// Restart zeroes the elapsed counters so the current buffer size gets a
// full, uninterrupted trial window.
func (d *Driver) Restart() {
	d.frameCounter.Store(0)
	d.noteCounter.Store(0)
}

// Run executes the measurement loop until a full clean window completes,
// the measurement aborts, or the context is cancelled.
func (d *Driver) Run(ctx context.Context, m Measurement) (result.Code, error) {
	if err := m.OnBeginMeasurement(); err != nil {
		return result.CodeUnrecoverableError, err
	}
	d.Restart()

	burst := make([]float32, d.sink.FramesPerBurst())
	code := result.CodeSuccess

	for d.frameCounter.Load() < d.totalFrames {
		select {
		case <-ctx.Done():
			return code, ctx.Err()
		default:
		}

		if d.frameCounter.Load()%d.framesPerNote == 0 {
			code = m.OnBeforeNoteOn()
			if code != result.CodeSuccess {
				break
			}
			voices := m.CurrentNumVoices()
			d.synth.NoteOff()
			d.synth.NoteOn(voices)
			d.noteCounter.Add(1)
		}

		start := time.Now()
		d.synth.RenderBurst(burst)
		renderTime := time.Since(start)

		d.jitter.Record(renderTime)
		d.cpu.Record(renderTime, len(burst))

		if err := d.sink.WriteBurst(burst, renderTime); err != nil {
			return code, err
		}
		if d.capture != nil {
			if err := d.capture.WriteBurst(burst); err != nil {
				return code, err
			}
		}
		d.frameCounter.Add(int64(len(burst)))
	}

	m.OnEndMeasurement()
	return code, nil
}

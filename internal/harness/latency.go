package harness

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync/atomic"

	"github.com/soundbench/latencymark/internal/analysis"
	"github.com/soundbench/latencymark/internal/audio"
	"github.com/soundbench/latencymark/internal/result"
	"github.com/soundbench/latencymark/internal/sched"
)

// LatencyHarness finds the smallest output buffer size, in whole bursts,
// that the synthesis workload can sustain for the configured duration
// without an underrun. Every detected underrun grows the buffer by one
// burst and restarts the trial window; the run succeeds only once a full
// window passes clean. Growth is strictly incremental so the search never
// overshoots and never needs to shrink.
type LatencyHarness struct {
	driver    *Driver
	sink      audio.Sink
	scheduler *sched.Scheduler
	jitter    *analysis.JitterRecorder
	cpu       *analysis.CPUMonitor
	res       *result.Result
	monitor   *Monitor

	prevUnderruns int
	failed        bool

	// Read by the monitor goroutine for its notices.
	glitchTimeBits atomic.Uint64
}

// NewLatencyHarness wires the controller to its collaborators and creates
// the background monitor.
func NewLatencyHarness(driver *Driver, sink audio.Sink, scheduler *sched.Scheduler,
	jitter *analysis.JitterRecorder, cpu *analysis.CPUMonitor, res *result.Result) *LatencyHarness {
	h := &LatencyHarness{
		driver:    driver,
		sink:      sink,
		scheduler: scheduler,
		jitter:    jitter,
		cpu:       cpu,
		res:       res,
	}
	h.monitor = NewMonitor(sink, h.GlitchTime)
	return h
}

// Run executes the measurement with the monitor running alongside it.
// The monitor is stopped, with a bounded wait, before Run returns.
func (h *LatencyHarness) Run(ctx context.Context) (result.Code, error) {
	h.monitor.Start()
	defer h.monitor.Stop()
	return h.driver.Run(ctx, h)
}

// OnBeginMeasurement resets the underrun baseline, shrinks the buffer to
// a single burst, and arms jitter recording.
func (h *LatencyHarness) OnBeginMeasurement() error {
	h.prevUnderruns = 0
	h.failed = false
	h.sink.ResetUnderrunCount()
	h.sink.SetBufferSizeInFrames(h.sink.FramesPerBurst())
	h.jitter.Setup(h.sink.SampleRate(), h.sink.FramesPerBurst())
	slog.Info("measuring latency",
		"voices", h.scheduler.Low(),
		"voices_high", h.scheduler.High(),
		"frames_per_burst", h.sink.FramesPerBurst())
	return nil
}

// OnBeforeNoteOn checks for new underruns and adapts the buffer. If the
// sink is already at its ceiling and still glitching, the workload cannot
// be sustained and the run aborts with an unrecoverable error.
func (h *LatencyHarness) OnBeforeNoteOn() result.Code {
	if h.driver.FrameCounter() > 0 {
		underruns := h.sink.UnderrunCount()
		if underruns > h.prevUnderruns {
			h.prevUnderruns = underruns

			// Grow by one burst to avoid further glitches.
			sizeInFrames := h.sink.BufferSizeInFrames()
			desired := sizeInFrames + h.sink.FramesPerBurst()
			actual := h.sink.SetBufferSizeInFrames(desired)
			if actual < desired {
				slog.Error("at maximum buffer size and still glitching",
					"buffer_frames", actual)
				h.failed = true
				h.res.SetResultCode(result.CodeUnrecoverableError)
				return result.CodeUnrecoverableError
			}

			h.setGlitchTime(float64(h.driver.FrameCounter()) / float64(h.sink.SampleRate()))
			slog.Debug("glitch detected",
				"glitch_time_sec", h.GlitchTime(),
				"buffer_frames", actual)

			h.driver.Restart()
		}
	}
	return result.CodeSuccess
}

// OnEndMeasurement computes the final latency figures and assembles the
// report. The result code stays at unrecoverable-error if the run failed.
func (h *LatencyHarness) OnEndMeasurement() {
	sizeFrames := h.sink.BufferSizeInFrames()
	latencyMsec := 1000 * float64(sizeFrames) / float64(h.sink.SampleRate())

	var b strings.Builder
	b.WriteString(h.jitter.Dump())
	fmt.Fprintf(&b, "frames.per.burst     = %d\n", h.sink.FramesPerBurst())
	fmt.Fprintf(&b, "audio.latency.bursts = %d\n", sizeFrames/h.sink.FramesPerBurst())
	fmt.Fprintf(&b, "audio.latency.frames = %d\n", sizeFrames)
	fmt.Fprintf(&b, "audio.latency.msec   = %g\n", latencyMsec)
	b.WriteString(h.cpu.Dump())

	h.res.AppendMessage(b.String())
	if !h.failed {
		h.res.SetResultCode(result.CodeSuccess)
	}
	h.res.SetMeasurement(float64(sizeFrames))
}

// CurrentNumVoices asks the scheduler for the load of the next note event.
func (h *LatencyHarness) CurrentNumVoices() int {
	return h.scheduler.Next(int(h.driver.NoteCounter()))
}

// GlitchTime returns the elapsed seconds at the most recent glitch.
func (h *LatencyHarness) GlitchTime() float64 {
	return math.Float64frombits(h.glitchTimeBits.Load())
}

func (h *LatencyHarness) setGlitchTime(t float64) {
	h.glitchTimeBits.Store(math.Float64bits(t))
}

package harness

import (
	"log/slog"
	"time"

	"github.com/soundbench/latencymark/internal/audio"
)

const (
	monitorPeriod      = 80 * time.Millisecond
	monitorJoinTimeout = time.Second
)

// Monitor watches for buffer-size transitions from its own goroutine so
// that reporting I/O never perturbs the measurement path. It polls on a
// fixed period and emits exactly one notice per observed change.
//
// A nil Monitor is a silent no-op: Start and Stop do nothing.
type Monitor struct {
	sink       audio.Sink
	glitchTime func() float64
	period     time.Duration

	// notify is replaceable for tests; the default logs via slog.
	notify func(glitchTime float64, sizeFrames, bursts int)

	stop chan struct{}
	done chan struct{}
}

// NewMonitor creates a monitor over the given sink. glitchTime supplies
// the elapsed seconds at the most recent glitch for the notice text.
func NewMonitor(sink audio.Sink, glitchTime func() float64) *Monitor {
	return &Monitor{
		sink:       sink,
		glitchTime: glitchTime,
		period:     monitorPeriod,
		notify: func(glitchTime float64, sizeFrames, bursts int) {
			slog.Info("audio glitch, restarting trial",
				"glitch_time_sec", glitchTime,
				"buffer_frames", sizeFrames,
				"bursts", bursts)
		},
	}
}

// Start launches the polling goroutine. It never blocks the caller.
func (m *Monitor) Start() {
	if m == nil {
		return
	}
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go m.run()
}

// Stop signals the goroutine and waits for it to exit, bounded by a
// timeout so a stuck sleep cannot hang shutdown indefinitely.
func (m *Monitor) Stop() {
	if m == nil || m.stop == nil {
		return
	}
	close(m.stop)
	select {
	case <-m.done:
	case <-time.After(monitorJoinTimeout):
		slog.Warn("monitor did not stop in time")
	}
	m.stop = nil
}

func (m *Monitor) run() {
	defer close(m.done)
	previous := m.sink.BufferSizeInFrames()
	ticker := time.NewTicker(m.period)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			current := m.sink.BufferSizeInFrames()
			if current != previous {
				m.notify(m.glitchTime(), current, current/m.sink.FramesPerBurst())
				previous = current
			}
		}
	}
}

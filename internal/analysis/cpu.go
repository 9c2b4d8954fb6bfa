package analysis

import (
	"fmt"
	"strings"
	"time"
)

// CPUMonitor tracks how much of the available audio time the workload
// spends rendering. Utilization is render time divided by the real-time
// duration of the frames produced; above 1.0 the workload cannot keep up.
type CPUMonitor struct {
	sampleRate int
	renderTime time.Duration
	frames     int64
	maxBurst   float64
}

// NewCPUMonitor creates a monitor for the given sample rate.
func NewCPUMonitor(sampleRate int) *CPUMonitor {
	return &CPUMonitor{sampleRate: sampleRate}
}

// Record accounts one rendered burst.
func (m *CPUMonitor) Record(renderTime time.Duration, frames int) {
	m.renderTime += renderTime
	m.frames += int64(frames)

	budget := float64(frames) / float64(m.sampleRate)
	if budget > 0 {
		if u := renderTime.Seconds() / budget; u > m.maxBurst {
			m.maxBurst = u
		}
	}
}

// Utilization returns the cumulative average utilization.
func (m *CPUMonitor) Utilization() float64 {
	if m.frames == 0 {
		return 0
	}
	return m.renderTime.Seconds() / (float64(m.frames) / float64(m.sampleRate))
}

// Dump formats the utilization figures as report text.
func (m *CPUMonitor) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cpu.utilization.avg  = %.4f\n", m.Utilization())
	fmt.Fprintf(&b, "cpu.utilization.max  = %.4f\n", m.maxBurst)
	return b.String()
}

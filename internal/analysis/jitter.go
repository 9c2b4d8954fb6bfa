// Package analysis aggregates per-burst timing and CPU diagnostics that
// are appended to the final report. Recording is a few additions on the
// measurement path; all formatting happens once at dump time.
package analysis

import (
	"fmt"
	"strings"
	"time"
)

// jitterBuckets is the number of histogram buckets, each covering 10% of
// the burst period; the last bucket collects everything at or past the
// deadline.
const jitterBuckets = 10

// JitterRecorder tracks how burst render times are distributed relative
// to the burst deadline.
type JitterRecorder struct {
	burstDuration time.Duration
	count         int64
	sum           time.Duration
	min           time.Duration
	max           time.Duration
	buckets       [jitterBuckets + 1]int64
}

// NewJitterRecorder creates a recorder for the given output geometry.
func NewJitterRecorder(sampleRate, framesPerBurst int) *JitterRecorder {
	r := &JitterRecorder{}
	r.Setup(sampleRate, framesPerBurst)
	return r
}

// Setup resets all counters for a fresh measurement.
func (r *JitterRecorder) Setup(sampleRate, framesPerBurst int) {
	*r = JitterRecorder{
		burstDuration: time.Duration(float64(framesPerBurst) / float64(sampleRate) * float64(time.Second)),
	}
}

// Record accounts one burst render time.
func (r *JitterRecorder) Record(renderTime time.Duration) {
	if r.count == 0 || renderTime < r.min {
		r.min = renderTime
	}
	if renderTime > r.max {
		r.max = renderTime
	}
	r.count++
	r.sum += renderTime

	bucket := int(float64(renderTime) / float64(r.burstDuration) * jitterBuckets)
	if bucket > jitterBuckets {
		bucket = jitterBuckets
	}
	if bucket < 0 {
		bucket = 0
	}
	r.buckets[bucket]++
}

// Count returns the number of recorded bursts.
func (r *JitterRecorder) Count() int64 { return r.count }

// Dump formats the distribution as report text.
func (r *JitterRecorder) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "timing.bursts        = %d\n", r.count)
	if r.count > 0 {
		avg := time.Duration(int64(r.sum) / r.count)
		fmt.Fprintf(&b, "timing.render.min.msec = %.3f\n", float64(r.min)/float64(time.Millisecond))
		fmt.Fprintf(&b, "timing.render.avg.msec = %.3f\n", float64(avg)/float64(time.Millisecond))
		fmt.Fprintf(&b, "timing.render.max.msec = %.3f\n", float64(r.max)/float64(time.Millisecond))
	}
	for i, n := range r.buckets {
		if n == 0 {
			continue
		}
		lo := i * 100 / jitterBuckets
		if i == jitterBuckets {
			fmt.Fprintf(&b, "timing.deadline[>=100%%] = %d\n", n)
			continue
		}
		fmt.Fprintf(&b, "timing.deadline[%d-%d%%] = %d\n", lo, lo+100/jitterBuckets, n)
	}
	return b.String()
}

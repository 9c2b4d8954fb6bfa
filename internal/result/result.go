// Package result holds the outcome record of a single benchmark run.
//
// A run has exactly two terminal outcomes: success, or an unrecoverable
// error when the output buffer is already at the device ceiling and
// underruns keep occurring. Buffer growth along the way is normal control
// flow, not an error.
package result

import (
	"strings"
	"sync"
)

// Code is the terminal result code of a run.
type Code int

const (
	// CodeSuccess means the run completed its configured duration.
	CodeSuccess Code = 0

	// CodeUnrecoverableError means the buffer could not grow any further
	// yet underruns continued.
	CodeUnrecoverableError Code = -1
)

// String returns a stable identifier for the code.
func (c Code) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeUnrecoverableError:
		return "unrecoverable_error"
	default:
		return "unknown"
	}
}

// Result collects the textual report, the result code, and the scalar
// measurement of a run. It is populated by the harness on the measurement
// goroutine and read by the control server, so access is guarded.
type Result struct {
	mu          sync.Mutex
	message     strings.Builder
	code        Code
	measurement float64
}

// New creates an empty Result.
func New() *Result {
	return &Result{}
}

// AppendMessage appends text to the report.
func (r *Result) AppendMessage(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.message.WriteString(text)
}

// Message returns the accumulated report text.
func (r *Result) Message() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.message.String()
}

// SetResultCode records the terminal code of the run.
func (r *Result) SetResultCode(code Code) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.code = code
}

// Code returns the recorded terminal code.
func (r *Result) Code() Code {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.code
}

// SetMeasurement records the scalar measurement (final buffer size in frames).
func (r *Result) SetMeasurement(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.measurement = v
}

// Measurement returns the recorded scalar measurement.
func (r *Result) Measurement() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.measurement
}

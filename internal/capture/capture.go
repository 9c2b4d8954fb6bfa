// Package capture writes the rendered workload to a WAV file so a run
// can be inspected offline. Capture sits off the adaptation logic: it
// only ever sees the bursts the harness already rendered.
package capture

import (
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Writer streams mono 16-bit PCM bursts into a WAV file.
type Writer struct {
	f   *os.File
	enc *wav.Encoder
	buf *gaudio.IntBuffer
}

// NewWriter creates the file and writes the WAV header.
func NewWriter(path string, sampleRate int) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating capture file: %w", err)
	}
	return &Writer{
		f:   f,
		enc: wav.NewEncoder(f, sampleRate, 16, 1, 1),
		buf: &gaudio.IntBuffer{
			Format:         &gaudio.Format{NumChannels: 1, SampleRate: sampleRate},
			SourceBitDepth: 16,
		},
	}, nil
}

// WriteBurst appends one burst of samples to the file.
func (w *Writer) WriteBurst(samples []float32) error {
	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, v := range samples {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		w.buf.Data[i] = int(v * 32767)
	}
	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("writing capture burst: %w", err)
	}
	return nil
}

// Close finalizes the WAV header and closes the file.
func (w *Writer) Close() error {
	if err := w.enc.Close(); err != nil {
		w.f.Close()
		return fmt.Errorf("finalizing capture file: %w", err)
	}
	return w.f.Close()
}

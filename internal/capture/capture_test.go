package capture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

func TestWriter_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.wav")
	w, err := NewWriter(path, 48000)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	burst := make([]float32, 64)
	for i := range burst {
		burst[i] = 0.5
	}
	for i := 0; i < 4; i++ {
		if err := w.WriteBurst(burst); err != nil {
			t.Fatalf("WriteBurst() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	buf, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer() error = %v", err)
	}
	if got := buf.Format.NumChannels; got != 1 {
		t.Errorf("NumChannels = %d, want 1", got)
	}
	if got := buf.Format.SampleRate; got != 48000 {
		t.Errorf("SampleRate = %d, want 48000", got)
	}
	if got := len(buf.Data); got != 4*64 {
		t.Errorf("decoded %d samples, want %d", got, 4*64)
	}
	// 0.5 scaled to 16-bit.
	v := float32(0.5)
	if got, want := buf.Data[0], int(v*32767); got != want {
		t.Errorf("first sample = %d, want %d", got, want)
	}
}

func TestWriter_ClampsOutOfRange(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "clip.wav")
	w, err := NewWriter(path, 48000)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.WriteBurst([]float32{2.0, -2.0}); err != nil {
		t.Fatalf("WriteBurst() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	buf, err := wav.NewDecoder(f).FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer() error = %v", err)
	}
	if got := buf.Data[0]; got != 32767 {
		t.Errorf("clipped high sample = %d, want 32767", got)
	}
	if got := buf.Data[1]; got != -32767 {
		t.Errorf("clipped low sample = %d, want -32767", got)
	}
}

func TestNewWriter_BadPath(t *testing.T) {
	t.Parallel()

	if _, err := NewWriter(filepath.Join(t.TempDir(), "missing", "out.wav"), 48000); err == nil {
		t.Error("NewWriter() with missing directory: expected error")
	}
}

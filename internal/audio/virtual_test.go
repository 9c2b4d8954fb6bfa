package audio

import (
	"testing"
	"time"
)

func TestVirtualSink_SetBufferSizeInFrames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		desired int
		want    int
	}{
		{"rounds down to burst multiple", 100, 64},
		{"exact multiple kept", 128, 128},
		{"below one burst clamps up", 0, 64},
		{"negative clamps up", -64, 64},
		{"above ceiling clamps down", 5000, 2048},
		{"ceiling itself", 2048, 2048},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewVirtualSink(48000, 64, 32)
			got := s.SetBufferSizeInFrames(tt.desired)
			if got != tt.want {
				t.Errorf("SetBufferSizeInFrames(%d) = %d, want %d", tt.desired, got, tt.want)
			}
			if got != s.BufferSizeInFrames() {
				t.Errorf("returned %d but BufferSizeInFrames() = %d", got, s.BufferSizeInFrames())
			}
		})
	}
}

func TestVirtualSink_CountsUnderrunsWhenRenderTooSlow(t *testing.T) {
	t.Parallel()

	s := NewVirtualSink(48000, 64, 4)
	burst := make([]float32, 64)

	// 2ms of device time is 96 frames, more than the 64-frame buffer holds.
	slow := 2 * time.Millisecond
	for i := 1; i <= 3; i++ {
		if err := s.WriteBurst(burst, slow); err != nil {
			t.Fatalf("WriteBurst() error = %v", err)
		}
		if got := s.UnderrunCount(); got != i {
			t.Errorf("after %d slow bursts UnderrunCount() = %d, want %d", i, got, i)
		}
	}

	s.ResetUnderrunCount()
	if got := s.UnderrunCount(); got != 0 {
		t.Errorf("UnderrunCount() after reset = %d, want 0", got)
	}
}

func TestVirtualSink_NoUnderrunWhenRenderFast(t *testing.T) {
	t.Parallel()

	s := NewVirtualSink(48000, 64, 4)
	burst := make([]float32, 64)

	// 0.5ms of device time is 24 frames, well within one burst.
	fast := 500 * time.Microsecond
	for i := 0; i < 100; i++ {
		if err := s.WriteBurst(burst, fast); err != nil {
			t.Fatalf("WriteBurst() error = %v", err)
		}
	}
	if got := s.UnderrunCount(); got != 0 {
		t.Errorf("UnderrunCount() = %d, want 0", got)
	}
}

func TestVirtualSink_ResizeGivesCleanWindow(t *testing.T) {
	t.Parallel()

	s := NewVirtualSink(48000, 64, 32)
	burst := make([]float32, 64)

	if err := s.WriteBurst(burst, 2*time.Millisecond); err != nil {
		t.Fatalf("WriteBurst() error = %v", err)
	}
	if got := s.UnderrunCount(); got != 1 {
		t.Fatalf("UnderrunCount() = %d, want 1", got)
	}

	// Growing refills the device, so a burst the old size could not
	// absorb now passes: 2ms is 96 frames against a 128-frame buffer.
	s.SetBufferSizeInFrames(128)
	if err := s.WriteBurst(burst, 2*time.Millisecond); err != nil {
		t.Fatalf("WriteBurst() error = %v", err)
	}
	if got := s.UnderrunCount(); got != 1 {
		t.Errorf("UnderrunCount() after grow = %d, want unchanged 1", got)
	}
}

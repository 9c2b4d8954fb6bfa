package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.Benchmark.SampleRate; got != 48000 {
		t.Errorf("SampleRate = %d, want 48000", got)
	}
	if got := cfg.Benchmark.FramesPerBurst; got != 64 {
		t.Errorf("FramesPerBurst = %d, want 64", got)
	}
	if got := cfg.Benchmark.DurationSeconds; got != 10 {
		t.Errorf("DurationSeconds = %d, want 10", got)
	}
	if got := cfg.Voices.Mode; got != "switch" {
		t.Errorf("Voices.Mode = %q, want \"switch\"", got)
	}
	if got := cfg.Sink.Kind; got != "virtual" {
		t.Errorf("Sink.Kind = %q, want \"virtual\"", got)
	}
	if got := cfg.Sink.MaxBursts; got != 32 {
		t.Errorf("Sink.MaxBursts = %d, want 32", got)
	}
	if cfg.Control.Enabled {
		t.Error("Control.Enabled = true, want false by default")
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latencymark.yaml")
	data := []byte(`
benchmark:
  sample_rate: 44100
  frames_per_burst: 128
  duration_seconds: 5
voices:
  mode: random
  low: 4
  high: 24
  seed: 7
sink:
  kind: virtual
  max_bursts: 16
logging:
  level: debug
  format: json
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error = %v", path, err)
	}

	if got := cfg.Benchmark.SampleRate; got != 44100 {
		t.Errorf("SampleRate = %d, want 44100", got)
	}
	if got := cfg.Benchmark.FramesPerBurst; got != 128 {
		t.Errorf("FramesPerBurst = %d, want 128", got)
	}
	if got := cfg.Voices.Mode; got != "random" {
		t.Errorf("Voices.Mode = %q, want \"random\"", got)
	}
	if got := cfg.Voices.Seed; got != 7 {
		t.Errorf("Voices.Seed = %d, want 7", got)
	}
	if got := cfg.Sink.MaxBursts; got != 16 {
		t.Errorf("Sink.MaxBursts = %d, want 16", got)
	}
	// Untouched sections keep their defaults.
	if got := cfg.Benchmark.NotesPerSecond; got != 8 {
		t.Errorf("NotesPerSecond = %d, want default 8", got)
	}
	if got := cfg.Logging.Format; got != "json" {
		t.Errorf("Logging.Format = %q, want \"json\"", got)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero sample rate", "benchmark:\n  sample_rate: 0\n"},
		{"negative burst", "benchmark:\n  frames_per_burst: -1\n"},
		{"zero duration", "benchmark:\n  duration_seconds: 0\n"},
		{"zero low voices", "voices:\n  low: 0\n"},
		{"high below low", "voices:\n  low: 8\n  high: 4\n"},
		{"zero max bursts", "sink:\n  max_bursts: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "latencymark.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("Load() with %s: expected validation error", tt.name)
			}
		})
	}
}

// Package config handles loading and validating the latencymark configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration for the latencymark benchmark.
type Config struct {
	Benchmark BenchmarkConfig `mapstructure:"benchmark"`
	Voices    VoicesConfig    `mapstructure:"voices"`
	Sink      SinkConfig      `mapstructure:"sink"`
	Capture   CaptureConfig   `mapstructure:"capture"`
	Control   ControlConfig   `mapstructure:"control"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// BenchmarkConfig holds the measurement geometry.
type BenchmarkConfig struct {
	// SampleRate is the output sample rate in Hz.
	SampleRate int `mapstructure:"sample_rate"`

	// FramesPerBurst is the frames consumed per I/O cycle; the buffer
	// size is always a multiple of this.
	FramesPerBurst int `mapstructure:"frames_per_burst"`

	// DurationSeconds is the clean-window length the final buffer size
	// must survive without a glitch.
	DurationSeconds int `mapstructure:"duration_seconds"`

	// NotesPerSecond is how often note events are scheduled.
	NotesPerSecond int `mapstructure:"notes_per_second"`
}

// VoicesConfig holds the workload scheduler settings.
type VoicesConfig struct {
	// Mode is one of "switch", "random", "linear-loop", "constant".
	Mode string `mapstructure:"mode"`

	// Low is the base voice count.
	Low int `mapstructure:"low"`

	// High is the high voice count; 0 disables variation.
	High int `mapstructure:"high"`

	// Seed is the fixed random seed for "random" mode, kept non-time
	// based so repeated runs are reproducible.
	Seed int64 `mapstructure:"seed"`
}

// SinkConfig selects and bounds the audio sink.
type SinkConfig struct {
	// Kind is "virtual" (simulated device, measurement grade) or
	// "playback" (real output device).
	Kind string `mapstructure:"kind"`

	// MaxBursts is the device buffer ceiling in bursts.
	MaxBursts int `mapstructure:"max_bursts"`
}

// CaptureConfig controls optional WAV capture of the rendered workload.
type CaptureConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ControlConfig holds the read-only observability server settings.
type ControlConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./latencymark.yaml, ./configs/latencymark.yaml,
// /etc/latencymark/latencymark.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("benchmark.sample_rate", 48000)
	v.SetDefault("benchmark.frames_per_burst", 64)
	v.SetDefault("benchmark.duration_seconds", 10)
	v.SetDefault("benchmark.notes_per_second", 8)
	v.SetDefault("voices.mode", "switch")
	v.SetDefault("voices.low", 8)
	v.SetDefault("voices.high", 0)
	v.SetDefault("voices.seed", 0)
	v.SetDefault("sink.kind", "virtual")
	v.SetDefault("sink.max_bursts", 32)
	v.SetDefault("capture.enabled", false)
	v.SetDefault("capture.path", "latencymark.wav")
	v.SetDefault("control.enabled", false)
	v.SetDefault("control.port", 8081)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("latencymark")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/latencymark")
	}

	// Environment variables: LATENCYMARK_BENCHMARK_SAMPLE_RATE, etc.
	v.SetEnvPrefix("LATENCYMARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional — env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Benchmark.SampleRate <= 0 {
		return fmt.Errorf("benchmark.sample_rate must be positive, got %d", c.Benchmark.SampleRate)
	}
	if c.Benchmark.FramesPerBurst <= 0 {
		return fmt.Errorf("benchmark.frames_per_burst must be positive, got %d", c.Benchmark.FramesPerBurst)
	}
	if c.Benchmark.DurationSeconds <= 0 {
		return fmt.Errorf("benchmark.duration_seconds must be positive, got %d", c.Benchmark.DurationSeconds)
	}
	if c.Benchmark.NotesPerSecond <= 0 {
		return fmt.Errorf("benchmark.notes_per_second must be positive, got %d", c.Benchmark.NotesPerSecond)
	}
	if c.Voices.Low <= 0 {
		return fmt.Errorf("voices.low must be positive, got %d", c.Voices.Low)
	}
	if c.Voices.High > 0 && c.Voices.High < c.Voices.Low {
		return fmt.Errorf("voices.high (%d) must not be below voices.low (%d)", c.Voices.High, c.Voices.Low)
	}
	if c.Sink.MaxBursts < 1 {
		return fmt.Errorf("sink.max_bursts must be at least 1, got %d", c.Sink.MaxBursts)
	}
	return nil
}

// SetupLogging configures the global slog logger based on config.
// Logs go to stderr so the report on stdout stays machine-readable.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

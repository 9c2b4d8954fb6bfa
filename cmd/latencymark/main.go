// Latencymark measures the smallest glitch-free audio output buffer size
// a synthesis workload can sustain. It grows the buffer one burst at a
// time on every underrun and restarts the trial window, so the reported
// latency corresponds to a buffer size that survived a full clean run.
//
// Usage:
//
//	latencymark [flags]
//	latencymark --config /path/to/latencymark.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/soundbench/latencymark/internal/analysis"
	"github.com/soundbench/latencymark/internal/audio"
	"github.com/soundbench/latencymark/internal/capture"
	"github.com/soundbench/latencymark/internal/config"
	"github.com/soundbench/latencymark/internal/control"
	"github.com/soundbench/latencymark/internal/harness"
	"github.com/soundbench/latencymark/internal/result"
	"github.com/soundbench/latencymark/internal/sched"
	"github.com/soundbench/latencymark/internal/synth"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/latencymark.yaml)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("latencymark %s\n", version)
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging.
	config.SetupLogging(cfg.Logging)
	slog.Info("latencymark starting", "version", version)

	// Create root context with signal handling for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res := result.New()
	code, err := run(ctx, cfg, res)
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}

	fmt.Print(res.Message())
	if code != result.CodeSuccess {
		slog.Error("run finished with error", "code", code.String())
		os.Exit(1)
	}
	slog.Info("latencymark finished",
		"latency_frames", int(res.Measurement()),
		"code", code.String())
}

func run(ctx context.Context, cfg *config.Config, res *result.Result) (result.Code, error) {
	mode, err := sched.ParseMode(cfg.Voices.Mode)
	if err != nil {
		return result.CodeUnrecoverableError, err
	}

	sink, err := newSink(cfg)
	if err != nil {
		return result.CodeUnrecoverableError, err
	}
	defer sink.Close()

	syn := synth.New(cfg.Benchmark.SampleRate, maxVoices(cfg))
	scheduler := sched.New(mode, cfg.Voices.Low, cfg.Voices.High, cfg.Voices.Seed)
	jitter := analysis.NewJitterRecorder(cfg.Benchmark.SampleRate, cfg.Benchmark.FramesPerBurst)
	cpu := analysis.NewCPUMonitor(cfg.Benchmark.SampleRate)

	driver := harness.NewDriver(sink, syn, jitter, cpu,
		cfg.Benchmark.DurationSeconds, cfg.Benchmark.NotesPerSecond)

	if cfg.Capture.Enabled {
		w, err := capture.NewWriter(cfg.Capture.Path, cfg.Benchmark.SampleRate)
		if err != nil {
			return result.CodeUnrecoverableError, err
		}
		defer func() {
			if err := w.Close(); err != nil {
				slog.Error("closing capture file", "error", err)
			}
		}()
		driver.SetCapture(w)
		slog.Info("capturing rendered audio", "path", cfg.Capture.Path)
	}

	lm := harness.NewLatencyHarness(driver, sink, scheduler, jitter, cpu, res)

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	g, runCtx := errgroup.WithContext(runCtx)

	var ctrl *control.Server
	if cfg.Control.Enabled {
		ctrl = control.New(cfg.Control.Port, sink, func() (int64, int64) {
			return driver.FrameCounter(), driver.TotalFrames()
		}, res)
		g.Go(func() error {
			return ctrl.ListenAndServe(runCtx)
		})
		ctrl.SetReady(true)
	}

	var code result.Code
	g.Go(func() error {
		// The control server outlives the measurement only until the
		// report is printed.
		defer cancelRun()
		var runErr error
		code, runErr = lm.Run(runCtx)
		if ctrl != nil {
			ctrl.SetDone(true)
		}
		return runErr
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return code, err
	}
	return code, nil
}

func newSink(cfg *config.Config) (audio.Sink, error) {
	switch cfg.Sink.Kind {
	case "virtual", "":
		return audio.NewVirtualSink(cfg.Benchmark.SampleRate,
			cfg.Benchmark.FramesPerBurst, cfg.Sink.MaxBursts), nil
	case "playback":
		return audio.NewPlaybackSink(cfg.Benchmark.SampleRate,
			cfg.Benchmark.FramesPerBurst, cfg.Sink.MaxBursts)
	default:
		return nil, fmt.Errorf("unknown sink kind %q", cfg.Sink.Kind)
	}
}

func maxVoices(cfg *config.Config) int {
	if cfg.Voices.High > cfg.Voices.Low {
		return cfg.Voices.High
	}
	return cfg.Voices.Low
}

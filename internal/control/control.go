// Package control provides the read-only observability surface for a run.
//
// While a measurement is in progress the server exposes liveness probes
// and a live status snapshot (current buffer size, underruns, progress);
// once the run completes the final report becomes available. The server
// only ever reads from the sink, so it cannot perturb the measurement.
package control

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/soundbench/latencymark/internal/audio"
	"github.com/soundbench/latencymark/internal/result"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/soundbench/latencymark/internal/control/docs"
)

// Progress reports frames elapsed in the current trial window against the
// configured clean-window length.
type Progress func() (frames, totalFrames int64)

// StatusResponse is the live snapshot returned by GET /status.
type StatusResponse struct {
	BufferFrames int     `json:"buffer_frames"`
	Bursts       int     `json:"bursts"`
	Underruns    int     `json:"underruns"`
	Frames       int64   `json:"frames"`
	TotalFrames  int64   `json:"total_frames"`
	Progress     float64 `json:"progress"`
	Done         bool    `json:"done"`
}

// ResultResponse is the final outcome returned by GET /result.
type ResultResponse struct {
	Code        string  `json:"code"`
	Measurement float64 `json:"measurement"`
	Message     string  `json:"message"`
}

// Server is a lightweight HTTP server over the benchmark state.
type Server struct {
	port     int
	sink     audio.Sink
	progress Progress
	res      *result.Result

	ready  atomic.Bool
	done   atomic.Bool
	server *http.Server
}

// New creates a control server reading from the given collaborators.
func New(port int, sink audio.Sink, progress Progress, res *result.Result) *Server {
	return &Server{port: port, sink: sink, progress: progress, res: res}
}

// SetReady marks the benchmark as running.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// SetDone marks the run as complete, unlocking GET /result.
func (s *Server) SetDone(done bool) {
	s.done.Store(done)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleHealthz)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /result", s.handleResult)

	// Swagger UI — serves the generated OpenAPI docs.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return mux
}

// ListenAndServe starts the control HTTP server.
// It blocks until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("control server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("control server: %w", err)
	}
	return nil
}

// handleHealthz reports liveness.
//
// @Summary     Liveness probe
// @Description Returns 200 once the benchmark is running.
// @Tags        control
// @Produce     json
// @Success     200  {object}  map[string]string
// @Failure     503  {object}  map[string]string
// @Router      /healthz [get]
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if !s.ready.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "not_ready"})
		return
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleStatus returns the live measurement snapshot.
//
// @Summary     Live run status
// @Description Current buffer size, underrun count, and clean-window progress.
// @Tags        control
// @Produce     json
// @Success     200  {object}  StatusResponse
// @Router      /status [get]
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	frames, total := s.progress()
	bufferFrames := s.sink.BufferSizeInFrames()

	resp := StatusResponse{
		BufferFrames: bufferFrames,
		Bursts:       bufferFrames / s.sink.FramesPerBurst(),
		Underruns:    s.sink.UnderrunCount(),
		Frames:       frames,
		TotalFrames:  total,
		Done:         s.done.Load(),
	}
	if total > 0 {
		resp.Progress = float64(frames) / float64(total)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// handleResult returns the final report once the run has completed.
//
// @Summary     Final measurement result
// @Description Result code, latency measurement in frames, and the textual report.
// @Tags        control
// @Produce     json
// @Success     200  {object}  ResultResponse
// @Failure     404  {string}  string  "Run still in progress"
// @Router      /result [get]
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	if !s.done.Load() {
		http.Error(w, "run still in progress", http.StatusNotFound)
		return
	}
	resp := ResultResponse{
		Code:        s.res.Code().String(),
		Measurement: s.res.Measurement(),
		Message:     s.res.Message(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

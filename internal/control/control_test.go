package control

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/soundbench/latencymark/internal/audio"
	"github.com/soundbench/latencymark/internal/result"
)

func newTestServer() (*Server, *audio.VirtualSink, *result.Result) {
	sink := audio.NewVirtualSink(48000, 64, 32)
	res := result.New()
	s := New(0, sink, func() (int64, int64) { return 24000, 480000 }, res)
	return s, sink, res
}

func TestHealthz_ReadyGates(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer()
	mux := s.routes()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /healthz before ready = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	s.SetReady(true)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz after ready = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /readyz after ready = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestStatus_Snapshot(t *testing.T) {
	t.Parallel()

	s, sink, _ := newTestServer()
	sink.SetBufferSizeInFrames(256)
	mux := s.routes()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if got.BufferFrames != 256 {
		t.Errorf("BufferFrames = %d, want 256", got.BufferFrames)
	}
	if got.Bursts != 4 {
		t.Errorf("Bursts = %d, want 4", got.Bursts)
	}
	if got.Frames != 24000 || got.TotalFrames != 480000 {
		t.Errorf("progress frames = %d/%d, want 24000/480000", got.Frames, got.TotalFrames)
	}
	if want := 0.05; got.Progress != want {
		t.Errorf("Progress = %v, want %v", got.Progress, want)
	}
	if got.Done {
		t.Error("Done = true, want false while running")
	}
}

func TestResult_AvailableOnlyWhenDone(t *testing.T) {
	t.Parallel()

	s, _, res := newTestServer()
	mux := s.routes()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/result", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /result while running = %d, want %d", rec.Code, http.StatusNotFound)
	}

	res.SetResultCode(result.CodeSuccess)
	res.SetMeasurement(128)
	res.AppendMessage("audio.latency.frames = 128\n")
	s.SetDone(true)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/result", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /result when done = %d, want %d", rec.Code, http.StatusOK)
	}

	var got ResultResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if got.Code != "success" {
		t.Errorf("Code = %q, want \"success\"", got.Code)
	}
	if got.Measurement != 128 {
		t.Errorf("Measurement = %v, want 128", got.Measurement)
	}
	if got.Message == "" {
		t.Error("Message is empty, want report text")
	}
}

// Package handler exposes the tracking client over HTTP so non-Go storefronts can relay events.
package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopping-fpti/internal/telemetry/domain"
)

// maxRecordBytes caps a single POST /v1/track body.
const maxRecordBytes = 64 << 10

// Tracker is the subset of telemetry.Client used by the handler.
type Tracker interface {
	Track(ctx context.Context, rec domain.Record) error
}

// Server serves POST /v1/track, GET /healthz and GET /metrics.
type Server struct {
	tracker  Tracker
	gatherer prometheus.Gatherer
}

// NewServer returns a new tracking HTTP server. gatherer may be nil; then /metrics is not mounted.
func NewServer(tracker Tracker, gatherer prometheus.Gatherer) *Server {
	return &Server{tracker: tracker, gatherer: gatherer}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/track", s.track)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// track accepts one JSON event record. The beacon is sent in the background, so 202 only
// means the record was mapped; delivery is never reported back.
func (s *Server) track(w http.ResponseWriter, r *http.Request) {
	if s.tracker == nil {
		http.Error(w, "tracking disabled", http.StatusServiceUnavailable)
		return
	}
	var rec domain.Record
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRecordBytes))
	if err := dec.Decode(&rec); err != nil {
		http.Error(w, "invalid event record", http.StatusBadRequest)
		return
	}
	if rec == nil {
		http.Error(w, "invalid event record", http.StatusBadRequest)
		return
	}
	if err := s.tracker.Track(r.Context(), rec); err != nil {
		log.Printf("handler: track %q failed: %v", rec.String(domain.FieldEventName), err)
		http.Error(w, "track failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

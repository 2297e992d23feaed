// Package api exposes the race catalog and the telemetry pipeline over a
// JSON HTTP interface.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/lucasjlepore/fit-zones/export"
	"github.com/lucasjlepore/fit-zones/logger"
	"github.com/lucasjlepore/fit-zones/race"
	"github.com/lucasjlepore/fit-zones/telemetry"
)

// Catalog is the read side of the race dataset plus its explicit reload.
type Catalog interface {
	Events() []race.EventInfo
	Event(label string) (*race.Event, error)
	Reload(ctx context.Context) error
	Len() int
}

// Options carries request defaults.
type Options struct {
	Statistic      race.Statistic
	Signal         telemetry.Field
	ExportFormat   export.Format
	MaxUploadBytes int64
	Logger         logger.Logger
}

func (o Options) withDefaults() Options {
	if o.Statistic == "" {
		o.Statistic = race.Mean
	}
	if !o.Signal.Numeric() {
		o.Signal = telemetry.FieldHeartRate
	}
	if o.ExportFormat == "" {
		o.ExportFormat = export.CSV
	}
	if o.MaxUploadBytes <= 0 {
		o.MaxUploadBytes = 32 << 20
	}
	if o.Logger == nil {
		o.Logger = logger.Discard()
	}
	return o
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	eventsHandler    *EventsHandler
	resultsHandler   *ResultsHandler
	telemetryHandler *TelemetryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(catalog Catalog, opts Options) *Server {
	opts = opts.withDefaults()
	return &Server{
		healthHandler:    NewHealthHandler(catalog),
		eventsHandler:    NewEventsHandler(catalog, opts.Logger),
		resultsHandler:   NewResultsHandler(catalog, opts.Statistic),
		telemetryHandler: NewTelemetryHandler(opts),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", instrument("healthz", s.healthHandler.HandleHealth))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/events/reload", instrument("events_reload", s.eventsHandler.HandleReload))
	mux.HandleFunc("/events", instrument("events", s.eventsHandler.HandleListEvents))
	mux.HandleFunc("/results", instrument("results", s.resultsHandler.HandleGetResults))
	mux.HandleFunc("/telemetry", instrument("telemetry", s.telemetryHandler.HandlePostTelemetry))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

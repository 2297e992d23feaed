package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lucasjlepore/fit-zones/metrics"
)

// HealthHandler handles liveness and metrics requests.
type HealthHandler struct {
	catalog Catalog
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(catalog Catalog) *HealthHandler {
	return &HealthHandler{catalog: catalog}
}

type healthResponse struct {
	Status string `json:"status"`
	Events int    `json:"events"`
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Events: h.catalog.Len()})
}

// HandleMetrics serves the Prometheus registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

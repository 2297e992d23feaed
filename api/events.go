package api

import (
	"fmt"
	"net/http"

	"github.com/lucasjlepore/fit-zones/logger"
	"github.com/lucasjlepore/fit-zones/race"
)

// EventsHandler lists and reloads race events.
type EventsHandler struct {
	catalog Catalog
	log     logger.Logger
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(catalog Catalog, log logger.Logger) *EventsHandler {
	return &EventsHandler{catalog: catalog, log: log}
}

type eventsResponse struct {
	Events []race.EventInfo `json:"events"`
}

// HandleListEvents handles GET /events requests.
func (h *EventsHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: h.catalog.Events()})
}

// HandleReload handles POST /events/reload requests.
func (h *EventsHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload_events"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.catalog.Reload(r.Context()); err != nil {
		h.log.Error(r.Context(), "catalog reload failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "reload_failed", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: h.catalog.Events()})
}

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/lucasjlepore/fit-zones/race"
)

// ResultsHandler serves the aggregate, projection and standings of one event.
type ResultsHandler struct {
	catalog   Catalog
	statistic race.Statistic
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(catalog Catalog, statistic race.Statistic) *ResultsHandler {
	return &ResultsHandler{catalog: catalog, statistic: statistic}
}

type resultsResponse struct {
	Event      string           `json:"event"`
	Categories []string         `json:"categories"`
	Statistic  race.Statistic   `json:"statistic"`
	Empty      bool             `json:"empty"`
	Summary    *race.Summary    `json:"summary,omitempty"`
	Projection *race.Projection `json:"projection,omitempty"`
	Standings  []race.Standing  `json:"standings,omitempty"`
}

// HandleGetResults handles GET /results?event=&category=&stat=&name= requests.
// category may repeat or hold a comma-separated list; when absent every
// category of the event is selected. A present but blank category selects
// nothing and yields an empty response.
func (h *ResultsHandler) HandleGetResults(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_results"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	label := strings.TrimSpace(q.Get("event"))
	if label == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing event")))
		return
	}
	stat := h.statistic
	if raw := q.Get("stat"); raw != "" {
		parsed, err := race.ParseStatistic(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		stat = parsed
	}

	event, err := h.catalog.Event(label)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
		return
	}

	categories, err := selectedCategories(q, event)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
		return
	}

	resp := resultsResponse{Event: event.Label(), Categories: categories, Statistic: stat}
	rows, ok := event.Combine(categories...)
	if !ok {
		resp.Categories = []string{}
		resp.Empty = true
		writeJSON(w, http.StatusOK, resp)
		return
	}

	name := q.Get("name")
	summary := race.Summarize(rows)
	projection := race.Project(rows, name, stat)
	resp.Summary = &summary
	resp.Projection = &projection
	resp.Standings = race.Standings(rows, name)
	writeJSON(w, http.StatusOK, resp)
}

func selectedCategories(q url.Values, event *race.Event) ([]string, error) {
	raw, present := q["category"]
	if !present {
		return event.Categories(), nil
	}
	var out []string
	for _, v := range raw {
		for _, name := range strings.Split(v, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if !event.HasCategory(name) {
				return nil, fmt.Errorf("%w: %q", race.ErrCategoryNotFound, name)
			}
			out = append(out, name)
		}
	}
	return out, nil
}

package race

import (
	"sort"
	"time"
)

// Event is one race occasion with its category result tables. Events are
// read-only once loaded.
type Event struct {
	Name       string
	Date       time.Time
	categories map[string][]Result
}

// NewEvent builds an event from category tables.
func NewEvent(name string, date time.Time, categories map[string][]Result) *Event {
	e := &Event{Name: name, Date: date, categories: make(map[string][]Result, len(categories))}
	for cat, rows := range categories {
		e.categories[cat] = append([]Result(nil), rows...)
	}
	return e
}

// Label renders "<Name> (<YYYY-MM-DD>)".
func (e *Event) Label() string {
	return EventLabel(e.Name, e.Date)
}

// Categories returns the category names in ascending order.
func (e *Event) Categories() []string {
	out := make([]string, 0, len(e.categories))
	for cat := range e.categories {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// HasCategory reports whether the event holds the named table.
func (e *Event) HasCategory(name string) bool {
	_, ok := e.categories[name]
	return ok
}

// Combine concatenates the selected category tables in selection order,
// keeping each table's row order and tagging every row with its category.
// Unknown names are ignored. ok is false when nothing was selected.
func (e *Event) Combine(categories ...string) ([]Result, bool) {
	var out []Result
	selected := 0
	for _, cat := range categories {
		rows, found := e.categories[cat]
		if !found {
			continue
		}
		selected++
		for _, r := range rows {
			r.Category = cat
			out = append(out, r)
		}
	}
	if selected == 0 {
		return nil, false
	}
	if out == nil {
		out = []Result{}
	}
	return out, true
}

// EventInfo is the listing view of an event.
type EventInfo struct {
	Label      string   `json:"label"`
	Name       string   `json:"name"`
	Date       string   `json:"date"`
	Categories []string `json:"categories"`
}

func (e *Event) info() EventInfo {
	return EventInfo{
		Label:      e.Label(),
		Name:       e.Name,
		Date:       e.Date.Format(labelDateLayout),
		Categories: e.Categories(),
	}
}

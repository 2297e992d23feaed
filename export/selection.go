package export

import (
	"fmt"
	"strings"

	"github.com/lucasjlepore/fit-zones/telemetry"
)

// Selection is the set of telemetry columns enabled for a sample export.
// The zero value selects nothing.
type Selection struct {
	enabled map[telemetry.Field]bool
}

// NewSelection enables the given fields.
func NewSelection(fields ...telemetry.Field) Selection {
	var sel Selection
	for _, f := range fields {
		sel.Set(f, true)
	}
	return sel
}

// ParseSelection enables fields by allow-list name. Blank names are ignored.
func ParseSelection(names []string) (Selection, error) {
	var sel Selection
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		f, ok := telemetry.ParseField(name)
		if !ok {
			return Selection{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		sel.Set(f, true)
	}
	return sel, nil
}

// DefaultSelection is the selection a fresh export starts with: the core
// fields the session carries.
func DefaultSelection(s *telemetry.Session) Selection {
	return SelectCore(s)
}

// SelectCore enables every core field present in s.
func SelectCore(s *telemetry.Session) Selection {
	var sel Selection
	for _, f := range telemetry.CoreFields() {
		if s.Has(f) {
			sel.Set(f, true)
		}
	}
	return sel
}

// SelectAll enables every column of s.
func SelectAll(s *telemetry.Session) Selection {
	return NewSelection(s.Columns()...)
}

// SelectNone returns an empty selection.
func SelectNone() Selection {
	return Selection{}
}

// Set toggles one field.
func (sel *Selection) Set(f telemetry.Field, on bool) {
	if !f.Valid() {
		return
	}
	if sel.enabled == nil {
		sel.enabled = make(map[telemetry.Field]bool)
	}
	if on {
		sel.enabled[f] = true
		return
	}
	delete(sel.enabled, f)
}

// Enabled reports whether f is selected.
func (sel Selection) Enabled(f telemetry.Field) bool {
	return sel.enabled[f]
}

// Len returns the number of selected fields.
func (sel Selection) Len() int {
	return len(sel.enabled)
}

// Columns returns the selected columns of s in the session's column order.
// Fields the session never carried are dropped.
func (sel Selection) Columns(s *telemetry.Session) []telemetry.Field {
	var out []telemetry.Field
	for _, f := range s.Columns() {
		if sel.enabled[f] {
			out = append(out, f)
		}
	}
	return out
}

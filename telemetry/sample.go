package telemetry

import (
	"time"
)

// RawBag is one decoded record: field name to value. Values are numbers,
// time.Time for timestamps, or nil when the decoder reported no value.
type RawBag map[string]any

// Sample is one normalized, timestamped reading. A field missing from
// Values has no value; it is never reported as zero.
type Sample struct {
	Index     int
	Timestamp time.Time
	Values    map[Field]float64
}

// Value returns the numeric value of f and whether it is present.
func (s Sample) Value(f Field) (float64, bool) {
	v, ok := s.Values[f]
	return v, ok
}

// Session is the ordered sample sequence of one activity.
type Session struct {
	Samples []Sample

	columns [fieldCount]bool
}

// Len returns the number of samples.
func (s *Session) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Samples)
}

// Start returns the first sample timestamp.
func (s *Session) Start() time.Time {
	if s.Len() == 0 {
		return time.Time{}
	}
	return s.Samples[0].Timestamp
}

// End returns the last sample timestamp.
func (s *Session) End() time.Time {
	if s.Len() == 0 {
		return time.Time{}
	}
	return s.Samples[len(s.Samples)-1].Timestamp
}

// Duration is End minus Start.
func (s *Session) Duration() time.Duration {
	if s.Len() == 0 {
		return 0
	}
	return s.End().Sub(s.Start())
}

// Has reports whether f appeared as a column in any admitted record.
func (s *Session) Has(f Field) bool {
	if s == nil || !f.Valid() {
		return false
	}
	return s.columns[f]
}

// Columns lists the fields seen in the session, in allow-list order.
func (s *Session) Columns() []Field {
	if s == nil {
		return nil
	}
	out := make([]Field, 0, 16)
	for i, seen := range s.columns {
		if seen {
			out = append(out, Field(i))
		}
	}
	return out
}

// Values collects the present values of f across the session.
func (s *Session) Values(f Field) []float64 {
	if s.Len() == 0 {
		return nil
	}
	out := make([]float64, 0, len(s.Samples))
	for _, sample := range s.Samples {
		if v, ok := sample.Values[f]; ok {
			out = append(out, v)
		}
	}
	return out
}

// ColumnCoverage reports how many samples carry a value for one column.
type ColumnCoverage struct {
	Field   Field   `json:"field"`
	Present int     `json:"present"`
	Percent float64 `json:"percent"`
}

// Coverage returns value coverage for every session column.
func Coverage(s *Session) []ColumnCoverage {
	cols := s.Columns()
	out := make([]ColumnCoverage, 0, len(cols))
	total := s.Len()
	for _, f := range cols {
		present := total
		if f != FieldTimestamp {
			present = len(s.Values(f))
		}
		pct := 0.0
		if total > 0 {
			pct = float64(present) / float64(total) * 100.0
		}
		out = append(out, ColumnCoverage{Field: f, Present: present, Percent: pct})
	}
	return out
}

package telemetry

import (
	"math"
	"sort"
	"strings"
	"time"
)

const semicircleToDegrees = 180.0 / (1 << 31)

// Textual timestamp layouts, tried in order. Zone-less layouts are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Normalize turns decoded records into a Session. Only allow-listed names
// are kept, and a record is admitted only when it carries a timestamp.
// Position fields are converted from semicircles to degrees. Samples are
// stably sorted by timestamp and reindexed from zero.
//
// Normalize returns nil when no record is admitted.
func Normalize(bags []RawBag) *Session {
	session := &Session{Samples: make([]Sample, 0, len(bags))}
	for _, bag := range bags {
		ts, ok := timestampOf(bag)
		if !ok {
			continue
		}
		sample := Sample{
			Timestamp: ts,
			Values:    make(map[Field]float64, len(bag)),
		}
		for name, raw := range bag {
			f, known := ParseField(name)
			if !known {
				continue
			}
			session.columns[f] = true
			if f == FieldTimestamp {
				continue
			}
			v := floatAny(raw)
			if v == nil || math.IsNaN(*v) {
				continue
			}
			val := *v
			if f == FieldPositionLat || f == FieldPositionLong {
				val *= semicircleToDegrees
			}
			sample.Values[f] = val
		}
		session.Samples = append(session.Samples, sample)
	}
	if len(session.Samples) == 0 {
		return nil
	}

	sort.SliceStable(session.Samples, func(i, j int) bool {
		return session.Samples[i].Timestamp.Before(session.Samples[j].Timestamp)
	})
	for i := range session.Samples {
		session.Samples[i].Index = i
	}
	return session
}

func timestampOf(bag RawBag) (time.Time, bool) {
	raw, ok := bag[FieldTimestamp.String()]
	if !ok || raw == nil {
		return time.Time{}, false
	}
	switch x := raw.(type) {
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return x.UTC(), true
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, false
		}
		return x.UTC(), true
	case string:
		return parseTimestamp(x)
	}
	v := floatAny(raw)
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return time.Time{}, false
	}
	sec, frac := math.Modf(*v)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), true
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

func floatAny(v any) *float64 {
	switch x := v.(type) {
	case float64:
		out := x
		return &out
	case float32:
		out := float64(x)
		return &out
	case int:
		out := float64(x)
		return &out
	case int8:
		out := float64(x)
		return &out
	case int16:
		out := float64(x)
		return &out
	case int32:
		out := float64(x)
		return &out
	case int64:
		out := float64(x)
		return &out
	case uint:
		out := float64(x)
		return &out
	case uint8:
		out := float64(x)
		return &out
	case uint16:
		out := float64(x)
		return &out
	case uint32:
		out := float64(x)
		return &out
	case uint64:
		out := float64(x)
		return &out
	case *float64:
		return x
	default:
		return nil
	}
}

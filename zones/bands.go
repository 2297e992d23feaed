package zones

import (
	"fmt"
	"math"
)

// Band is one training zone. Low and High are inclusive and truncated
// independently from threshold*pct, so neighbouring bands can share an edge.
type Band struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Low        int     `json:"low"`
	High       int     `json:"high"`
	LowPct     float64 `json:"low_pct"`
	HighPct    float64 `json:"high_pct"`
	Percentage string  `json:"percentage"`
}

// Contains reports whether v falls in the closed interval [Low, High].
func (b Band) Contains(v float64) bool {
	return v >= float64(b.Low) && v <= float64(b.High)
}

type bandSpec struct {
	id    string
	label string
	low   float64
	high  float64
}

var bandSpecs = []bandSpec{
	{id: "Z1", label: "Zone 1 (Active Recovery)", low: 0.62, high: 0.77},
	{id: "Z2", label: "Zone 2 (Aerobic Base)", low: 0.77, high: 0.86},
	{id: "Z3", label: "Zone 3 (Tempo)", low: 0.86, high: 0.91},
	{id: "Z4", label: "Zone 4 (Lactate Threshold)", low: 0.91, high: 0.95},
	{id: "Z5", label: "Zone 5 (VO2 Max)", low: 0.95, high: 1.03},
}

// GenerateBands expands a threshold into the five zones Z1..Z5. Every bound
// is computed from the same threshold; zero or negative thresholds still
// yield five (degenerate) bands.
func GenerateBands(threshold float64) []Band {
	out := make([]Band, 0, len(bandSpecs))
	for _, spec := range bandSpecs {
		out = append(out, Band{
			ID:         spec.id,
			Label:      spec.label,
			Low:        truncate(threshold * spec.low),
			High:       truncate(threshold * spec.high),
			LowPct:     spec.low,
			HighPct:    spec.high,
			Percentage: fmt.Sprintf("%d-%d%% of LTHR", pct(spec.low), pct(spec.high)),
		})
	}
	return out
}

func truncate(v float64) int {
	if !isFinite(v) {
		return 0
	}
	return int(v)
}

func pct(v float64) int {
	return int(math.Round(v * 100))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

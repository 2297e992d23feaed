package zones

import (
	"github.com/lucasjlepore/fit-zones/telemetry"
)

// Labels used for values outside every band.
const (
	NoData  = "No Data"
	BelowZ1 = "Below Z1"
	AboveZ5 = "Above Z5"
)

// Classify assigns a value to the first band (in Z1..Z5 order) whose closed
// interval contains it, so a value on a shared edge lands in the lower band.
// ok=false classifies as NoData.
func Classify(v float64, ok bool, bands []Band) string {
	if !ok || !isFinite(v) || len(bands) == 0 {
		return NoData
	}
	for _, b := range bands {
		if b.Contains(v) {
			return b.ID
		}
	}
	last := bands[len(bands)-1]
	if v > float64(last.High) {
		return "Above " + last.ID
	}
	return "Below " + bands[0].ID
}

// ClassifySample classifies the sample's value of the given signal.
func ClassifySample(s telemetry.Sample, signal telemetry.Field, bands []Band) string {
	v, ok := s.Value(signal)
	return Classify(v, ok, bands)
}

// Bucket counts samples carrying one classification label.
type Bucket struct {
	Label   string  `json:"label"`
	Samples int     `json:"samples"`
	Percent float64 `json:"percent"`
}

// Distribution counts the session's samples per label. The result lists
// every band ID followed by the below, above and no-data buckets, in that
// order, including empty ones.
func Distribution(s *telemetry.Session, signal telemetry.Field, bands []Band) []Bucket {
	labels := make([]string, 0, len(bands)+3)
	for _, b := range bands {
		labels = append(labels, b.ID)
	}
	if len(bands) > 0 {
		labels = append(labels, "Below "+bands[0].ID, "Above "+bands[len(bands)-1].ID)
	}
	labels = append(labels, NoData)

	counts := make(map[string]int, len(labels))
	total := s.Len()
	if total > 0 {
		for _, sample := range s.Samples {
			counts[ClassifySample(sample, signal, bands)]++
		}
	}

	out := make([]Bucket, 0, len(labels))
	for _, label := range labels {
		n := counts[label]
		pct := 0.0
		if total > 0 {
			pct = float64(n) / float64(total) * 100.0
		}
		out = append(out, Bucket{Label: label, Samples: n, Percent: pct})
	}
	return out
}

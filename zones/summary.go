package zones

import (
	"github.com/montanaflynn/stats"

	"github.com/lucasjlepore/fit-zones/telemetry"
)

// SignalSummary is the whole-session min, max and mean of one signal.
type SignalSummary struct {
	Signal  telemetry.Field `json:"signal"`
	Samples int             `json:"samples"`
	Min     float64         `json:"min"`
	Max     float64         `json:"max"`
	Mean    float64         `json:"mean"`
}

// Summarize returns nil when the signal has no value in the session.
func Summarize(s *telemetry.Session, signal telemetry.Field) *SignalSummary {
	values := stats.Float64Data(s.Values(signal))
	if len(values) == 0 {
		return nil
	}
	minV, err := values.Min()
	if err != nil {
		return nil
	}
	maxV, err := values.Max()
	if err != nil {
		return nil
	}
	mean, err := values.Mean()
	if err != nil {
		return nil
	}
	return &SignalSummary{
		Signal:  signal,
		Samples: len(values),
		Min:     minV,
		Max:     maxV,
		Mean:    mean,
	}
}

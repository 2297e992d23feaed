// Package zones derives a lactate threshold heart rate from a session and
// expands it into training bands.
package zones

import (
	"time"

	"github.com/montanaflynn/stats"

	"github.com/lucasjlepore/fit-zones/telemetry"
)

const (
	// TrailingWindow is the span before the last sample averaged for the estimate.
	TrailingWindow = 20 * time.Minute
	// ThresholdFactor scales the window mean into the threshold.
	ThresholdFactor = 0.95
)

// Estimate is the result of a threshold estimation. A nil *Estimate means
// undefined: no mean, no threshold and no duration.
type Estimate struct {
	Signal          telemetry.Field `json:"signal"`
	WindowMean      float64         `json:"window_mean"`
	Threshold       float64         `json:"threshold"`
	DurationMinutes float64         `json:"duration_minutes"`
	WindowSamples   int             `json:"window_samples"`
	WindowFallback  bool            `json:"window_fallback"`
}

type estimateOptions struct {
	signal telemetry.Field
}

// Option customises EstimateThreshold.
type Option func(*estimateOptions)

// WithSignal selects the governing signal. Defaults to heart rate.
func WithSignal(f telemetry.Field) Option {
	return func(o *estimateOptions) {
		if f.Numeric() {
			o.signal = f
		}
	}
}

// EstimateThreshold averages the governing signal over the trailing window
// (samples with timestamp >= last - TrailingWindow) and multiplies the mean
// by ThresholdFactor. An empty window falls back to the whole session.
// Returns nil when the session is empty or the window holds no value.
func EstimateThreshold(s *telemetry.Session, opts ...Option) *Estimate {
	o := estimateOptions{signal: telemetry.FieldHeartRate}
	for _, opt := range opts {
		opt(&o)
	}
	if s.Len() == 0 || !s.Has(o.signal) {
		return nil
	}

	start, end := s.Start(), s.End()
	cutoff := end.Add(-TrailingWindow)

	window := make([]telemetry.Sample, 0, len(s.Samples))
	for _, sample := range s.Samples {
		if !sample.Timestamp.Before(cutoff) {
			window = append(window, sample)
		}
	}
	fallback := false
	if len(window) == 0 {
		window = s.Samples
		fallback = true
	}

	values := make(stats.Float64Data, 0, len(window))
	for _, sample := range window {
		if v, ok := sample.Value(o.signal); ok {
			values = append(values, v)
		}
	}
	mean, err := stats.Mean(values)
	if err != nil || !isFinite(mean) {
		return nil
	}

	return &Estimate{
		Signal:          o.signal,
		WindowMean:      mean,
		Threshold:       mean * ThresholdFactor,
		DurationMinutes: end.Sub(start).Seconds() / 60,
		WindowSamples:   len(values),
		WindowFallback:  fallback,
	}
}

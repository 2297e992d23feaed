// Package fitzones analyzes one activity recording: it normalizes the
// decoded records, estimates a lactate threshold from the trailing window
// and bands every sample into training zones.
package fitzones

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lucasjlepore/fit-zones/logger"
	"github.com/lucasjlepore/fit-zones/metrics"
	"github.com/lucasjlepore/fit-zones/telemetry"
	"github.com/lucasjlepore/fit-zones/zones"
)

// Config controls which signal governs the threshold.
type Config struct {
	// Signal is the field averaged for the threshold. Non-numeric fields
	// fall back to heart rate.
	Signal telemetry.Field
}

// DefaultConfig estimates from heart rate.
func DefaultConfig() Config {
	return Config{Signal: telemetry.FieldHeartRate}
}

func (c Config) signal() telemetry.Field {
	if c.Signal.Numeric() {
		return c.Signal
	}
	return telemetry.FieldHeartRate
}

// Analysis is the outcome of one telemetry pass. Estimate is nil when the
// threshold is undefined; Bands is then empty and every sample is No Data.
type Analysis struct {
	RunID          string                     `json:"run_id"`
	Source         string                     `json:"source,omitempty"`
	StartTime      time.Time                  `json:"start_time"`
	EndTime        time.Time                  `json:"end_time"`
	ElapsedSeconds float64                    `json:"elapsed_seconds"`
	Samples        int                        `json:"samples"`
	Columns        []telemetry.Field          `json:"columns"`
	Coverage       []telemetry.ColumnCoverage `json:"coverage"`
	Signal         telemetry.Field            `json:"signal"`
	Summary        *zones.SignalSummary       `json:"summary,omitempty"`
	Estimate       *zones.Estimate            `json:"estimate"`
	Bands          []zones.Band               `json:"bands"`
	Distribution   []zones.Bucket             `json:"distribution"`
	Notes          string                     `json:"notes"`

	session *telemetry.Session
}

// Session returns the normalized samples the analysis was built from.
func (a *Analysis) Session() *telemetry.Session {
	if a == nil {
		return nil
	}
	return a.session
}

// Analyze runs the threshold and banding pass over a normalized session.
func Analyze(s *telemetry.Session, cfg Config) (*Analysis, error) {
	if s.Len() == 0 {
		return nil, ErrNoSamples
	}
	began := time.Now()
	signal := cfg.signal()

	analysis := &Analysis{
		RunID:          uuid.NewString(),
		StartTime:      s.Start(),
		EndTime:        s.End(),
		ElapsedSeconds: s.Duration().Seconds(),
		Samples:        s.Len(),
		Columns:        s.Columns(),
		Coverage:       telemetry.Coverage(s),
		Signal:         signal,
		Summary:        zones.Summarize(s, signal),
		Estimate:       zones.EstimateThreshold(s, zones.WithSignal(signal)),
		Bands:          []zones.Band{},
		session:        s,
	}
	if analysis.Estimate != nil {
		analysis.Bands = zones.GenerateBands(analysis.Estimate.Threshold)
	}
	analysis.Distribution = zones.Distribution(s, signal, analysis.Bands)
	analysis.Notes = BuildNotes(analysis)

	metrics.RecordThreshold(analysis.Estimate != nil)
	metrics.RecordAnalysisDuration(time.Since(began).Seconds())
	return analysis, nil
}

// AnalyzeRecords normalizes decoded records and analyzes them.
func AnalyzeRecords(bags []telemetry.RawBag, cfg Config) (*Analysis, error) {
	s := telemetry.Normalize(bags)
	metrics.RecordSamplesNormalized(s.Len())
	if s == nil {
		metrics.RecordTelemetryFile(metrics.OutcomeNoSamples)
		return nil, ErrNoSamples
	}
	a, err := Analyze(s, cfg)
	if err != nil {
		return nil, err
	}
	metrics.RecordTelemetryFile(metrics.OutcomeAnalyzed)
	return a, nil
}

// AnalyzeFile decodes and analyzes an activity FIT file.
func AnalyzeFile(path string, cfg Config) (*Analysis, error) {
	bags, err := telemetry.DecodeFile(path)
	if err != nil {
		decodeFailed(path, err)
		return nil, err
	}
	a, err := AnalyzeRecords(bags, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.Source = path
	return a, nil
}

// AnalyzeBytes decodes and analyzes an in-memory activity FIT file. name
// is recorded as the analysis source.
func AnalyzeBytes(name string, data []byte, cfg Config) (*Analysis, error) {
	bags, err := telemetry.DecodeBytes(data)
	if err != nil {
		decodeFailed(name, err)
		return nil, err
	}
	a, err := AnalyzeRecords(bags, cfg)
	if err != nil {
		return nil, err
	}
	a.Source = name
	return a, nil
}

func decodeFailed(source string, err error) {
	metrics.RecordTelemetryFile(metrics.OutcomeDecodeError)
	logger.Named("analyzer").Warn(context.Background(), "telemetry decode failed",
		logger.String("source", source),
		logger.Error(err),
	)
}

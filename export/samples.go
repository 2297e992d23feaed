// Package export renders analysis results as flat files: the zone table and
// a user-selected column extract of the session samples.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/lucasjlepore/fit-zones/metrics"
	"github.com/lucasjlepore/fit-zones/telemetry"
	"github.com/lucasjlepore/fit-zones/zones"
)

// Format is the sample export file flavor.
type Format string

const (
	CSV     Format = "csv"
	Parquet Format = "parquet"
)

// ParseFormat accepts csv or parquet. An empty string selects CSV.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(CSV):
		return CSV, nil
	case string(Parquet):
		return Parquet, nil
	}
	return "", fmt.Errorf("%w: %q (expected csv|parquet)", ErrUnknownFormat, s)
}

// Derived column names.
const (
	ColElapsedSeconds = "time_elapsed_seconds"
	ColElapsedMinutes = "time_elapsed_minutes"
)

type columnKind uint8

const (
	kindNumber columnKind = iota
	kindText
)

// column produces one cell per sample. ok=false is an empty cell.
type column struct {
	name  string
	kind  columnKind
	value func(telemetry.Sample) (any, bool)
}

// sampleColumns lays out the export: selected fields in session order,
// then the zone and threshold columns when the estimate's signal is
// selected, then elapsed time when the timestamp is selected.
func sampleColumns(s *telemetry.Session, sel Selection, est *zones.Estimate) ([]column, error) {
	fields := sel.Columns(s)
	if len(fields) == 0 {
		return nil, ErrNoColumns
	}

	cols := make([]column, 0, len(fields)+4)
	hasTimestamp := false
	hasSignal := false
	for _, f := range fields {
		f := f
		if f == telemetry.FieldTimestamp {
			hasTimestamp = true
			cols = append(cols, column{name: f.String(), kind: kindText, value: func(smp telemetry.Sample) (any, bool) {
				return smp.Timestamp.UTC().Format(time.RFC3339), true
			}})
			continue
		}
		if est != nil && f == est.Signal {
			hasSignal = true
		}
		cols = append(cols, column{name: f.String(), kind: kindNumber, value: func(smp telemetry.Sample) (any, bool) {
			return smp.Value(f)
		}})
	}

	if hasSignal {
		bands := zones.GenerateBands(est.Threshold)
		threshold := est.Threshold
		signal := est.Signal
		cols = append(cols,
			column{name: ZoneColumn(signal), kind: kindText, value: func(smp telemetry.Sample) (any, bool) {
				return zones.ClassifySample(smp, signal, bands), true
			}},
			column{name: ThresholdColumn(signal), kind: kindNumber, value: func(telemetry.Sample) (any, bool) {
				return threshold, true
			}},
		)
	}

	if hasTimestamp {
		start := s.Start()
		cols = append(cols,
			column{name: ColElapsedSeconds, kind: kindNumber, value: func(smp telemetry.Sample) (any, bool) {
				return smp.Timestamp.Sub(start).Seconds(), true
			}},
			column{name: ColElapsedMinutes, kind: kindNumber, value: func(smp telemetry.Sample) (any, bool) {
				return smp.Timestamp.Sub(start).Seconds() / 60, true
			}},
		)
	}
	return cols, nil
}

// ZoneColumn names the per-sample zone column for a signal.
func ZoneColumn(signal telemetry.Field) string {
	if signal == telemetry.FieldHeartRate {
		return "hr_zone"
	}
	return signal.String() + "_zone"
}

// ThresholdColumn names the constant threshold column for a signal.
func ThresholdColumn(signal telemetry.Field) string {
	if signal == telemetry.FieldHeartRate {
		return "lthr"
	}
	return signal.String() + "_threshold"
}

// SampleHeader returns the header row WriteSamplesCSV would emit.
func SampleHeader(s *telemetry.Session, sel Selection, est *zones.Estimate) ([]string, error) {
	cols, err := sampleColumns(s, sel, est)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.name
	}
	return out, nil
}

// WriteSamplesCSV writes the selected columns of every sample. est may be
// nil, in which case no zone columns are added.
func WriteSamplesCSV(w io.Writer, s *telemetry.Session, sel Selection, est *zones.Estimate) error {
	cols, err := sampleColumns(s, sel, est)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.name
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(cols))
	for _, smp := range samplesOf(s) {
		for i, c := range cols {
			row[i] = formatCell(c.value(smp))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	metrics.RecordExport("samples_csv")
	return nil
}

func samplesOf(s *telemetry.Session) []telemetry.Sample {
	if s == nil {
		return nil
	}
	return s.Samples
}

func formatCell(v any, ok bool) string {
	if !ok {
		return ""
	}
	switch x := v.(type) {
	case float64:
		return formatFloat(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ZonesFileName is heart_rate_zones_lthr_<threshold>.csv.
func ZonesFileName(est *zones.Estimate) string {
	if est == nil {
		return "heart_rate_zones.csv"
	}
	return fmt.Sprintf("heart_rate_zones_lthr_%.0f.csv", est.Threshold)
}

// SamplesFileName is custom_fit_data_<first sample, UTC>.<ext>.
func SamplesFileName(s *telemetry.Session, format Format) string {
	ext := string(CSV)
	if format == Parquet {
		ext = string(Parquet)
	}
	return "custom_fit_data_" + s.Start().UTC().Format("20060102_150405") + "." + ext
}

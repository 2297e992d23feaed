package export

import "errors"

var (
	// ErrNoColumns is returned when a sample export has nothing selected.
	ErrNoColumns = errors.New("no columns selected for export")
	// ErrUnknownField reports a selection name outside the telemetry allow-list.
	ErrUnknownField = errors.New("unknown telemetry field")
	// ErrUnknownFormat reports an export format other than csv or parquet.
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrNoThreshold is returned when zones are exported without an estimate.
	ErrNoThreshold = errors.New("threshold is undefined")
)

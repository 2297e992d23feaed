package telemetry

import "errors"

// ErrDecode marks a telemetry file that could not be parsed. It is terminal
// for that file; callers do not retry.
var ErrDecode = errors.New("could not parse telemetry file")

package fitzones

import "errors"

// ErrNoSamples is returned when a telemetry file holds no timestamped record.
var ErrNoSamples = errors.New("no timestamped samples found")

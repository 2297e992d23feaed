//go:build js

package export

import (
	"errors"
	"io"

	"github.com/lucasjlepore/fit-zones/telemetry"
	"github.com/lucasjlepore/fit-zones/zones"
)

// WriteSamplesParquet is unavailable in js/wasm builds.
func WriteSamplesParquet(io.Writer, *telemetry.Session, Selection, *zones.Estimate) error {
	return errors.New("parquet export is not supported in js/wasm builds")
}

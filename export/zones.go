package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/lucasjlepore/fit-zones/metrics"
	"github.com/lucasjlepore/fit-zones/zones"
)

var zonesHeader = []string{"Zone", "Name", "Min_HR", "Max_HR", "Percentage"}

// WriteZonesCSV writes one row per band.
func WriteZonesCSV(w io.Writer, bands []zones.Band) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(zonesHeader); err != nil {
		return err
	}
	for _, b := range bands {
		if err := cw.Write([]string{b.ID, b.Label, strconv.Itoa(b.Low), strconv.Itoa(b.High), b.Percentage}); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	metrics.RecordExport("zones_csv")
	return nil
}

// WriteEstimateZonesCSV writes the bands of est, failing when it is nil.
func WriteEstimateZonesCSV(w io.Writer, est *zones.Estimate) error {
	if est == nil {
		return ErrNoThreshold
	}
	return WriteZonesCSV(w, zones.GenerateBands(est.Threshold))
}

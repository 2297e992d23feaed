//go:build !js

package export

import (
	"fmt"
	"io"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/lucasjlepore/fit-zones/metrics"
	"github.com/lucasjlepore/fit-zones/telemetry"
	"github.com/lucasjlepore/fit-zones/zones"
)

// WriteSamplesParquet writes the same columns as WriteSamplesCSV as a
// Parquet file. Missing values are nulls.
func WriteSamplesParquet(w io.Writer, s *telemetry.Session, sel Selection, est *zones.Estimate) error {
	cols, err := sampleColumns(s, sel, est)
	if err != nil {
		return err
	}

	md := make([]string, len(cols))
	for i, c := range cols {
		md[i] = parquetSchema(c)
	}
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewCSVWriter(md, fw, 4)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, smp := range samplesOf(s) {
		row := make([]interface{}, len(cols))
		for i, c := range cols {
			if v, ok := c.value(smp); ok {
				row[i] = v
			}
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		return err
	}
	if err := fw.Close(); err != nil {
		return err
	}
	if _, err := w.Write(fw.Bytes()); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}
	metrics.RecordExport("samples_parquet")
	return nil
}

func parquetSchema(c column) string {
	if c.kind == kindText {
		return fmt.Sprintf("name=%s, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL", c.name)
	}
	return fmt.Sprintf("name=%s, type=DOUBLE, repetitiontype=OPTIONAL", c.name)
}

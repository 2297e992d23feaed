//go:build !js

package export

import (
	"bytes"
	"reflect"
	"testing"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/common"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/lucasjlepore/fit-zones/telemetry"
	"github.com/lucasjlepore/fit-zones/zones"
)

func TestWriteSamplesParquet(t *testing.T) {
	s := testSession(t)
	sel := SelectAll(s)
	est := &zones.Estimate{Signal: telemetry.FieldHeartRate, Threshold: 150}

	var buf bytes.Buffer
	if err := WriteSamplesParquet(&buf, s, sel, est); err != nil {
		t.Fatalf("WriteSamplesParquet() error: %v", err)
	}
	data := buf.Bytes()
	if len(data) < 8 {
		t.Fatalf("parquet output too short: %d bytes", len(data))
	}
	if string(data[:4]) != "PAR1" || string(data[len(data)-4:]) != "PAR1" {
		t.Fatalf("missing parquet magic")
	}

	pr, err := reader.NewParquetColumnReader(parquetbuffer.NewBufferFileFromBytes(data), 1)
	if err != nil {
		t.Fatalf("open parquet: %v", err)
	}
	defer pr.ReadStop()

	if got := pr.GetNumRows(); got != 3 {
		t.Fatalf("expected 3 rows, got %d", got)
	}

	header, err := SampleHeader(s, sel, est)
	if err != nil {
		t.Fatalf("SampleHeader() error: %v", err)
	}
	wantHeader := []string{
		"timestamp", "heart_rate", "cadence", "power", "temperature",
		"hr_zone", "lthr", "time_elapsed_seconds", "time_elapsed_minutes",
	}
	if !reflect.DeepEqual(header, wantHeader) {
		t.Fatalf("unexpected header %v", header)
	}

	tests := []struct {
		column string
		values []interface{}
		dls    []int32
	}{
		{"timestamp", []interface{}{"2025-06-01T07:00:00Z", "2025-06-01T07:00:30Z", "2025-06-01T07:01:30Z"}, []int32{1, 1, 1}},
		{"heart_rate", []interface{}{100.0, 130.0, nil}, []int32{1, 1, 0}},
		{"cadence", []interface{}{nil, nil, nil}, []int32{0, 0, 0}},
		{"power", []interface{}{200.5, 210.0, 220.0}, []int32{1, 1, 1}},
		{"temperature", []interface{}{nil, nil, 21.0}, []int32{0, 0, 1}},
		{"hr_zone", []interface{}{"Z1", "Z3", "No Data"}, []int32{1, 1, 1}},
		{"lthr", []interface{}{150.0, 150.0, 150.0}, []int32{1, 1, 1}},
		{"time_elapsed_seconds", []interface{}{0.0, 30.0, 90.0}, []int32{1, 1, 1}},
		{"time_elapsed_minutes", []interface{}{0.0, 0.5, 1.5}, []int32{1, 1, 1}},
	}
	for _, tt := range tests {
		values, _, dls, err := pr.ReadColumnByPath(common.ReformPathStr("parquet_go_root."+tt.column), 3)
		if err != nil {
			t.Fatalf("read column %s: %v", tt.column, err)
		}
		if !reflect.DeepEqual(values, tt.values) {
			t.Fatalf("column %s: got %v, want %v", tt.column, values, tt.values)
		}
		if !reflect.DeepEqual(dls, tt.dls) {
			t.Fatalf("column %s definition levels: got %v, want %v", tt.column, dls, tt.dls)
		}
	}
}

func TestWriteSamplesParquetWithoutColumns(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSamplesParquet(&buf, testSession(t), SelectNone(), nil)
	if err != ErrNoColumns {
		t.Fatalf("expected ErrNoColumns, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %d bytes", buf.Len())
	}
}

package pipeline

import (
	"bytes"
	"encoding/binary"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tormoder/fit"
)

var start = time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)

func buildTestFIT(t *testing.T, withHR bool) []byte {
	t.Helper()

	file, err := fit.NewFile(fit.FileTypeActivity, fit.NewHeader(fit.V20, true))
	if err != nil {
		t.Fatalf("new fit file: %v", err)
	}
	activity, err := file.Activity()
	if err != nil {
		t.Fatalf("activity accessor: %v", err)
	}
	for i := 0; i <= 30; i++ {
		rec := fit.NewRecordMsg()
		rec.Timestamp = start.Add(time.Duration(i) * time.Minute)
		rec.Power = 200
		if withHR {
			rec.HeartRate = 160
			if i < 10 {
				rec.HeartRate = 120
			}
		}
		activity.Records = append(activity.Records, rec)
	}

	var buf bytes.Buffer
	if err := fit.Encode(&buf, file, binary.LittleEndian); err != nil {
		t.Fatalf("encode fit: %v", err)
	}
	return buf.Bytes()
}

func writeTestFIT(t *testing.T, withHR bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ride.fit")
	if err := os.WriteFile(path, buildTestFIT(t, withHR), 0o644); err != nil {
		t.Fatalf("write fit: %v", err)
	}
	return path
}

func TestRunWritesArtifacts(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	res, err := Run(Options{
		FitPath: writeTestFIT(t, true),
		OutDir:  outDir,
		Format:  "csv",
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if filepath.Base(res.ZonesPath) != "heart_rate_zones_lthr_152.csv" {
		t.Fatalf("unexpected zones path %s", res.ZonesPath)
	}
	if filepath.Base(res.SamplesPath) != "custom_fit_data_20250601_070000.csv" {
		t.Fatalf("unexpected samples path %s", res.SamplesPath)
	}

	f, err := os.Open(res.SamplesPath)
	if err != nil {
		t.Fatalf("open samples: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read samples csv: %v", err)
	}
	if len(rows) != 32 {
		t.Fatalf("expected 31 sample rows, got %d", len(rows)-1)
	}
	header := strings.Join(rows[0], ",")
	if header != "timestamp,heart_rate,power,hr_zone,lthr,time_elapsed_seconds,time_elapsed_minutes" {
		t.Fatalf("unexpected header %q", header)
	}
	if rows[31][3] != "Above Z5" || rows[1][3] != "Z2" {
		t.Fatalf("unexpected zone labels %q / %q", rows[1][3], rows[31][3])
	}

	data, err := os.ReadFile(res.AnalysisPath)
	if err != nil {
		t.Fatalf("read analysis: %v", err)
	}
	var decoded struct {
		RunID    string `json:"run_id"`
		Signal   string `json:"signal"`
		Estimate struct {
			WindowMean float64 `json:"window_mean"`
		} `json:"estimate"`
		Columns []string `json:"columns"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal analysis: %v", err)
	}
	if decoded.RunID == "" || decoded.Signal != "heart_rate" || decoded.Estimate.WindowMean != 160 {
		t.Fatalf("unexpected analysis %+v", decoded)
	}
	if strings.Join(decoded.Columns, ",") != "timestamp,heart_rate,power" {
		t.Fatalf("unexpected columns %v", decoded.Columns)
	}

	summary, err := os.ReadFile(res.SummaryPath)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if !strings.Contains(string(summary), "# Training Summary") || !strings.Contains(string(summary), "Threshold 152") {
		t.Fatalf("unexpected summary:\n%s", summary)
	}

	if _, err := Run(Options{FitPath: writeTestFIT(t, true), OutDir: outDir}); err == nil {
		t.Fatalf("expected refusal to write into a non-empty directory")
	}
	if _, err := Run(Options{FitPath: writeTestFIT(t, true), OutDir: outDir, Overwrite: true}); err != nil {
		t.Fatalf("Run() with overwrite error: %v", err)
	}
}

func TestRunBytesProducesArtifacts(t *testing.T) {
	res, err := RunBytes(BytesOptions{
		SourceFileName: "ride.fit",
		FitData:        buildTestFIT(t, true),
		Format:         "parquet",
		Fields:         []string{"heart_rate", "power"},
		CopySource:     true,
	})
	if err != nil {
		t.Fatalf("RunBytes() error: %v", err)
	}

	required := []string{
		AnalysisFileName,
		SummaryFileName,
		SourceFileName,
		"heart_rate_zones_lthr_152.csv",
		"custom_fit_data_20250601_070000.parquet",
	}
	for _, name := range required {
		if _, ok := res.Files[name]; !ok {
			t.Fatalf("missing artifact %s", name)
		}
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings %v", res.Warnings)
	}
}

func TestRunBytesWithoutHeartRate(t *testing.T) {
	res, err := RunBytes(BytesOptions{FitData: buildTestFIT(t, false)})
	if err != nil {
		t.Fatalf("RunBytes() error: %v", err)
	}
	for name := range res.Files {
		if strings.HasPrefix(name, "heart_rate_zones") {
			t.Fatalf("zones must be omitted without a threshold, found %s", name)
		}
	}
	if len(res.Warnings) == 0 || !strings.Contains(res.Warnings[0], "threshold undefined") {
		t.Fatalf("expected a threshold warning, got %v", res.Warnings)
	}
}

func TestRunValidatesOptions(t *testing.T) {
	if _, err := Run(Options{OutDir: t.TempDir()}); err == nil {
		t.Fatalf("expected missing fit path error")
	}
	if _, err := RunBytes(BytesOptions{FitData: []byte{1}, Format: "xlsx"}); err == nil {
		t.Fatalf("expected unsupported format error")
	}
	if _, err := RunBytes(BytesOptions{FitData: buildTestFIT(t, true), Signal: "timestamp"}); err == nil {
		t.Fatalf("expected unsupported signal error")
	}
	if _, err := RunBytes(BytesOptions{FitData: buildTestFIT(t, true), Fields: []string{"nope"}}); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

// Package pipeline turns one FIT file into the full set of analysis
// artifacts, either on disk or as an in-memory file map.
package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	fitzones "github.com/lucasjlepore/fit-zones"
	"github.com/lucasjlepore/fit-zones/export"
	"github.com/lucasjlepore/fit-zones/telemetry"
)

// Run analyzes opts.FitPath and writes every artifact into opts.OutDir.
func Run(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.FitPath) == "" {
		return nil, fmt.Errorf("fit path is required")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	format, err := export.ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	cfg, err := analyzerConfig(opts.Signal)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(opts.FitPath)
	if err != nil {
		return nil, fmt.Errorf("read FIT file: %w", err)
	}
	analysis, err := fitzones.AnalyzeBytes(opts.FitPath, data, cfg)
	if err != nil {
		return nil, fmt.Errorf("analyze fit file: %w", err)
	}

	var source []byte
	if opts.CopySource {
		source = data
	}
	art, err := buildArtifacts(analysis, format, opts.Fields, source)
	if err != nil {
		return nil, err
	}

	if err := ensureOutputDir(opts.OutDir, opts.Overwrite); err != nil {
		return nil, err
	}
	for _, name := range sortedNames(art.files) {
		if err := os.WriteFile(filepath.Join(opts.OutDir, name), art.files[name], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
	}

	res := &Result{
		OutputDir:    opts.OutDir,
		AnalysisPath: filepath.Join(opts.OutDir, AnalysisFileName),
		SamplesPath:  filepath.Join(opts.OutDir, art.samplesName),
		SummaryPath:  filepath.Join(opts.OutDir, SummaryFileName),
		Warnings:     art.warnings,
		Analysis:     analysis,
	}
	if art.zonesName != "" {
		res.ZonesPath = filepath.Join(opts.OutDir, art.zonesName)
	}
	if opts.CopySource {
		res.SourceCopyPath = filepath.Join(opts.OutDir, SourceFileName)
	}
	return res, nil
}

// RunBytes is Run without a filesystem: artifacts are returned by name.
func RunBytes(opts BytesOptions) (*BytesResult, error) {
	if len(opts.FitData) == 0 {
		return nil, fmt.Errorf("fit data is required")
	}
	format, err := export.ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	cfg, err := analyzerConfig(opts.Signal)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(opts.SourceFileName)
	if name == "" {
		name = "input.fit"
	}

	analysis, err := fitzones.AnalyzeBytes(name, opts.FitData, cfg)
	if err != nil {
		return nil, fmt.Errorf("analyze fit file: %w", err)
	}
	var source []byte
	if opts.CopySource {
		source = append([]byte(nil), opts.FitData...)
	}
	art, err := buildArtifacts(analysis, format, opts.Fields, source)
	if err != nil {
		return nil, err
	}
	return &BytesResult{Files: art.files, Warnings: art.warnings, Analysis: analysis}, nil
}

type artifacts struct {
	files       map[string][]byte
	warnings    []string
	zonesName   string
	samplesName string
}

// buildArtifacts renders every artifact of a. A non-nil source is carried
// along as source.fit.
func buildArtifacts(a *fitzones.Analysis, format export.Format, fields []string, source []byte) (*artifacts, error) {
	s := a.Session()
	sel := export.DefaultSelection(s)
	if len(fields) > 0 {
		parsed, err := export.ParseSelection(fields)
		if err != nil {
			return nil, err
		}
		sel = parsed
	}

	art := &artifacts{files: make(map[string][]byte, 5)}

	analysisJSON, err := marshalJSON(a)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", AnalysisFileName, err)
	}
	art.files[AnalysisFileName] = analysisJSON

	if a.Estimate != nil {
		var buf bytes.Buffer
		if err := export.WriteZonesCSV(&buf, a.Bands); err != nil {
			return nil, fmt.Errorf("write zones csv: %w", err)
		}
		art.zonesName = export.ZonesFileName(a.Estimate)
		art.files[art.zonesName] = buf.Bytes()
	} else {
		art.warnings = append(art.warnings, fmt.Sprintf("threshold undefined: no %s values; zones omitted", a.Signal))
	}

	var samples bytes.Buffer
	switch format {
	case export.Parquet:
		err = export.WriteSamplesParquet(&samples, s, sel, a.Estimate)
	default:
		err = export.WriteSamplesCSV(&samples, s, sel, a.Estimate)
	}
	if err != nil {
		return nil, fmt.Errorf("write sample export: %w", err)
	}
	art.samplesName = export.SamplesFileName(s, format)
	art.files[art.samplesName] = samples.Bytes()

	for _, f := range sel.Columns(s) {
		if cov := coverageOf(a, f); cov != nil && cov.Present == 0 {
			art.warnings = append(art.warnings, fmt.Sprintf("column %s has no values", f))
		}
	}

	if source != nil {
		art.files[SourceFileName] = source
	}
	art.files[SummaryFileName] = []byte(buildTrainingSummaryMarkdown(a, art))
	return art, nil
}

func analyzerConfig(signal string) (fitzones.Config, error) {
	cfg := fitzones.DefaultConfig()
	signal = strings.TrimSpace(signal)
	if signal == "" {
		return cfg, nil
	}
	f, ok := telemetry.ParseField(signal)
	if !ok || !f.Numeric() {
		return cfg, fmt.Errorf("unsupported signal %q", signal)
	}
	cfg.Signal = f
	return cfg, nil
}

func coverageOf(a *fitzones.Analysis, f telemetry.Field) *telemetry.ColumnCoverage {
	for i := range a.Coverage {
		if a.Coverage[i].Field == f {
			return &a.Coverage[i]
		}
	}
	return nil
}

func buildTrainingSummaryMarkdown(a *fitzones.Analysis, art *artifacts) string {
	var b strings.Builder
	b.WriteString("# Training Summary\n\n")
	if a.Source != "" {
		fmt.Fprintf(&b, "Source: `%s`  \n", filepath.Base(a.Source))
	}
	fmt.Fprintf(&b, "Run: `%s`\n\n", a.RunID)
	b.WriteString("```text\n")
	b.WriteString(a.Notes)
	b.WriteString("\n```\n")

	b.WriteString("\n## Artifacts\n\n")
	for _, name := range sortedNames(art.files) {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	fmt.Fprintf(&b, "- %s\n", SummaryFileName)

	if len(art.warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range art.warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}

func ensureOutputDir(path string, overwrite bool) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}
	if len(entries) > 0 && !overwrite {
		return fmt.Errorf("output directory is not empty: %s (set overwrite=true to allow)", path)
	}
	return nil
}

func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortedNames(files map[string][]byte) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

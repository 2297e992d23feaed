package pipeline

import fitzones "github.com/lucasjlepore/fit-zones"

// Options configures the fit_analyze pipeline.
type Options struct {
	FitPath    string
	OutDir     string
	Format     string // csv|parquet
	Signal     string // telemetry field the threshold is estimated from
	Fields     []string
	Overwrite  bool
	CopySource bool
}

// Result returns generated output paths.
type Result struct {
	OutputDir      string             `json:"output_dir"`
	AnalysisPath   string             `json:"analysis_path"`
	ZonesPath      string             `json:"zones_path,omitempty"`
	SamplesPath    string             `json:"samples_path"`
	SummaryPath    string             `json:"summary_path"`
	SourceCopyPath string             `json:"source_copy_path,omitempty"`
	Warnings       []string           `json:"warnings,omitempty"`
	Analysis       *fitzones.Analysis `json:"-"`
}

// BytesOptions configures in-memory pipeline execution.
type BytesOptions struct {
	SourceFileName string
	FitData        []byte
	Format         string
	Signal         string
	Fields         []string
	CopySource     bool
}

// BytesResult holds the generated artifacts keyed by file name.
type BytesResult struct {
	Files    map[string][]byte  `json:"-"`
	Warnings []string           `json:"warnings,omitempty"`
	Analysis *fitzones.Analysis `json:"-"`
}

// Artifact names that do not depend on the session.
const (
	AnalysisFileName = "analysis.json"
	SummaryFileName  = "training_summary.md"
	SourceFileName   = "source.fit"
)

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasjlepore/fit-zones/config"
	"github.com/lucasjlepore/fit-zones/logger"
	"github.com/lucasjlepore/fit-zones/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	var (
		fitPath   = flag.String("fit", "", "Path to input .fit file")
		outDir    = flag.String("out", "", "Output directory")
		format    = flag.String("format", cfg.ExportFormat, "Sample export format: csv|parquet")
		signal    = flag.String("signal", cfg.Signal, "Telemetry field the threshold is estimated from")
		fields    = flag.String("fields", "", "Comma-separated sample columns (default: core fields)")
		overwrite = flag.Bool("overwrite", false, "Allow writing into non-empty output directories")
		copySrc   = flag.Bool("copy-source", false, "Copy the input file into the output directory")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --fit input.fit --out outdir [--format csv|parquet] [--fields timestamp,heart_rate]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if strings.TrimSpace(*fitPath) == "" || strings.TrimSpace(*outDir) == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := logger.InitWriter(os.Stderr); err == nil {
		_ = logger.SetLevelString(cfg.LogLevel)
	}

	var selected []string
	if *fields != "" {
		selected = strings.Split(*fields, ",")
	}
	result, err := pipeline.Run(pipeline.Options{
		FitPath:    *fitPath,
		OutDir:     *outDir,
		Format:     *format,
		Signal:     *signal,
		Fields:     selected,
		Overwrite:  *overwrite,
		CopySource: *copySrc,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "fit_analyze failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("fit_analyze complete\n")
	fmt.Printf("Output dir:          %s\n", result.OutputDir)
	fmt.Printf("analysis:            %s\n", result.AnalysisPath)
	if result.ZonesPath != "" {
		fmt.Printf("zones:               %s\n", result.ZonesPath)
	}
	fmt.Printf("samples:             %s\n", result.SamplesPath)
	fmt.Printf("training summary:    %s\n", result.SummaryPath)
	if result.SourceCopyPath != "" {
		fmt.Printf("source copy:         %s\n", result.SourceCopyPath)
	}
	for _, w := range result.Warnings {
		fmt.Printf("warning:             %s\n", w)
	}
}

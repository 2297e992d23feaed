package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	fitzones "github.com/lucasjlepore/fit-zones"
	"github.com/lucasjlepore/fit-zones/telemetry"
)

func main() {
	var (
		signal   = flag.String("signal", telemetry.FieldHeartRate.String(), "Telemetry field the threshold is estimated from")
		jsonOut  = flag.Bool("json", false, "Emit full analysis as JSON")
		showCols = flag.Bool("columns", false, "Include per-column coverage in text output")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <path-to-fit-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	f, ok := telemetry.ParseField(*signal)
	if !ok || !f.Numeric() {
		fmt.Fprintf(os.Stderr, "unsupported signal %q\n", *signal)
		os.Exit(2)
	}

	filePath := flag.Arg(0)
	analysis, err := fitzones.AnalyzeFile(filePath, fitzones.Config{Signal: f})
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(analysis); err != nil {
			fmt.Fprintf(os.Stderr, "json encode failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(analysis.Notes)
	if *showCols && len(analysis.Coverage) > 0 {
		fmt.Println()
		fmt.Println("Column Coverage")
		for _, c := range analysis.Coverage {
			fmt.Printf("- %-28s %6d samples | %5.1f%%\n", c.Field, c.Present, c.Percent)
		}
		if other := telemetry.Uncategorized(analysis.Columns); len(other) > 0 {
			fmt.Printf("Other fields: %v\n", other)
		}
	}
}

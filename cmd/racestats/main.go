package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lucasjlepore/fit-zones/config"
	"github.com/lucasjlepore/fit-zones/race"
)

type report struct {
	Event      string          `json:"event"`
	Categories []string        `json:"categories"`
	Summary    race.Summary    `json:"summary"`
	Projection race.Projection `json:"projection"`
	Standings  []race.Standing `json:"standings"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	var (
		dataset    = flag.String("dataset", cfg.DatasetDir, "Directory holding *_processed.csv results files")
		event      = flag.String("event", "", "Event label, e.g. \"Sprint (2024-06-15)\" (default: first listed)")
		categories = flag.String("category", "", "Comma-separated categories (default: all)")
		stat       = flag.String("stat", cfg.Statistic, "Reference-line statistic: mean|median")
		name       = flag.String("name", "", "Participant name to highlight")
		list       = flag.Bool("list", false, "List events and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [--dataset Dataset] [--event label] [--category a,b] [--stat mean|median] [--name who]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	statistic, err := race.ParseStatistic(*stat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	catalog, err := race.NewCatalog(context.Background(), os.DirFS(*dataset))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load dataset: %v\n", err)
		os.Exit(1)
	}
	events := catalog.Events()
	if *list {
		for _, e := range events {
			fmt.Printf("%s\t%s\n", e.Label, strings.Join(e.Categories, ", "))
		}
		return
	}
	if len(events) == 0 {
		fmt.Fprintf(os.Stderr, "no race results found in %s\n", *dataset)
		os.Exit(1)
	}

	label := *event
	if label == "" {
		label = events[0].Label
	}
	ev, err := catalog.Event(label)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	selected := ev.Categories()
	if *categories != "" {
		selected = selected[:0:0]
		for _, c := range strings.Split(*categories, ",") {
			if c = strings.TrimSpace(c); c != "" {
				selected = append(selected, c)
			}
		}
	}
	rows, ok := ev.Combine(selected...)
	if !ok {
		fmt.Fprintln(os.Stderr, "nothing to aggregate: no known category selected")
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report{
		Event:      ev.Label(),
		Categories: selected,
		Summary:    race.Summarize(rows),
		Projection: race.Project(rows, *name, statistic),
		Standings:  race.Standings(rows, *name),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "json encode failed: %v\n", err)
		os.Exit(1)
	}
}

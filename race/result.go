// Package race loads per-event triathlon result tables and derives summary
// statistics and a swim/run comparative projection from them.
package race

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Result is one participant's finish within a category.
type Result struct {
	Pos         int      `json:"pos"`
	BibNo       string   `json:"bib_no"`
	Name        string   `json:"name"`
	Country     string   `json:"country"`
	Category    string   `json:"category"`
	Swim        string   `json:"swim"`
	T1          string   `json:"t1"`
	Run         string   `json:"run"`
	Time        string   `json:"time"`
	SwimSeconds *float64 `json:"swim_seconds"`
	T1Seconds   *float64 `json:"t1_seconds"`
	RunSeconds  *float64 `json:"run_seconds"`
}

// Ranked reports whether Pos holds a finishing position.
func (r Result) Ranked() bool {
	return r.Pos > 0
}

// Column names of a processed results file.
const (
	colPos         = "Pos"
	colBibNo       = "Bib No"
	colName        = "Name"
	colCountry     = "Country"
	colSwim        = "Swim"
	colT1          = "T1"
	colRun         = "Run"
	colTime        = "Time"
	colSwimSeconds = "Swim_seconds"
	colT1Seconds   = "T1_seconds"
	colRunSeconds  = "Run_seconds"
)

// ParseResults reads one processed results CSV. Columns are located by
// header name; missing columns leave their fields empty. Every row is
// tagged with category, replacing any Category column in the file.
func ParseResults(r io.Reader, category string) ([]Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrMalformedResults, err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	get := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]Result, 0, 64)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedResults, line, err)
		}
		out = append(out, Result{
			Pos:         parsePos(get(row, colPos)),
			BibNo:       get(row, colBibNo),
			Name:        get(row, colName),
			Country:     get(row, colCountry),
			Category:    category,
			Swim:        get(row, colSwim),
			T1:          get(row, colT1),
			Run:         get(row, colRun),
			Time:        get(row, colTime),
			SwimSeconds: parseSeconds(get(row, colSwimSeconds)),
			T1Seconds:   parseSeconds(get(row, colT1Seconds)),
			RunSeconds:  parseSeconds(get(row, colRunSeconds)),
		})
	}
	return out, nil
}

func parsePos(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

func parseSeconds(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

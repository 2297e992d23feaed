package race

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"
)

// Statistic selects the central tendency used for reference lines.
type Statistic string

const (
	Mean   Statistic = "mean"
	Median Statistic = "median"
)

// ParseStatistic accepts "mean" or "median", case-insensitively. An empty
// string selects Mean.
func ParseStatistic(s string) (Statistic, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Mean):
		return Mean, nil
	case string(Median):
		return Median, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatistic, s)
}

// Prefix is the label prefix of the statistic ("Avg" or "Median").
func (s Statistic) Prefix() string {
	if s == Median {
		return "Median"
	}
	return "Avg"
}

// ColumnSummary aggregates one split column. Mean and Median are nil when
// the column has no usable values.
type ColumnSummary struct {
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
}

// Value returns the selected statistic.
func (c ColumnSummary) Value(stat Statistic) *float64 {
	if stat == Median {
		return c.Median
	}
	return c.Mean
}

// Summary holds the split statistics of a combined result set.
type Summary struct {
	Participants int           `json:"participants"`
	Swim         ColumnSummary `json:"swim"`
	T1           ColumnSummary `json:"t1"`
	Run          ColumnSummary `json:"run"`
}

// Summarize computes mean and median of each split over rows, skipping
// missing values in both numerator and denominator.
func Summarize(rows []Result) Summary {
	var swim, t1, run stats.Float64Data
	for _, r := range rows {
		if r.SwimSeconds != nil {
			swim = append(swim, *r.SwimSeconds)
		}
		if r.T1Seconds != nil {
			t1 = append(t1, *r.T1Seconds)
		}
		if r.RunSeconds != nil {
			run = append(run, *r.RunSeconds)
		}
	}
	return Summary{
		Participants: len(rows),
		Swim:         summarizeColumn(swim),
		T1:           summarizeColumn(t1),
		Run:          summarizeColumn(run),
	}
}

func summarizeColumn(data stats.Float64Data) ColumnSummary {
	out := ColumnSummary{Count: data.Len()}
	if mean, err := data.Mean(); err == nil {
		out.Mean = &mean
	}
	if median, err := data.Median(); err == nil {
		out.Median = &median
	}
	return out
}

package race

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasjlepore/fit-zones/metrics"
)

// Priority is the visual class of a projected point.
type Priority string

const (
	PriorityHighlight Priority = "highlight"
	PriorityGold      Priority = "gold"
	PrioritySilver    Priority = "silver"
	PriorityBronze    Priority = "bronze"
	PriorityDefault   Priority = "default"
)

// Style is the marker a renderer should draw for a point.
type Style struct {
	Color  string `json:"color"`
	Size   int    `json:"size"`
	Symbol string `json:"symbol"`
}

var priorityStyles = map[Priority]Style{
	PriorityHighlight: {Color: "#FF0000", Size: 15, Symbol: "star"},
	PriorityGold:      {Color: "#FFD700", Size: 12, Symbol: "circle"},
	PrioritySilver:    {Color: "#C0C0C0", Size: 12, Symbol: "circle"},
	PriorityBronze:    {Color: "#CD7F32", Size: 12, Symbol: "circle"},
	PriorityDefault:   {Color: "#1f77b4", Size: 8, Symbol: "circle"},
}

// StyleOf returns the marker style for p.
func StyleOf(p Priority) Style {
	if s, ok := priorityStyles[p]; ok {
		return s
	}
	return priorityStyles[PriorityDefault]
}

// Point is one participant on the swim/run plane. X or Y is nil when the
// corresponding split is missing; renderers drop such points.
type Point struct {
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Pos      int      `json:"pos"`
	Priority Priority `json:"priority"`
	Style    Style    `json:"style"`
	Hover    []string `json:"hover"`
}

// Orientation of a reference line.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// ReferenceLine marks the aggregate of one split. Value is nil when the
// split has no usable values.
type ReferenceLine struct {
	Orientation Orientation `json:"orientation"`
	Value       *float64    `json:"value"`
	Label       string      `json:"label"`
}

// Projection is the declarative swim versus run scatter.
type Projection struct {
	Statistic Statistic       `json:"statistic"`
	Points    []Point         `json:"points"`
	Lines     []ReferenceLine `json:"lines"`
}

// Project maps rows onto (Swim_seconds, Run_seconds). A row whose trimmed,
// lower-cased name equals the trimmed, lower-cased filter is highlighted;
// otherwise positions 1 to 3 get podium markers. Podium is keyed on the
// row's own Pos, so merged categories can show several golds.
func Project(rows []Result, filter string, stat Statistic) Projection {
	if stat != Median {
		stat = Mean
	}
	needle := normalizeName(filter)

	points := make([]Point, 0, len(rows))
	for _, r := range rows {
		p := priorityOf(r, needle)
		points = append(points, Point{
			X:        r.SwimSeconds,
			Y:        r.RunSeconds,
			Name:     r.Name,
			Category: r.Category,
			Pos:      r.Pos,
			Priority: p,
			Style:    StyleOf(p),
			Hover:    hoverLines(r),
		})
	}

	summary := Summarize(rows)
	run := summary.Run.Value(stat)
	swim := summary.Swim.Value(stat)
	metrics.RecordProjection(string(stat))

	return Projection{
		Statistic: stat,
		Points:    points,
		Lines: []ReferenceLine{
			{Orientation: Horizontal, Value: run, Label: referenceLabel(stat, "Run", run)},
			{Orientation: Vertical, Value: swim, Label: referenceLabel(stat, "Swim", swim)},
		},
	}
}

func priorityOf(r Result, needle string) Priority {
	if needle != "" && normalizeName(r.Name) == needle {
		return PriorityHighlight
	}
	switch r.Pos {
	case 1:
		return PriorityGold
	case 2:
		return PrioritySilver
	case 3:
		return PriorityBronze
	}
	return PriorityDefault
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func referenceLabel(stat Statistic, split string, v *float64) string {
	return fmt.Sprintf("%s %s: %s (%s)", stat.Prefix(), split, formatSeconds(v), FormatClock(v))
}

func hoverLines(r Result) []string {
	pos := "N/A"
	if r.Ranked() {
		pos = strconv.Itoa(r.Pos)
	}
	return []string{
		r.Name,
		"Category: " + r.Category,
		"Position: " + pos,
		fmt.Sprintf("Swim: %s (%s)", r.Swim, rawSeconds(r.SwimSeconds)),
		fmt.Sprintf("T1: %s (%s)", r.T1, rawSeconds(r.T1Seconds)),
		fmt.Sprintf("Run: %s (%s)", r.Run, rawSeconds(r.RunSeconds)),
		"Total: " + r.Time,
	}
}

func rawSeconds(v *float64) string {
	if v == nil {
		return missingClock
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + "s"
}

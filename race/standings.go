package race

import (
	"sort"
	"strings"
)

// Standing is one row of the results table.
type Standing struct {
	Result
	SwimClock   string `json:"swim_clock"`
	T1Clock     string `json:"t1_clock"`
	RunClock    string `json:"run_clock"`
	Highlighted bool   `json:"highlighted"`
}

// Standings orders rows by Pos with unranked rows last, keeping input
// order among equals. Highlighted is set when the trimmed, lower-cased
// filter occurs anywhere in the row's name.
func Standings(rows []Result, filter string) []Standing {
	needle := normalizeName(filter)
	out := make([]Standing, 0, len(rows))
	for _, r := range rows {
		out = append(out, Standing{
			Result:      r,
			SwimClock:   FormatClock(r.SwimSeconds),
			T1Clock:     FormatClock(r.T1Seconds),
			RunClock:    FormatClock(r.RunSeconds),
			Highlighted: needle != "" && strings.Contains(normalizeName(r.Name), needle),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Ranked() != b.Ranked() {
			return a.Ranked()
		}
		return a.Pos < b.Pos
	})
	return out
}

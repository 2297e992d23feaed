package race

import (
	"fmt"
	"math"
)

const missingClock = "N/A"

// FormatClock renders seconds as HH:MM:SS, truncating fractions. Missing
// values render as N/A.
func FormatClock(seconds *float64) string {
	if seconds == nil || math.IsNaN(*seconds) || math.IsInf(*seconds, 0) {
		return missingClock
	}
	s := *seconds
	h := int(math.Floor(s / 3600))
	m := int(math.Floor(floorMod(s, 3600) / 60))
	sec := int(floorMod(s, 60))
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}

// floorMod is x mod y with the sign of y, so negative splits borrow from
// the hour: -30s is -1:59:30.
func floorMod(x, y float64) float64 {
	r := math.Mod(x, y)
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return r
}

func formatSeconds(seconds *float64) string {
	if seconds == nil {
		return missingClock
	}
	return fmt.Sprintf("%.0fs", *seconds)
}

package fitzones

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasjlepore/fit-zones/zones"
)

// BuildNotes turns an analysis into a plain-text training summary.
func BuildNotes(a *Analysis) string {
	if a == nil {
		return ""
	}

	var b strings.Builder

	if !a.StartTime.IsZero() {
		fmt.Fprintf(&b, "Start: %s\n", a.StartTime.UTC().Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(
		&b,
		"Duration %s | Samples %d | Columns %d\n",
		formatDuration(a.ElapsedSeconds),
		a.Samples,
		len(a.Columns),
	)

	if s := a.Summary; s != nil {
		fmt.Fprintf(&b, "%s %.0f avg / %.0f min / %.0f max\n", signalTitle(a), s.Mean, s.Min, s.Max)
	}

	est := a.Estimate
	if est == nil {
		fmt.Fprintf(&b, "Threshold unavailable (no %s values in the session)\n", a.Signal)
		return strings.TrimSpace(b.String())
	}
	window := "last 20 min"
	if est.WindowFallback {
		window = "whole session"
	}
	fmt.Fprintf(
		&b,
		"Threshold %.0f (95%% of %.1f avg over %s, %d samples)\n",
		est.Threshold,
		est.WindowMean,
		window,
		est.WindowSamples,
	)
	if est.DurationMinutes < zones.TrailingWindow.Minutes() {
		fmt.Fprintf(&b, "Session is only %.1f min long; the estimate is less reliable than a full 20 min effort.\n", est.DurationMinutes)
	}

	if len(a.Bands) > 0 {
		b.WriteString("\nZones\n")
		for _, band := range a.Bands {
			fmt.Fprintf(&b, "- %s %s: %d-%d (%s)\n", band.ID, band.Label, band.Low, band.High, band.Percentage)
		}
	}

	if len(a.Distribution) > 0 {
		b.WriteString("\nTime in Zone\n")
		for _, bucket := range a.Distribution {
			if bucket.Samples == 0 {
				continue
			}
			fmt.Fprintf(&b, "- %s: %d samples (%.1f%%)\n", bucket.Label, bucket.Samples, bucket.Percent)
		}
	}

	b.WriteString("\nAssessment\n- ")
	b.WriteString(zoneAssessment(a))
	b.WriteByte('\n')

	return strings.TrimSpace(b.String())
}

func signalTitle(a *Analysis) string {
	name := strings.ReplaceAll(a.Signal.String(), "_", " ")
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// zoneAssessment names the band that held the most samples.
func zoneAssessment(a *Analysis) string {
	best := zones.Bucket{}
	for _, bucket := range a.Distribution {
		if bucket.Label == zones.NoData {
			continue
		}
		if bucket.Samples > best.Samples {
			best = bucket
		}
	}
	if best.Samples == 0 {
		return "No classified samples."
	}
	switch best.Label {
	case "Z1", "Z2":
		return fmt.Sprintf("Mostly %s (%.0f%%): an aerobic session that supports base development.", best.Label, best.Percent)
	case "Z3":
		return fmt.Sprintf("Mostly %s (%.0f%%): steady tempo work.", best.Label, best.Percent)
	case "Z4", "Z5":
		return fmt.Sprintf("Mostly %s (%.0f%%): a hard session near or above threshold; plan recovery.", best.Label, best.Percent)
	}
	return fmt.Sprintf("Mostly %s (%.0f%%).", best.Label, best.Percent)
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "0s"
	}
	s := int(math.Round(seconds))
	h := s / 3600
	m := (s % 3600) / 60
	sec := s % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, sec)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, sec)
	}
	return fmt.Sprintf("%ds", sec)
}

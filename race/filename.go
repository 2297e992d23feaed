package race

import (
	"path"
	"regexp"
	"strings"
	"time"
)

const (
	processedSuffix       = "_processed"
	resultFileGlob        = "*" + processedSuffix + ".csv"
	doubleProcessedSuffix = processedSuffix + processedSuffix + ".csv"
	fileDateLayout        = "20060102"
	labelDateLayout       = "2006-01-02"
)

var fileNamePattern = regexp.MustCompile(`^(.+)_(\d{8})_(.+)$`)

// FileKey identifies the event and category a results file belongs to.
type FileKey struct {
	Event    string
	Date     time.Time
	Category string
}

// Label renders the event key as "<Event> (<YYYY-MM-DD>)".
func (k FileKey) Label() string {
	return EventLabel(k.Event, k.Date)
}

// EventLabel renders an event name and date as "<Name> (<YYYY-MM-DD>)".
func EventLabel(name string, date time.Time) string {
	return name + " (" + date.Format(labelDateLayout) + ")"
}

// ParseFileName splits "<Event>_<YYYYMMDD>_<Category>_processed.csv" into
// its parts. Names that do not follow the convention, double-processed
// files, and impossible dates report ok=false.
func ParseFileName(name string) (FileKey, bool) {
	base := path.Base(name)
	if !strings.HasSuffix(base, processedSuffix+".csv") || strings.HasSuffix(base, doubleProcessedSuffix) {
		return FileKey{}, false
	}
	stem := strings.TrimSuffix(base, ".csv")
	stem = strings.ReplaceAll(stem, processedSuffix, "")

	m := fileNamePattern.FindStringSubmatch(stem)
	if m == nil {
		return FileKey{}, false
	}
	date, err := time.Parse(fileDateLayout, m[2])
	if err != nil {
		return FileKey{}, false
	}
	return FileKey{Event: m[1], Date: date, Category: m[3]}, true
}

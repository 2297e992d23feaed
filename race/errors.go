package race

import "errors"

// Sentinel errors for race result lookups.
var (
	ErrEventNotFound    = errors.New("event not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrUnknownStatistic = errors.New("unknown statistic")
	ErrMalformedResults = errors.New("malformed results file")
)

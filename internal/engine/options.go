package engine

import (
	"runtime"
	"strconv"
	"time"
)

// Option limits. Out-of-range values are clamped and reported through
// a warning OptionError rather than rejected.
const (
	MinTimeLimitMs = 100
	MaxTimeLimitMs = 1_000_000
	MinThreadCount = 1
	MinSearchDepth = 1
	MaxSearchDepth = 60
)

// SearchOptions configures a search run.
type SearchOptions struct {
	TimeLimit   time.Duration
	ThreadCount int
	SearchDepth int
}

// DefaultSearchOptions returns the documented defaults: 5 seconds,
// all hardware threads, depth 10.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		TimeLimit:   5000 * time.Millisecond,
		ThreadCount: runtime.NumCPU(),
		SearchDepth: 10,
	}
}

func clamp(v, lo, hi int) (int, bool) {
	switch {
	case v < lo:
		return lo, true
	case v > hi:
		return hi, true
	}
	return v, false
}

// Set assigns a named option from text. Unknown names and non-numeric
// values fail with an OptionError; out-of-range values are clamped and
// reported with a warning OptionError while still taking effect.
func (o *SearchOptions) Set(name, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		switch name {
		case "TimeLimit", "ThreadCount", "SearchDepth":
			return &OptionError{Name: name, Value: value, Reason: "numeric value expected"}
		}
		return &OptionError{Name: name, Value: value, Reason: "unknown option"}
	}

	switch name {
	case "TimeLimit":
		ms, clamped := clamp(n, MinTimeLimitMs, MaxTimeLimitMs)
		o.TimeLimit = time.Duration(ms) * time.Millisecond
		if clamped {
			return &OptionError{Name: name, Value: value, Reason: "out of range", Warning: true}
		}
	case "ThreadCount":
		t, clamped := clamp(n, MinThreadCount, runtime.NumCPU())
		o.ThreadCount = t
		if clamped {
			return &OptionError{Name: name, Value: value, Reason: "out of range", Warning: true}
		}
	case "SearchDepth":
		d, clamped := clamp(n, MinSearchDepth, MaxSearchDepth)
		o.SearchDepth = d
		if clamped {
			return &OptionError{Name: name, Value: value, Reason: "out of range", Warning: true}
		}
	default:
		return &OptionError{Name: name, Value: value, Reason: "unknown option"}
	}
	return nil
}

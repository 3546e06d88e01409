package engine

import (
	"errors"
	"runtime"
	"testing"
	"time"
)

func TestDefaultSearchOptions(t *testing.T) {
	opts := DefaultSearchOptions()
	if opts.TimeLimit != 5*time.Second {
		t.Errorf("TimeLimit = %v, want 5s", opts.TimeLimit)
	}
	if opts.ThreadCount != runtime.NumCPU() {
		t.Errorf("ThreadCount = %d, want %d", opts.ThreadCount, runtime.NumCPU())
	}
	if opts.SearchDepth != 10 {
		t.Errorf("SearchDepth = %d, want 10", opts.SearchDepth)
	}
}

func TestOptionSet(t *testing.T) {
	var opts SearchOptions

	if err := opts.Set("TimeLimit", "250"); err != nil {
		t.Errorf("Set(TimeLimit, 250): %v", err)
	}
	if opts.TimeLimit != 250*time.Millisecond {
		t.Errorf("TimeLimit = %v, want 250ms", opts.TimeLimit)
	}

	if err := opts.Set("SearchDepth", "15"); err != nil {
		t.Errorf("Set(SearchDepth, 15): %v", err)
	}
	if opts.SearchDepth != 15 {
		t.Errorf("SearchDepth = %d, want 15", opts.SearchDepth)
	}
}

// TestOptionClamping checks that out-of-range values take effect
// clamped and still report a warning.
func TestOptionClamping(t *testing.T) {
	tests := []struct {
		name, value string
		check       func(SearchOptions) bool
	}{
		{"TimeLimit", "5", func(o SearchOptions) bool { return o.TimeLimit == MinTimeLimitMs*time.Millisecond }},
		{"TimeLimit", "9999999", func(o SearchOptions) bool { return o.TimeLimit == MaxTimeLimitMs*time.Millisecond }},
		{"SearchDepth", "0", func(o SearchOptions) bool { return o.SearchDepth == MinSearchDepth }},
		{"SearchDepth", "200", func(o SearchOptions) bool { return o.SearchDepth == MaxSearchDepth }},
		{"ThreadCount", "-1", func(o SearchOptions) bool { return o.ThreadCount == MinThreadCount }},
	}

	for _, tc := range tests {
		var opts SearchOptions
		err := opts.Set(tc.name, tc.value)

		var oe *OptionError
		if !errors.As(err, &oe) || !oe.Warning {
			t.Errorf("Set(%s, %s): err = %v, want warning OptionError", tc.name, tc.value, err)
			continue
		}
		if !tc.check(opts) {
			t.Errorf("Set(%s, %s) did not clamp into range", tc.name, tc.value)
		}
	}
}

func TestOptionErrors(t *testing.T) {
	var opts SearchOptions

	tests := []struct {
		name, value string
	}{
		{"Contempt", "10"},
		{"TimeLimit", "fast"},
		{"SearchDepth", ""},
	}

	for _, tc := range tests {
		err := opts.Set(tc.name, tc.value)
		var oe *OptionError
		if !errors.As(err, &oe) {
			t.Errorf("Set(%s, %q): err = %v, want OptionError", tc.name, tc.value, err)
			continue
		}
		if oe.Warning {
			t.Errorf("Set(%s, %q) reported a warning, want a hard error", tc.name, tc.value)
		}
	}
}

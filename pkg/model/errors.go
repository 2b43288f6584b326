package model

import (
	"errors"
	"fmt"
)

// ErrEmptyTrace is returned when normalization produced zero usable
// intervals. Fatal to the current load; the host surfaces it as a
// user-visible "no valid data" message.
var ErrEmptyTrace = errors.New("trace contains no valid records")

// InvalidFilterConfigError reports a filter configuration rejected at the
// boundary. The previous valid configuration stays active.
type InvalidFilterConfigError struct {
	Reason string
}

func (e *InvalidFilterConfigError) Error() string {
	return "invalid filter config: " + e.Reason
}

// LoadError wraps a fetch or parse failure for one source. Fatal to the
// current load, recoverable at the system level: a previously rendered trace
// stays visible.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load failed: %v", e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

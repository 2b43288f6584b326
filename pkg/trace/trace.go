// Package trace reconstructs canonical interval timelines from raw trace
// records. It is the only producer of the canonical interval list: a Trace is
// built once per load, published immutable, and replaced wholesale when a new
// payload arrives. Per-record problems (missing fields, unmatched events) are
// absorbed here as warnings and never escape as errors.
package trace

import (
	"fmt"

	"github.com/vanderheijden86/tracelane/pkg/classify"
	"github.com/vanderheijden86/tracelane/pkg/debug"
	"github.com/vanderheijden86/tracelane/pkg/model"
	"github.com/vanderheijden86/tracelane/pkg/timefmt"
)

// DefaultSyntheticSpan is the fallback duration, in canonical units, given to
// an interval whose end never arrived. Arbitrary by nature; override it via
// Options when the trace's scale makes 100 units meaningless.
const DefaultSyntheticSpan = 100

// Options configures normalization.
type Options struct {
	// Unit is the canonical time base of the source. Defaults to nanoseconds.
	Unit model.Unit

	// SyntheticSpan is the display duration assigned to unmatched begin
	// events. Zero means DefaultSyntheticSpan.
	SyntheticSpan int64

	// Warn receives diagnostics for skipped records and dropped events.
	// Defaults to the package debug logger.
	Warn func(msg string)
}

func (o Options) withDefaults() Options {
	if o.SyntheticSpan <= 0 {
		o.SyntheticSpan = DefaultSyntheticSpan
	}
	if o.Warn == nil {
		o.Warn = func(msg string) { debug.Log("normalize: %s", msg) }
	}
	return o
}

// Trace is one normalized trace: the canonical interval list plus the
// derived inventory the host needs to drive filtering. Immutable once
// returned.
type Trace struct {
	Intervals  []*model.Interval
	Unit       model.Unit
	Categories []string // distinct, first appearance order
	MinTime    int64
	MaxTime    int64
}

// Span returns the full wall-time extent of the trace in canonical units.
func (t *Trace) Span() int64 {
	return t.MaxTime - t.MinTime
}

// TotalDuration sums the durations of all intervals, skipping ongoing ones
// whose synthesized span would pollute the total.
func (t *Trace) TotalDuration() int64 {
	var total int64
	for _, iv := range t.Intervals {
		if iv.Ongoing {
			continue
		}
		total += iv.Duration
	}
	return total
}

// finish derives the per-trace inventory and seals the trace. intervals must
// already be in canonical (input) order.
func finish(intervals []*model.Interval, unit model.Unit) (*Trace, error) {
	if len(intervals) == 0 {
		return nil, model.ErrEmptyTrace
	}
	tr := &Trace{
		Intervals:  intervals,
		Unit:       unit,
		Categories: classify.Categories(intervals),
		MinTime:    intervals[0].Start,
		MaxTime:    intervals[0].End,
	}
	for _, iv := range intervals[1:] {
		if iv.Start < tr.MinTime {
			tr.MinTime = iv.Start
		}
		if iv.End > tr.MaxTime {
			tr.MaxTime = iv.End
		}
	}
	return tr, nil
}

// occurrenceCounter hands out 1-based per-name occurrence numbers in the
// order names are seen.
type occurrenceCounter map[string]int

func (c occurrenceCounter) next(baseName string) int {
	c[baseName]++
	return c[baseName]
}

// newInterval fills the derived fields shared by both input forms.
func newInterval(baseName string, occurrence int, start, end int64, ongoing bool, unit model.Unit) *model.Interval {
	category, subtask := SplitName(baseName)
	iv := &model.Interval{
		BaseName:   baseName,
		Occurrence: occurrence,
		Category:   category,
		Subtask:    subtask,
		Start:      start,
		End:        end,
		Duration:   end - start,
		Ongoing:    ongoing,
		Colors:     classify.Lookup(category),
	}
	iv.DisplayName = fmt.Sprintf("%s #%d (%s)", baseName, occurrence, timefmt.Adaptive(iv.Duration, unit))
	return iv
}

// SplitName splits a task name into its category prefix and subtask. The
// prefix is everything before the first underscore; a name without a
// separator is its own category with an empty subtask (a convention, not a
// guarantee). An empty name maps to the UNKNOWN category.
func SplitName(baseName string) (category, subtask string) {
	if baseName == "" {
		return classify.UnknownCategory, ""
	}
	for i := 0; i < len(baseName); i++ {
		if baseName[i] == '_' {
			return baseName[:i], baseName[i+1:]
		}
	}
	return baseName, ""
}

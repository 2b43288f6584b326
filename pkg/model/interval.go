// Package model defines the canonical data model shared by every tracelane
// engine package: raw input records, normalized intervals, and the filter
// configuration the host feeds back into the engine.
package model

// Unit is the canonical time base of a loaded trace. All interval arithmetic
// happens in this unit; it is only interpreted when formatting for display.
type Unit int

const (
	// UnitNanos is used when the source carries nanosecond resolution.
	UnitNanos Unit = iota
	// UnitMicros is the fallback when the source only has microseconds.
	UnitMicros
)

// String returns the unit suffix used in formatted output.
func (u Unit) String() string {
	if u == UnitMicros {
		return "µs"
	}
	return "ns"
}

// RawRecord is one task record as it arrived from the payload, before
// normalization. Start, Duration and End are pointers so that an absent field
// is distinguishable from an explicit zero; Extra carries unrecognized fields
// verbatim for downstream consumers (tooltips) and is never interpreted here.
type RawRecord struct {
	Name     string         `json:"name"`
	Start    *float64       `json:"start,omitempty"`
	Duration *float64       `json:"duration,omitempty"`
	End      *float64       `json:"end,omitempty"`
	Extra    map[string]any `json:"-"`
}

// EventAction discriminates begin/end entries in the event-stream form.
type EventAction int

const (
	ActionBegin EventAction = 0
	ActionEnd   EventAction = 1
)

// Event is one entry of the compact event-stream payload: a begin or end
// marker for the task at TaskIndex, Offset canonical units after the stream
// epoch.
type Event struct {
	TaskIndex int
	Action    EventAction
	Offset    int64
}

// EventStream is the event-form payload: a shared epoch, a task table, and
// the raw begin/end markers. Colors are optional hints from the source and
// may be shorter than Tasks.
type EventStream struct {
	Epoch  int64
	Tasks  []string
	Colors []string
	Events []Event
}

// ColorScheme is the classifier-assigned color triple for one interval.
// Values are hex strings like "#4e79a7".
type ColorScheme struct {
	Primary   string
	Secondary string
	Border    string
}

// Interval is the canonical normalized representation of one task execution
// span. Times are int64 in the trace's canonical unit and satisfy
// End >= Start and Duration == End-Start. Intervals are immutable once the
// normalizer publishes them.
type Interval struct {
	// BaseName is the task name as given, "<CATEGORY>_<subtask>" by
	// convention.
	BaseName string
	// Occurrence is the 1-based count of earlier intervals sharing BaseName,
	// in input order. Disambiguates repeated task names deterministically.
	Occurrence int
	// DisplayName is the human-facing label (base name, occurrence, formatted
	// duration). Presentation only; never used for matching or filtering.
	DisplayName string
	// Category is the text before the first underscore of BaseName, or the
	// whole name when there is no separator. "UNKNOWN" when the name was
	// missing.
	Category string
	// Subtask is the text after the first underscore, empty when none.
	Subtask string

	Start    int64
	End      int64
	Duration int64

	// Ongoing marks an interval whose end never arrived (unmatched begin).
	// Its End is synthesized from the configured fallback span and aggregation
	// may exclude it from duration totals.
	Ongoing bool

	// Original is the raw record this interval was built from, retained
	// verbatim for downstream consumers. Zero value for event-form intervals.
	Original RawRecord

	Colors ColorScheme
}

// Overlaps reports whether the interval intersects the half-open window
// [windowStart, windowEnd). Partial overlap counts; containment is not
// required.
func (iv *Interval) Overlaps(windowStart, windowEnd int64) bool {
	return iv.Start < windowEnd && iv.End > windowStart
}

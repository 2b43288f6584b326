// Package chart turns filtered intervals into the records the external
// plotting layer consumes, and renders static Gantt snapshots (SVG or PNG)
// for export. The engine never holds the drawing resource; it only emits
// data, and the snapshot renderer owns its canvas for the duration of one
// render.
package chart

import (
	"github.com/vanderheijden86/tracelane/pkg/model"
	"github.com/vanderheijden86/tracelane/pkg/timefmt"
)

// Custom is the tooltip payload attached to each chart record.
type Custom struct {
	Duration          int64
	Category          string
	Subtask           string
	FormattedStart    string
	FormattedEnd      string
	FormattedDuration string
}

// Record is one horizontal bar: X spans [start, end] in canonical units, Y
// is the row label.
type Record struct {
	X               [2]int64
	Y               string
	BackgroundColor string
	BorderColor     string
	Custom          Custom
}

// BuildRecords converts a displayed interval set into chart records,
// preserving order. span is the visible time range and drives the precision
// of the formatted axis-aligned timestamps.
func BuildRecords(intervals []*model.Interval, unit model.Unit, span int64) []Record {
	out := make([]Record, len(intervals))
	for i, iv := range intervals {
		out[i] = Record{
			X:               [2]int64{iv.Start, iv.End},
			Y:               iv.DisplayName,
			BackgroundColor: iv.Colors.Primary,
			BorderColor:     iv.Colors.Border,
			Custom: Custom{
				Duration:          iv.Duration,
				Category:          iv.Category,
				Subtask:           iv.Subtask,
				FormattedStart:    timefmt.Fixed(iv.Start, unit, timefmt.TargetMinutes, span),
				FormattedEnd:      timefmt.Fixed(iv.End, unit, timefmt.TargetMinutes, span),
				FormattedDuration: timefmt.Adaptive(iv.Duration, unit),
			},
		}
	}
	return out
}

package trace

import (
	"fmt"
	"sort"

	"github.com/vanderheijden86/tracelane/pkg/model"
)

// Normalize converts duration-form records into a canonical trace. Output
// order is input order; intervals are NOT sorted by time.
//
// Records without an explicit start are serialized back-to-back behind a
// running cursor, for sources that omit absolute timestamps. Records missing
// both a duration and an end are skipped with a warning rather than aborting
// the trace.
func Normalize(records []model.RawRecord, opts Options) (*Trace, error) {
	opts = opts.withDefaults()

	intervals := make([]*model.Interval, 0, len(records))
	occurrences := make(occurrenceCounter)
	var cursor int64

	for i, rec := range records {
		start, end, ok := resolveTimes(rec, cursor)
		if !ok {
			opts.Warn(fmt.Sprintf("skipping record %d (%q): no duration or end", i, rec.Name))
			continue
		}
		if end < start {
			opts.Warn(fmt.Sprintf("skipping record %d (%q): end %d before start %d", i, rec.Name, end, start))
			continue
		}
		if rec.Start == nil {
			// Only implicit starts advance the cursor; explicit timestamps
			// describe their own position on the timeline.
			cursor = end
		}

		name := rec.Name
		iv := newInterval(name, occurrences.next(name), start, end, false, opts.Unit)
		iv.Original = rec
		intervals = append(intervals, iv)
	}

	return finish(intervals, opts.Unit)
}

// resolveTimes computes the canonical start/end of a duration-form record.
// Precedence: explicit end wins over duration; an absent start falls back to
// the running cursor.
func resolveTimes(rec model.RawRecord, cursor int64) (start, end int64, ok bool) {
	if rec.Start != nil {
		start = int64(*rec.Start)
	} else {
		start = cursor
	}
	switch {
	case rec.End != nil:
		return start, int64(*rec.End), true
	case rec.Duration != nil:
		return start, start + int64(*rec.Duration), true
	default:
		return 0, 0, false
	}
}

// NormalizeEvents reconstructs intervals from a begin/end event stream.
//
// Events are processed in absolute-time order (epoch + offset, stable sort so
// simultaneous events keep stream order). A begin opens an interval for its
// task; a begin on a task that is already open force-closes the previous
// interval at the new begin time, which protects against malformed traces
// with two consecutive begins. An end closes the most recent open interval
// for its task; an end with nothing open is dropped with a diagnostic.
// Intervals still open when the stream runs out are marked ongoing and given
// a synthetic span so they remain displayable.
func NormalizeEvents(stream model.EventStream, opts Options) (*Trace, error) {
	opts = opts.withDefaults()

	events := make([]model.Event, len(stream.Events))
	copy(events, stream.Events)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Offset < events[j].Offset
	})

	// One open interval per task at a time; force-close guarantees it.
	type openSpan struct {
		slot  int // index into intervals
		start int64
	}
	open := make(map[int]*openSpan)

	var intervals []*model.Interval
	occurrences := make(occurrenceCounter)

	closeAt := func(taskIndex int, end int64, ongoing bool) {
		span := open[taskIndex]
		delete(open, taskIndex)
		name := stream.Tasks[taskIndex]
		iv := newInterval(name, intervals[span.slot].Occurrence, span.start, end, ongoing, opts.Unit)
		intervals[span.slot] = iv
	}

	for _, ev := range events {
		if ev.TaskIndex < 0 || ev.TaskIndex >= len(stream.Tasks) {
			opts.Warn(fmt.Sprintf("dropping event for unknown task index %d", ev.TaskIndex))
			continue
		}
		at := stream.Epoch + ev.Offset
		name := stream.Tasks[ev.TaskIndex]

		switch ev.Action {
		case model.ActionBegin:
			if _, ok := open[ev.TaskIndex]; ok {
				opts.Warn(fmt.Sprintf("task %q: begin while already open, force-closing previous interval", name))
				closeAt(ev.TaskIndex, at, false)
			}
			// Reserve the slot now so canonical order is begin order; the
			// placeholder is replaced when the interval closes.
			slot := len(intervals)
			intervals = append(intervals, newInterval(name, occurrences.next(name), at, at, true, opts.Unit))
			open[ev.TaskIndex] = &openSpan{slot: slot, start: at}

		case model.ActionEnd:
			if _, ok := open[ev.TaskIndex]; !ok {
				opts.Warn(fmt.Sprintf("task %q: end with no open interval, dropping", name))
				continue
			}
			closeAt(ev.TaskIndex, at, false)

		default:
			opts.Warn(fmt.Sprintf("task %q: unknown action %d, dropping", name, ev.Action))
		}
	}

	// Whatever is left open never ended: synthesize a span so the interval
	// stays visible, and flag it so aggregation can exclude it.
	for taskIndex, span := range open {
		closeAt(taskIndex, span.start+opts.SyntheticSpan, true)
	}

	return finish(intervals, opts.Unit)
}

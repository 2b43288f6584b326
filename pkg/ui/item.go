package ui

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/tracelane/pkg/model"
	"github.com/vanderheijden86/tracelane/pkg/timefmt"
)

// IntervalItem wraps a canonical interval to implement list.Item for the
// legend list.
type IntervalItem struct {
	Interval *model.Interval
	Unit     model.Unit
}

func (i IntervalItem) Title() string {
	return i.Interval.DisplayName
}

func (i IntervalItem) Description() string {
	return fmt.Sprintf("%s • %s", i.Interval.Category, timefmt.Adaptive(i.Interval.Duration, i.Unit))
}

// FilterValue feeds the list's fuzzy filter: display name plus category and
// subtask so typing either narrows the legend.
func (i IntervalItem) FilterValue() string {
	var sb strings.Builder
	sb.WriteString(i.Interval.DisplayName)
	sb.WriteString(" ")
	sb.WriteString(i.Interval.Category)
	if i.Interval.Subtask != "" {
		sb.WriteString(" ")
		sb.WriteString(i.Interval.Subtask)
	}
	return sb.String()
}

// ClipboardText renders the interval as a single line suitable for yanking.
func (i IntervalItem) ClipboardText() string {
	iv := i.Interval
	state := ""
	if iv.Ongoing {
		state = " (running)"
	}
	return fmt.Sprintf("%s  %s → %s  dur %s%s",
		iv.DisplayName,
		timefmt.Adaptive(iv.Start, i.Unit),
		timefmt.Adaptive(iv.End, i.Unit),
		timefmt.Adaptive(iv.Duration, i.Unit),
		state)
}

// buildItems wraps intervals for the legend list.
func buildItems(intervals []*model.Interval, unit model.Unit) []IntervalItem {
	items := make([]IntervalItem, len(intervals))
	for i, iv := range intervals {
		items[i] = IntervalItem{Interval: iv, Unit: unit}
	}
	return items
}

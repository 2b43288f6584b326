package ui

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/tracelane/pkg/model"
	"github.com/vanderheijden86/tracelane/pkg/timefmt"
)

// timelineLabelWidth is the fixed label gutter on the left of the plot.
const timelineLabelWidth = 28

// timelineTickCount is the number of axis labels under the plot.
const timelineTickCount = 5

// TimelineModel renders the visible intervals as horizontal lanes scaled to
// the current window, one row per interval, with a time axis underneath.
type TimelineModel struct {
	theme Theme

	intervals []*model.Interval
	unit      model.Unit
	minTime   int64
	maxTime   int64

	cursor int // index into intervals
	offset int // first visible row

	width  int
	height int
}

// NewTimeline creates an empty timeline.
func NewTimeline(theme Theme) TimelineModel {
	return TimelineModel{theme: theme, width: 80, height: 20}
}

// SetIntervals replaces the displayed set, keeping the cursor in range.
func (tl *TimelineModel) SetIntervals(intervals []*model.Interval, unit model.Unit) {
	tl.intervals = intervals
	tl.unit = unit
	if len(intervals) == 0 {
		tl.cursor = 0
		tl.offset = 0
		return
	}
	tl.cursor = clampInt(tl.cursor, 0, len(intervals)-1)
	tl.clampOffset()
}

// SetRange sets the visible time window the lanes are scaled against.
func (tl *TimelineModel) SetRange(minTime, maxTime int64) {
	tl.minTime = minTime
	tl.maxTime = maxTime
}

// SetSize updates the rendering area in cells.
func (tl *TimelineModel) SetSize(width, height int) {
	tl.width = width
	tl.height = height
	tl.clampOffset()
}

// Len returns the number of displayed intervals.
func (tl TimelineModel) Len() int {
	return len(tl.intervals)
}

// Cursor returns the selected row index.
func (tl TimelineModel) Cursor() int {
	return tl.cursor
}

// Selected returns the interval under the cursor, or nil.
func (tl TimelineModel) Selected() *model.Interval {
	if tl.cursor < 0 || tl.cursor >= len(tl.intervals) {
		return nil
	}
	return tl.intervals[tl.cursor]
}

// CursorUp moves the selection one row up.
func (tl *TimelineModel) CursorUp() {
	tl.moveCursor(-1)
}

// CursorDown moves the selection one row down.
func (tl *TimelineModel) CursorDown() {
	tl.moveCursor(1)
}

// PageUp moves the selection one page up.
func (tl *TimelineModel) PageUp() {
	tl.moveCursor(-tl.laneRows())
}

// PageDown moves the selection one page down.
func (tl *TimelineModel) PageDown() {
	tl.moveCursor(tl.laneRows())
}

// GotoTop selects the first row.
func (tl *TimelineModel) GotoTop() {
	tl.cursor = 0
	tl.offset = 0
}

// GotoBottom selects the last row.
func (tl *TimelineModel) GotoBottom() {
	if len(tl.intervals) == 0 {
		return
	}
	tl.cursor = len(tl.intervals) - 1
	tl.clampOffset()
}

// SetCursor selects the given row, clamped to range.
func (tl *TimelineModel) SetCursor(i int) {
	if len(tl.intervals) == 0 {
		return
	}
	tl.cursor = clampInt(i, 0, len(tl.intervals)-1)
	tl.clampOffset()
}

func (tl *TimelineModel) moveCursor(delta int) {
	if len(tl.intervals) == 0 {
		return
	}
	tl.cursor = clampInt(tl.cursor+delta, 0, len(tl.intervals)-1)
	tl.clampOffset()
}

// laneRows returns how many interval rows fit above the axis.
func (tl TimelineModel) laneRows() int {
	rows := tl.height - 2 // axis line + tick labels
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (tl *TimelineModel) clampOffset() {
	rows := tl.laneRows()
	if tl.cursor < tl.offset {
		tl.offset = tl.cursor
	}
	if tl.cursor >= tl.offset+rows {
		tl.offset = tl.cursor - rows + 1
	}
	if tl.offset < 0 {
		tl.offset = 0
	}
}

// View renders the lanes and the time axis.
func (tl TimelineModel) View() string {
	if len(tl.intervals) == 0 {
		return tl.theme.MutedText.Render("No intervals in the current view.")
	}

	plotWidth := tl.width - timelineLabelWidth - 1
	if plotWidth < 10 {
		plotWidth = 10
	}

	span := tl.maxTime - tl.minTime
	if span <= 0 {
		span = 1
	}
	cell := func(t int64) int {
		c := int(float64(t-tl.minTime) / float64(span) * float64(plotWidth))
		return clampInt(c, 0, plotWidth)
	}

	var sb strings.Builder
	rows := tl.laneRows()
	end := tl.offset + rows
	if end > len(tl.intervals) {
		end = len(tl.intervals)
	}

	for i := tl.offset; i < end; i++ {
		iv := tl.intervals[i]

		label := padRight(truncate(iv.DisplayName, timelineLabelWidth-1), timelineLabelWidth)
		if i == tl.cursor {
			label = tl.theme.PrimaryBold.Render(label)
		} else {
			label = tl.theme.CategoryStyle(iv.Category).Render(label)
		}

		from := cell(iv.Start)
		to := cell(iv.End)
		if to <= from {
			to = from + 1 // sub-cell intervals stay visible
		}
		if to > plotWidth {
			to = plotWidth
		}

		glyph := "█"
		if iv.Ongoing {
			glyph = "▒"
		}
		bar := strings.Repeat(" ", from) +
			tl.theme.CategoryStyle(iv.Category).Render(strings.Repeat(glyph, to-from))

		sb.WriteString(label)
		sb.WriteString(" ")
		sb.WriteString(bar)
		sb.WriteString("\n")
	}

	sb.WriteString(tl.renderAxis(plotWidth))
	return sb.String()
}

// renderAxis draws the baseline and tick labels in the window's fixed unit.
func (tl TimelineModel) renderAxis(plotWidth int) string {
	span := tl.maxTime - tl.minTime
	target := timefmt.TargetSeconds
	if tl.unit == model.UnitNanos && span >= 60_000_000_000 ||
		tl.unit == model.UnitMicros && span >= 60_000_000 {
		target = timefmt.TargetMinutes
	}

	base := strings.Repeat(" ", timelineLabelWidth+1) + strings.Repeat("─", plotWidth)

	labels := strings.Repeat(" ", timelineLabelWidth+1)
	step := plotWidth / timelineTickCount
	if step < 1 {
		step = 1
	}
	col := 0
	for i := 0; i <= timelineTickCount && col <= plotWidth; i++ {
		t := tl.minTime + int64(float64(span)*float64(col)/float64(plotWidth))
		label := timefmt.Fixed(t, tl.unit, target, span)
		pad := timelineLabelWidth + 1 + col - len(labels)
		if pad > 0 {
			labels += strings.Repeat(" ", pad)
		}
		labels += label
		col += step
	}

	return tl.theme.MutedText.Render(base) + "\n" +
		tl.theme.MutedText.Render(labels)
}

// StatusLine summarizes the selected interval for the status bar.
func (tl TimelineModel) StatusLine() string {
	iv := tl.Selected()
	if iv == nil {
		return ""
	}
	return fmt.Sprintf("%d/%d  %s", tl.cursor+1, len(tl.intervals), iv.DisplayName)
}

package ui

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/tracelane/pkg/model"
)

func testLanes() []*model.Interval {
	return []*model.Interval{
		testInterval("MAIN_boot", "MAIN", 0, 400, false),
		testInterval("ROM_load", "ROM", 400, 700, false),
		testInterval("MEM_scan", "MEM", 700, 1000, true),
	}
}

func newTestTimeline() TimelineModel {
	tl := NewTimeline(TestTheme())
	tl.SetIntervals(testLanes(), model.UnitNanos)
	tl.SetRange(0, 1000)
	tl.SetSize(100, 20)
	return tl
}

func TestTimelineCursorMovement(t *testing.T) {
	tl := newTestTimeline()

	if tl.Cursor() != 0 {
		t.Fatalf("initial cursor = %d", tl.Cursor())
	}

	tl.CursorDown()
	tl.CursorDown()
	if tl.Cursor() != 2 {
		t.Errorf("cursor = %d after two downs", tl.Cursor())
	}
	tl.CursorDown()
	if tl.Cursor() != 2 {
		t.Errorf("cursor moved past last row: %d", tl.Cursor())
	}
	tl.GotoTop()
	if tl.Cursor() != 0 {
		t.Errorf("GotoTop cursor = %d", tl.Cursor())
	}
	tl.GotoBottom()
	if tl.Cursor() != 2 {
		t.Errorf("GotoBottom cursor = %d", tl.Cursor())
	}
	tl.CursorUp()
	if tl.Cursor() != 1 {
		t.Errorf("CursorUp cursor = %d", tl.Cursor())
	}
}

func TestTimelineSelected(t *testing.T) {
	tl := newTestTimeline()
	tl.SetCursor(1)

	iv := tl.Selected()
	if iv == nil || iv.BaseName != "ROM_load" {
		t.Errorf("Selected() = %+v", iv)
	}
}

func TestTimelineSelectedEmpty(t *testing.T) {
	tl := NewTimeline(TestTheme())
	if tl.Selected() != nil {
		t.Error("Selected() on empty timeline should be nil")
	}
}

func TestTimelineViewContainsNames(t *testing.T) {
	tl := newTestTimeline()
	out := tl.View()

	for _, name := range []string{"MAIN_boot", "ROM_load", "MEM_scan"} {
		if !strings.Contains(out, name) {
			t.Errorf("view missing lane %q", name)
		}
	}
}

func TestTimelineViewEmpty(t *testing.T) {
	tl := NewTimeline(TestTheme())
	out := tl.View()
	if !strings.Contains(out, "No intervals") {
		t.Errorf("empty view = %q", out)
	}
}

func TestTimelineScrollFollowsCursor(t *testing.T) {
	intervals := make([]*model.Interval, 50)
	for i := range intervals {
		intervals[i] = testInterval("MAIN_t", "MAIN", int64(i*10), int64(i*10+5), false)
	}

	tl := NewTimeline(TestTheme())
	tl.SetIntervals(intervals, model.UnitNanos)
	tl.SetRange(0, 500)
	tl.SetSize(100, 10)

	tl.GotoBottom()
	if tl.Cursor() != 49 {
		t.Fatalf("cursor = %d", tl.Cursor())
	}
	// Offset must have moved so the cursor row is visible.
	if tl.offset > tl.Cursor() || tl.Cursor() >= tl.offset+tl.laneRows() {
		t.Errorf("cursor %d not within visible window [%d, %d)", tl.Cursor(), tl.offset, tl.offset+tl.laneRows())
	}
}

func TestTimelineStatusLine(t *testing.T) {
	tl := newTestTimeline()
	tl.SetCursor(1)

	status := tl.StatusLine()
	if !strings.Contains(status, "2/3") {
		t.Errorf("status = %q", status)
	}
	if !strings.Contains(status, "ROM_load") {
		t.Errorf("status missing name: %q", status)
	}
}

package ui

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/tracelane/pkg/model"
)

func testInterval(name, category string, start, end int64, ongoing bool) *model.Interval {
	return &model.Interval{
		BaseName:    name,
		Occurrence:  1,
		DisplayName: name + " #1",
		Category:    category,
		Start:       start,
		End:         end,
		Duration:    end - start,
		Ongoing:     ongoing,
	}
}

func TestIntervalItemTitleAndDescription(t *testing.T) {
	item := IntervalItem{
		Interval: testInterval("MAIN_run", "MAIN", 0, 1_500_000, false),
		Unit:     model.UnitNanos,
	}

	if got := item.Title(); got != "MAIN_run #1" {
		t.Errorf("Title() = %q", got)
	}
	desc := item.Description()
	if !strings.Contains(desc, "MAIN") {
		t.Errorf("Description() missing category: %q", desc)
	}
	if !strings.Contains(desc, "1.500 ms") {
		t.Errorf("Description() missing formatted duration: %q", desc)
	}
}

func TestIntervalItemFilterValue(t *testing.T) {
	iv := testInterval("MEM_read", "MEM", 0, 10, false)
	iv.Subtask = "read"
	item := IntervalItem{Interval: iv, Unit: model.UnitNanos}

	fv := item.FilterValue()
	for _, want := range []string{"MEM_read #1", "MEM", "read"} {
		if !strings.Contains(fv, want) {
			t.Errorf("FilterValue() = %q, missing %q", fv, want)
		}
	}
}

func TestClipboardTextOngoing(t *testing.T) {
	item := IntervalItem{
		Interval: testInterval("ROM_load", "ROM", 100, 200, true),
		Unit:     model.UnitNanos,
	}
	text := item.ClipboardText()
	if !strings.Contains(text, "(running)") {
		t.Errorf("ClipboardText() missing running marker: %q", text)
	}
	if !strings.Contains(text, "ROM_load #1") {
		t.Errorf("ClipboardText() missing name: %q", text)
	}
}

func TestBuildItems(t *testing.T) {
	intervals := []*model.Interval{
		testInterval("a", "MAIN", 0, 1, false),
		testInterval("b", "ROM", 1, 2, false),
	}
	items := buildItems(intervals, model.UnitMicros)
	if len(items) != 2 {
		t.Fatalf("got %d items", len(items))
	}
	if items[0].Interval != intervals[0] {
		t.Error("items should share interval pointers")
	}
	if items[1].Unit != model.UnitMicros {
		t.Error("unit not propagated")
	}
}

package filter_test

import (
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/tracelane/pkg/filter"
	"github.com/vanderheijden86/tracelane/pkg/model"
	"github.com/vanderheijden86/tracelane/pkg/trace"
)

func f(v float64) *float64 { return &v }

func buildTrace(t testing.TB, records []model.RawRecord) *trace.Trace {
	t.Helper()
	tr, err := trace.Normalize(records, trace.Options{})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return tr
}

func sampleTrace(t testing.TB) *trace.Trace {
	return buildTrace(t, []model.RawRecord{
		{Name: "MAIN_init", Start: f(0), Duration: f(10)},
		{Name: "ROM_load", Start: f(10), Duration: f(10)},
		{Name: "MEM_copy", Start: f(25), Duration: f(10)},
		{Name: "MAIN_run", Start: f(40), Duration: f(20)},
	})
}

func TestApplyAllPassesEverything(t *testing.T) {
	tr := sampleTrace(t)
	got, err := filter.Apply(tr, model.DefaultFilterConfig())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(got) != len(tr.Intervals) {
		t.Errorf("all-mode filtered %d of %d intervals", len(got), len(tr.Intervals))
	}
	// Projection, not copy: the filtered view shares the canonical intervals.
	if got[0] != tr.Intervals[0] {
		t.Error("filtered view does not share canonical intervals")
	}
}

func TestApplyCategorySubset(t *testing.T) {
	tr := sampleTrace(t)
	cfg := model.DefaultFilterConfig().WithCategories("MAIN")
	got, err := filter.Apply(tr, cfg)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d MAIN intervals, want 2", len(got))
	}
	for _, iv := range got {
		if iv.Category != "MAIN" {
			t.Errorf("leaked category %s", iv.Category)
		}
	}
	// Stable order: init before run.
	if got[0].Subtask != "init" || got[1].Subtask != "run" {
		t.Errorf("order not preserved: %s, %s", got[0].Subtask, got[1].Subtask)
	}
}

func TestApplyWindowOverlap(t *testing.T) {
	tr := buildTrace(t, []model.RawRecord{
		{Name: "A", Start: f(10), End: f(20)},
		{Name: "B", Start: f(0), End: f(5)},
	})
	cfg := model.DefaultFilterConfig().WithWindow(15, 25)
	got, err := filter.Apply(tr, cfg)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// [10,20] overlaps [15,25) partially: included. [0,5] is fully outside.
	if len(got) != 1 || got[0].BaseName != "A" {
		t.Fatalf("overlap filter kept %v, want only A", names(got))
	}
	cfg = model.DefaultFilterConfig().WithWindow(10, 20)
	got, _ = filter.Apply(tr, cfg)
	if len(got) != 1 || got[0].BaseName != "A" {
		t.Fatalf("window [10,20) kept %v, want only A", names(got))
	}
}

func TestApplyPredicatesAreANDed(t *testing.T) {
	tr := sampleTrace(t)
	cfg := model.DefaultFilterConfig().WithCategories("MAIN").WithWindow(0, 15)
	got, err := filter.Apply(tr, cfg)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// MAIN_run is in category but outside the window; ROM_load overlaps the
	// window but is the wrong category.
	if len(got) != 1 || got[0].BaseName != "MAIN_init" {
		t.Errorf("ANDed predicates kept %v, want only MAIN_init", names(got))
	}
}

func TestApplyRejectsInvalidWindow(t *testing.T) {
	tr := sampleTrace(t)
	cfg := model.DefaultFilterConfig().WithWindow(20, 20)
	_, err := filter.Apply(tr, cfg)
	var invalid *model.InvalidFilterConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("Apply with start==end: err = %v, want InvalidFilterConfigError", err)
	}
}

func TestApplyNilTrace(t *testing.T) {
	got, err := filter.Apply(nil, model.DefaultFilterConfig())
	if err != nil || len(got) != 0 {
		t.Errorf("Apply(nil) = %v, %v; want empty, nil", got, err)
	}
}

// Idempotence and monotonicity over arbitrary traces and configs.
func TestApplyProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 50).Draw(rt, "n")
		records := make([]model.RawRecord, n)
		for i := range records {
			records[i] = model.RawRecord{
				Name:     rapid.SampledFrom([]string{"MAIN_x", "ROM_y", "MEM_z", "ARITH_w"}).Draw(rt, "name"),
				Start:    f(float64(rapid.Int64Range(0, 1000).Draw(rt, "start"))),
				Duration: f(float64(rapid.Int64Range(0, 100).Draw(rt, "dur"))),
			}
		}
		tr, err := trace.Normalize(records, trace.Options{})
		if err != nil {
			rt.Fatalf("Normalize: %v", err)
		}

		cfg := model.DefaultFilterConfig()
		cats := rapid.SliceOfN(rapid.SampledFrom(tr.Categories), 0, len(tr.Categories)).Draw(rt, "cats")
		cfg = cfg.WithCategories(cats...)
		if rapid.Bool().Draw(rt, "windowed") {
			start := rapid.Int64Range(0, 1100).Draw(rt, "wstart")
			cfg = cfg.WithWindow(start, start+1+rapid.Int64Range(0, 500).Draw(rt, "wspan"))
		}

		once, err := filter.Apply(tr, cfg)
		if err != nil {
			rt.Fatalf("Apply: %v", err)
		}

		// Idempotence: re-filtering the filtered set with the same config
		// changes nothing.
		refiltered := applyToSlice(once, cfg)
		if len(refiltered) != len(once) {
			rt.Fatalf("filter not idempotent: %d then %d", len(once), len(refiltered))
		}
		for i := range once {
			if refiltered[i] != once[i] {
				rt.Fatalf("filter not idempotent at index %d", i)
			}
		}

		// Monotonicity: a category restriction yields a subset of all-mode.
		members := map[*model.Interval]struct{}{}
		for _, iv := range tr.Intervals {
			members[iv] = struct{}{}
		}
		for _, iv := range once {
			if _, ok := members[iv]; !ok {
				rt.Fatal("filtered view contains an interval not in the canonical list")
			}
		}
	})
}

// applyToSlice re-runs the config's predicates over an already filtered
// slice, for the idempotence check only; production code always filters the
// canonical list.
func applyToSlice(intervals []*model.Interval, cfg model.FilterConfig) []*model.Interval {
	var out []*model.Interval
	for _, iv := range intervals {
		if cfg.CategoryMode == model.CategorySubset {
			if _, ok := cfg.SelectedCategories[iv.Category]; !ok {
				continue
			}
		}
		if cfg.TimeMode == model.TimeCustom && !iv.Overlaps(cfg.WindowStart, cfg.WindowEnd) {
			continue
		}
		out = append(out, iv)
	}
	return out
}

func names(intervals []*model.Interval) []string {
	out := make([]string, len(intervals))
	for i, iv := range intervals {
		out[i] = iv.BaseName
	}
	return out
}

package stats_test

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/tracelane/pkg/filter"
	"github.com/vanderheijden86/tracelane/pkg/model"
	"github.com/vanderheijden86/tracelane/pkg/stats"
	"github.com/vanderheijden86/tracelane/pkg/trace"
)

func f(v float64) *float64 { return &v }

func sampleTrace(t testing.TB) *trace.Trace {
	t.Helper()
	tr, err := trace.Normalize([]model.RawRecord{
		{Name: "MAIN_init", Start: f(0), Duration: f(60)},
		{Name: "ROM_load", Start: f(60), Duration: f(30)},
		{Name: "MAIN_run", Start: f(90), Duration: f(10)},
	}, trace.Options{})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return tr
}

func TestAggregateGlobalDenominator(t *testing.T) {
	tr := sampleTrace(t)
	rep := stats.Aggregate(tr.Intervals, stats.Options{
		Denominator: stats.DenomGlobal,
		GlobalTotal: tr.TotalDuration(),
	})
	if rep.Total != 100 {
		t.Fatalf("Total = %d, want 100", rep.Total)
	}
	if len(rep.Categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(rep.Categories))
	}
	// Sorted descending by total duration: MAIN (70) before ROM (30).
	main, rom := rep.Categories[0], rep.Categories[1]
	if main.Category != "MAIN" || rom.Category != "ROM" {
		t.Fatalf("sort order %s, %s; want MAIN, ROM", main.Category, rom.Category)
	}
	if main.TotalDuration != 70 || main.Count != 2 {
		t.Errorf("MAIN = %d/%d, want 70/2", main.TotalDuration, main.Count)
	}
	if math.Abs(main.Percentage-70) > 0.001 || math.Abs(rom.Percentage-30) > 0.001 {
		t.Errorf("percentages %f/%f, want 70/30", main.Percentage, rom.Percentage)
	}
	if main.Mean != 35 {
		t.Errorf("MAIN mean = %f, want 35", main.Mean)
	}
}

func TestAggregateFilteredDenominator(t *testing.T) {
	tr := sampleTrace(t)
	subset, err := filter.Apply(tr, model.DefaultFilterConfig().WithCategories("ROM"))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	rep := stats.Aggregate(subset, stats.Options{Denominator: stats.DenomFiltered})
	if len(rep.Categories) != 1 {
		t.Fatalf("got %d categories, want 1", len(rep.Categories))
	}
	// Against the filtered total, the only visible category is 100%.
	if math.Abs(rep.Categories[0].Percentage-100) > 0.001 {
		t.Errorf("filtered-denominator percentage = %f, want 100", rep.Categories[0].Percentage)
	}

	// Same subset against the global denominator is a share of the trace.
	rep = stats.Aggregate(subset, stats.Options{Denominator: stats.DenomGlobal, GlobalTotal: tr.TotalDuration()})
	if math.Abs(rep.Categories[0].Percentage-30) > 0.001 {
		t.Errorf("global-denominator percentage = %f, want 30", rep.Categories[0].Percentage)
	}
}

func TestAggregateZeroDenominator(t *testing.T) {
	rep := stats.Aggregate(nil, stats.Options{Denominator: stats.DenomFiltered})
	if rep.Total != 0 || len(rep.Categories) != 0 {
		t.Errorf("empty aggregation: %+v", rep)
	}
	// A zero denominator yields 0%, not NaN.
	tr := sampleTrace(t)
	rep = stats.Aggregate(tr.Intervals, stats.Options{Denominator: stats.DenomGlobal, GlobalTotal: 0})
	for _, cs := range rep.Categories {
		if cs.Percentage != 0 {
			t.Errorf("category %s: percentage %f with zero denominator", cs.Category, cs.Percentage)
		}
	}
}

func TestAggregateExcludesOngoing(t *testing.T) {
	stream := model.EventStream{
		Tasks: []string{"MAIN_a", "MAIN_b"},
		Events: []model.Event{
			{TaskIndex: 0, Action: model.ActionBegin, Offset: 0},
			{TaskIndex: 0, Action: model.ActionEnd, Offset: 40},
			{TaskIndex: 1, Action: model.ActionBegin, Offset: 50},
		},
	}
	tr, err := trace.NormalizeEvents(stream, trace.Options{})
	if err != nil {
		t.Fatalf("NormalizeEvents: %v", err)
	}
	rep := stats.Aggregate(tr.Intervals, stats.Options{Denominator: stats.DenomFiltered})
	if rep.OngoingExcluded != 1 {
		t.Errorf("OngoingExcluded = %d, want 1", rep.OngoingExcluded)
	}
	if rep.Total != 40 {
		t.Errorf("Total = %d, want 40 (synthetic span excluded)", rep.Total)
	}
	// The ongoing interval still counts toward Count.
	var totalCount int
	for _, cs := range rep.Categories {
		totalCount += cs.Count
	}
	if totalCount != 2 {
		t.Errorf("counts = %d, want 2", totalCount)
	}

	rep = stats.Aggregate(tr.Intervals, stats.Options{Denominator: stats.DenomFiltered, IncludeOngoing: true})
	if rep.Total != 40+trace.DefaultSyntheticSpan {
		t.Errorf("IncludeOngoing Total = %d, want %d", rep.Total, 40+trace.DefaultSyntheticSpan)
	}
}

// Over the full canonical set with the global denominator, category
// percentages sum to 100 (within float rounding).
func TestAggregateGlobalPercentageSum(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 80).Draw(rt, "n")
		records := make([]model.RawRecord, n)
		for i := range records {
			records[i] = model.RawRecord{
				Name:     rapid.SampledFrom([]string{"MAIN_a", "ROM_b", "MEM_c", "HASHFN_d", "plain"}).Draw(rt, "name"),
				Start:    f(float64(i * 10)),
				Duration: f(float64(rapid.Int64Range(1, 10_000).Draw(rt, "dur"))),
			}
		}
		tr, err := trace.Normalize(records, trace.Options{})
		if err != nil {
			rt.Fatalf("Normalize: %v", err)
		}
		rep := stats.Aggregate(tr.Intervals, stats.Options{
			Denominator: stats.DenomGlobal,
			GlobalTotal: tr.TotalDuration(),
		})
		var sum float64
		for _, cs := range rep.Categories {
			sum += cs.Percentage
		}
		if math.Abs(sum-100) > 0.1 {
			rt.Errorf("global percentage sum = %f, want 100±0.1", sum)
		}
	})
}

func TestWindowSpan(t *testing.T) {
	tr := sampleTrace(t)
	if got := stats.WindowSpan(tr, model.DefaultFilterConfig()); got != 100 {
		t.Errorf("all-mode WindowSpan = %d, want full trace span 100", got)
	}
	cfg := model.DefaultFilterConfig().WithWindow(20, 35)
	if got := stats.WindowSpan(tr, cfg); got != 15 {
		t.Errorf("custom WindowSpan = %d, want 15", got)
	}
	if got := stats.WindowSpan(nil, model.DefaultFilterConfig()); got != 0 {
		t.Errorf("WindowSpan(nil) = %d, want 0", got)
	}
}

// Package stats computes aggregate duration statistics over an interval set.
//
// Percentages are always computed against an explicit denominator mode:
// DenomGlobal divides by the whole trace's total, DenomFiltered by the total
// of the set being aggregated. Mixing the two silently is a defect; the mode
// travels with the report so consumers can label the numbers correctly.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/tracelane/pkg/model"
	"github.com/vanderheijden86/tracelane/pkg/trace"
)

// Denominator selects what aggregate percentages are proportions of.
type Denominator int

const (
	// DenomGlobal computes percentages against the unfiltered trace total.
	// Over the full canonical set the category percentages sum to 100.
	DenomGlobal Denominator = iota
	// DenomFiltered computes percentages against the aggregated set's own
	// total: a proportion of the visible slice, not the whole trace.
	DenomFiltered
)

func (d Denominator) String() string {
	if d == DenomFiltered {
		return "filtered"
	}
	return "global"
}

// CategoryStat is the aggregate for one category.
type CategoryStat struct {
	Category      string
	TotalDuration int64
	Count         int
	// Percentage of the report's denominator total, 0 when that total is 0.
	Percentage float64
	// Distribution of individual durations within the category.
	Mean   float64
	Median float64
	P95    float64
}

// Report is the output of one aggregation pass.
type Report struct {
	Categories []CategoryStat // sorted descending by TotalDuration
	// Total is the summed duration of the aggregated set (ongoing intervals
	// excluded when the options say so).
	Total int64
	// DenominatorTotal is what percentages were divided by.
	DenominatorTotal int64
	Denominator      Denominator
	// OngoingExcluded counts intervals left out of duration totals because
	// their end was synthesized.
	OngoingExcluded int
}

// Options configures aggregation.
type Options struct {
	Denominator Denominator
	// GlobalTotal is the unfiltered trace total, required for DenomGlobal.
	GlobalTotal int64
	// IncludeOngoing counts synthesized spans into duration totals. Off by
	// default: a fabricated span is not an observed duration.
	IncludeOngoing bool
}

// Aggregate computes per-category totals, counts and percentages over the
// given interval set. The set may be the full canonical list or any filtered
// projection of it.
func Aggregate(intervals []*model.Interval, opts Options) Report {
	byCategory := make(map[string]*CategoryStat)
	durations := make(map[string][]float64)
	var order []string
	var total int64
	var ongoingExcluded int

	for _, iv := range intervals {
		cs, ok := byCategory[iv.Category]
		if !ok {
			cs = &CategoryStat{Category: iv.Category}
			byCategory[iv.Category] = cs
			order = append(order, iv.Category)
		}
		cs.Count++
		if iv.Ongoing && !opts.IncludeOngoing {
			ongoingExcluded++
			continue
		}
		cs.TotalDuration += iv.Duration
		total += iv.Duration
		durations[iv.Category] = append(durations[iv.Category], float64(iv.Duration))
	}

	denomTotal := total
	if opts.Denominator == DenomGlobal {
		denomTotal = opts.GlobalTotal
	}

	out := Report{
		Total:            total,
		DenominatorTotal: denomTotal,
		Denominator:      opts.Denominator,
		OngoingExcluded:  ongoingExcluded,
		Categories:       make([]CategoryStat, 0, len(order)),
	}
	for _, cat := range order {
		cs := byCategory[cat]
		if denomTotal > 0 {
			cs.Percentage = 100 * float64(cs.TotalDuration) / float64(denomTotal)
		}
		if ds := durations[cat]; len(ds) > 0 {
			sort.Float64s(ds)
			cs.Mean = stat.Mean(ds, nil)
			cs.Median = stat.Quantile(0.5, stat.Empirical, ds, nil)
			cs.P95 = stat.Quantile(0.95, stat.Empirical, ds, nil)
		}
		out.Categories = append(out.Categories, *cs)
	}

	sort.SliceStable(out.Categories, func(i, j int) bool {
		return out.Categories[i].TotalDuration > out.Categories[j].TotalDuration
	})
	return out
}

// WindowSpan returns the elapsed wall time of the selected window: the
// window extent in custom mode, the full trace span otherwise. Independent
// of how many intervals fall inside it.
func WindowSpan(tr *trace.Trace, cfg model.FilterConfig) int64 {
	if cfg.TimeMode == model.TimeCustom {
		return cfg.WindowEnd - cfg.WindowStart
	}
	if tr == nil {
		return 0
	}
	return tr.Span()
}

// Package filter derives the displayed subset of a canonical trace from a
// user-supplied FilterConfig. Filtering always starts from the canonical
// interval list, never a previously filtered one, so re-applying a config can
// never compound restrictions; the result is a stable-order projection
// (shared pointers, not copies) into the trace.
package filter

import (
	"github.com/vanderheijden86/tracelane/pkg/model"
	"github.com/vanderheijden86/tracelane/pkg/trace"
)

// Apply returns the intervals of tr selected by cfg, preserving canonical
// order. The category predicate and the time-window predicate are ANDed when
// both are active; the window test is an overlap test, so an interval only
// partially inside the window is kept.
//
// An invalid config is rejected whole; callers keep their previous valid
// configuration.
func Apply(tr *trace.Trace, cfg model.FilterConfig) ([]*model.Interval, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, nil
	}

	out := make([]*model.Interval, 0, len(tr.Intervals))
	for _, iv := range tr.Intervals {
		if !categoryMatch(iv, cfg) {
			continue
		}
		if cfg.TimeMode == model.TimeCustom && !iv.Overlaps(cfg.WindowStart, cfg.WindowEnd) {
			continue
		}
		out = append(out, iv)
	}
	return out, nil
}

func categoryMatch(iv *model.Interval, cfg model.FilterConfig) bool {
	if cfg.CategoryMode == model.CategoryAll {
		return true
	}
	_, ok := cfg.SelectedCategories[iv.Category]
	return ok
}

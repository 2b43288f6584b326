package model

import "fmt"

// CategoryMode selects how the category predicate of a FilterConfig behaves.
type CategoryMode string

const (
	CategoryAll    CategoryMode = "all"
	CategorySubset CategoryMode = "subset"
)

// TimeMode selects how the time predicate of a FilterConfig behaves.
type TimeMode string

const (
	TimeAll    TimeMode = "all"
	TimeCustom TimeMode = "custom"
)

// FilterConfig is the user-controlled selection criteria applied to the
// canonical interval list. SelectedCategories is only meaningful in subset
// mode; WindowStart/WindowEnd only in custom mode.
type FilterConfig struct {
	CategoryMode       CategoryMode
	SelectedCategories map[string]struct{}
	TimeMode           TimeMode
	WindowStart        int64
	WindowEnd          int64
}

// DefaultFilterConfig returns the unrestricted configuration: every category,
// the whole trace span.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		CategoryMode: CategoryAll,
		TimeMode:     TimeAll,
	}
}

// Validate rejects configurations that violate the window invariant.
// An invalid config is reported, never silently reordered; callers keep the
// previous valid configuration active.
func (c FilterConfig) Validate() error {
	switch c.CategoryMode {
	case CategoryAll, CategorySubset:
	default:
		return &InvalidFilterConfigError{Reason: fmt.Sprintf("unknown category mode %q", c.CategoryMode)}
	}
	switch c.TimeMode {
	case TimeAll:
	case TimeCustom:
		if c.WindowStart >= c.WindowEnd {
			return &InvalidFilterConfigError{
				Reason: fmt.Sprintf("window start %d must be before window end %d", c.WindowStart, c.WindowEnd),
			}
		}
	default:
		return &InvalidFilterConfigError{Reason: fmt.Sprintf("unknown time mode %q", c.TimeMode)}
	}
	return nil
}

// WithCategories returns a copy of the config restricted to the given
// categories. An empty list switches back to all-categories mode.
func (c FilterConfig) WithCategories(categories ...string) FilterConfig {
	if len(categories) == 0 {
		c.CategoryMode = CategoryAll
		c.SelectedCategories = nil
		return c
	}
	c.CategoryMode = CategorySubset
	c.SelectedCategories = make(map[string]struct{}, len(categories))
	for _, cat := range categories {
		c.SelectedCategories[cat] = struct{}{}
	}
	return c
}

// WithWindow returns a copy of the config restricted to the given time
// window. The copy still has to pass Validate before use.
func (c FilterConfig) WithWindow(start, end int64) FilterConfig {
	c.TimeMode = TimeCustom
	c.WindowStart = start
	c.WindowEnd = end
	return c
}

// Equal reports whether two configs select the same subset.
func (c FilterConfig) Equal(o FilterConfig) bool {
	if c.CategoryMode != o.CategoryMode || c.TimeMode != o.TimeMode {
		return false
	}
	if c.TimeMode == TimeCustom && (c.WindowStart != o.WindowStart || c.WindowEnd != o.WindowEnd) {
		return false
	}
	if c.CategoryMode == CategorySubset {
		if len(c.SelectedCategories) != len(o.SelectedCategories) {
			return false
		}
		for cat := range c.SelectedCategories {
			if _, ok := o.SelectedCategories[cat]; !ok {
				return false
			}
		}
	}
	return true
}

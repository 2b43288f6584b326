// Package classify assigns deterministic visual categories to trace
// intervals. A fixed table maps the known category prefixes to a color
// scheme; anything else degrades to a stable default so classification is a
// total function and never blocks rendering.
package classify

import (
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/vanderheijden86/tracelane/pkg/model"
)

// UnknownCategory is assigned when a record carries no name at all.
const UnknownCategory = "UNKNOWN"

// primaries maps the known category prefixes to their primary fill color.
// Secondary (hover) and border shades are derived, not stored, so the three
// always stay consistent.
var primaries = map[string]string{
	"MAIN":   "#4e79a7",
	"ROM":    "#f28e2b",
	"INPUT":  "#59a14f",
	"MEM":    "#e15759",
	"BINARY": "#b07aa1",
	"ARITH":  "#76b7b2",
	"HASHFN": "#edc948",
}

// defaultPrimary is the stable fallback for unmapped categories.
const defaultPrimary = "#9c9ca1"

// Lookup returns the color scheme for a category. Total: unknown categories
// get the default scheme rather than an error.
func Lookup(category string) model.ColorScheme {
	primary, ok := primaries[category]
	if !ok {
		primary = defaultPrimary
	}
	return derive(primary)
}

// Known reports whether the category has a dedicated entry in the table.
func Known(category string) bool {
	_, ok := primaries[category]
	return ok
}

// KnownCategories returns the mapped category names in sorted order.
func KnownCategories() []string {
	out := make([]string, 0, len(primaries))
	for cat := range primaries {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// derive builds the full scheme from a primary fill: the hover shade is a
// lightened primary, the border a darkened one. Blending happens in HSL so
// hue is preserved across the triple.
func derive(primary string) model.ColorScheme {
	c, err := colorful.Hex(primary)
	if err != nil {
		// Table entries are validated by tests; a bad runtime input still
		// has to produce something drawable.
		return model.ColorScheme{Primary: primary, Secondary: primary, Border: primary}
	}
	h, s, l := c.Hsl()
	secondary := colorful.Hsl(h, s, clamp01(l+0.15))
	border := colorful.Hsl(h, s, clamp01(l-0.20))
	return model.ColorScheme{
		Primary:   c.Hex(),
		Secondary: secondary.Clamped().Hex(),
		Border:    border.Clamped().Hex(),
	}
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}

// Categories returns the distinct categories of the given intervals in first
// appearance order. Used to populate the filter panel inventory.
func Categories(intervals []*model.Interval) []string {
	seen := make(map[string]struct{}, 8)
	var out []string
	for _, iv := range intervals {
		if _, ok := seen[iv.Category]; ok {
			continue
		}
		seen[iv.Category] = struct{}{}
		out = append(out, iv.Category)
	}
	return out
}

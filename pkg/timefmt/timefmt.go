// Package timefmt converts raw durations and timestamps in a trace's
// canonical unit into human-readable strings.
//
// Two formatters with different consumers are kept separate on purpose:
// Adaptive picks the largest legible unit for tooltips and legends, while
// Fixed pins a caller-chosen unit for axis ticks and scales its precision to
// the visible range so ticks never collapse into identical rounded values.
// Both are pure functions.
package timefmt

import (
	"fmt"
	"math"

	"github.com/vanderheijden86/tracelane/pkg/model"
)

// scaleStep is one display unit expressed in a canonical base.
type scaleStep struct {
	suffix string
	factor float64
	// decimals used by Adaptive for this unit.
	decimals int
}

// Scales ordered largest first. The integer base unit gets zero decimals.
func scalesFor(unit model.Unit) []scaleStep {
	switch unit {
	case model.UnitMicros:
		return []scaleStep{
			{"min", 60e6, 3},
			{"s", 1e6, 3},
			{"ms", 1e3, 3},
			{"µs", 1, 0},
		}
	default:
		return []scaleStep{
			{"min", 60e9, 3},
			{"s", 1e9, 3},
			{"ms", 1e6, 3},
			{"µs", 1e3, 3},
			{"ns", 1, 0},
		}
	}
}

// Adaptive formats a raw duration in the canonical unit using the largest
// display unit in which the magnitude is at least 1, with 3 decimal places
// (0 for the integer base unit). Decimals are truncated rather than rounded
// so a value just under a unit boundary never displays as the next unit's
// worth (59.9999s stays "59.999 s", not "60.000 s").
func Adaptive(d int64, unit model.Unit) string {
	scales := scalesFor(unit)
	mag := math.Abs(float64(d))
	for _, s := range scales {
		if mag >= s.factor {
			return format(float64(d)/s.factor, s.decimals) + " " + s.suffix
		}
	}
	// Below 1 in the base unit: zero, or sub-unit noise. Show in base unit.
	base := scales[len(scales)-1]
	return format(float64(d)/base.factor, base.decimals) + " " + base.suffix
}

// Target is the fixed display unit for axis formatting.
type Target int

const (
	// TargetMinutes formats values as minutes; the usual axis unit.
	TargetMinutes Target = iota
	// TargetSeconds formats values as seconds.
	TargetSeconds
)

func (t Target) factor(unit model.Unit) float64 {
	base := 1e9
	if unit == model.UnitMicros {
		base = 1e6
	}
	if t == TargetSeconds {
		return base
	}
	return 60 * base
}

// Suffix returns the unit suffix for axis labels.
func (t Target) Suffix() string {
	if t == TargetSeconds {
		return "s"
	}
	return "min"
}

// FixedDecimals returns the precision Fixed uses for a visible range of span
// canonical units rendered in the target unit. The narrower the range
// relative to the unit, the more decimals: below 1e-6 of the unit, 8; each
// order of magnitude wider sheds one, down to 2.
func FixedDecimals(span int64, unit model.Unit, target Target) int {
	rangeInUnit := math.Abs(float64(span)) / target.factor(unit)
	switch {
	case rangeInUnit < 1e-6:
		return 8
	case rangeInUnit < 1e-5:
		return 7
	case rangeInUnit < 1e-4:
		return 6
	case rangeInUnit < 1e-3:
		return 5
	case rangeInUnit < 1e-2:
		return 4
	case rangeInUnit < 1e-1:
		return 3
	default:
		return 2
	}
}

// Fixed formats a raw value in the canonical unit as the explicit target
// unit. span is the full visible time range, which drives the precision via
// FixedDecimals.
func Fixed(v int64, unit model.Unit, target Target, span int64) string {
	decimals := FixedDecimals(span, unit, target)
	return fmt.Sprintf("%.*f", decimals, float64(v)/target.factor(unit))
}

// format truncates x to the given number of decimals. fmt's %f rounds, which
// would leak across unit boundaries.
func format(x float64, decimals int) string {
	if decimals == 0 {
		return fmt.Sprintf("%d", int64(x))
	}
	pow := math.Pow(10, float64(decimals))
	truncated := math.Trunc(x*pow) / pow
	return fmt.Sprintf("%.*f", decimals, truncated)
}

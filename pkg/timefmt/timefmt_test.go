package timefmt_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/vanderheijden86/tracelane/pkg/model"
	"github.com/vanderheijden86/tracelane/pkg/timefmt"
)

func TestAdaptiveUnitSelection(t *testing.T) {
	cases := []struct {
		name string
		d    int64
		want string
	}{
		{"millis", 1_500_000, "1.500 ms"},
		{"just under a minute stays seconds", 59_999_999_999, "59.999 s"},
		{"minute boundary", 60_000_000_000, "1.000 min"},
		{"nanos have no decimals", 999, "999 ns"},
		{"micros", 1_000, "1.000 µs"},
		{"one second", 1_000_000_000, "1.000 s"},
		{"zero", 0, "0 ns"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := timefmt.Adaptive(tc.d, model.UnitNanos)
			if got != tc.want {
				t.Errorf("Adaptive(%d) = %q, want %q", tc.d, got, tc.want)
			}
		})
	}
}

func TestAdaptiveMicrosecondBase(t *testing.T) {
	if got := timefmt.Adaptive(1_500, model.UnitMicros); got != "1.500 ms" {
		t.Errorf("Adaptive(1500 µs) = %q, want %q", got, "1.500 ms")
	}
	if got := timefmt.Adaptive(500, model.UnitMicros); got != "500 µs" {
		t.Errorf("Adaptive(500 µs) = %q, want %q", got, "500 µs")
	}
}

// Formatting then re-parsing must land in the same unit bracket: the chosen
// unit's magnitude never reads as >= 1 of the next unit up.
func TestAdaptiveRoundTripStable(t *testing.T) {
	for _, d := range []int64{1, 999, 1_000, 999_999, 1_500_000, 59_999_999_999, 60_000_000_000, 3_600_000_000_000} {
		s := timefmt.Adaptive(d, model.UnitNanos)
		parts := strings.SplitN(s, " ", 2)
		if len(parts) != 2 {
			t.Fatalf("Adaptive(%d) = %q: not value+unit", d, s)
		}
		v, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			t.Fatalf("Adaptive(%d) = %q: unparseable value: %v", d, s, err)
		}
		switch parts[1] {
		case "s":
			if v >= 60 {
				t.Errorf("Adaptive(%d) = %q: seconds value crossed the minute boundary", d, s)
			}
		case "ms", "µs":
			if v >= 1000 {
				t.Errorf("Adaptive(%d) = %q: value crossed into the next unit", d, s)
			}
		case "ns":
			if v >= 1000 {
				t.Errorf("Adaptive(%d) = %q: nanos should have promoted to µs", d, s)
			}
		}
	}
}

func TestFixedDecimalsScaleWithRange(t *testing.T) {
	const minute = int64(60_000_000_000)
	cases := []struct {
		span int64
		want int
	}{
		{minute / 10_000_000, 8}, // 1e-7 min range
		{minute / 100_000, 6},    // exactly 1e-5: the < 1e-5 bracket is exclusive
		{minute / 100, 3},
		{minute, 2},
		{100 * minute, 2},
	}
	for _, tc := range cases {
		got := timefmt.FixedDecimals(tc.span, model.UnitNanos, timefmt.TargetMinutes)
		if got != tc.want {
			t.Errorf("FixedDecimals(span=%d) = %d, want %d", tc.span, got, tc.want)
		}
	}
}

func TestFixedFormatsInTargetUnit(t *testing.T) {
	const minute = int64(60_000_000_000)
	// With a full-minute range, two decimals.
	if got := timefmt.Fixed(90_000_000_000, model.UnitNanos, timefmt.TargetMinutes, minute); got != "1.50" {
		t.Errorf("Fixed(1.5min) = %q, want %q", got, "1.50")
	}
	// A very short trace must not collapse ticks to identical strings.
	a := timefmt.Fixed(1_000, model.UnitNanos, timefmt.TargetMinutes, 3_000)
	b := timefmt.Fixed(2_000, model.UnitNanos, timefmt.TargetMinutes, 3_000)
	if a == b {
		t.Errorf("Fixed ticks collapsed: both %q", a)
	}
}

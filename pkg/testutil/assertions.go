package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/tracelane/pkg/model"
)

// AssertIntervalCount verifies the expected number of intervals.
func AssertIntervalCount(t *testing.T, intervals []*model.Interval, expected int) {
	t.Helper()
	if len(intervals) != expected {
		t.Errorf("expected %d intervals, got %d", expected, len(intervals))
	}
}

// AssertDurationsConsistent verifies Duration == End - Start for every
// interval.
func AssertDurationsConsistent(t *testing.T, intervals []*model.Interval) {
	t.Helper()
	for i, iv := range intervals {
		if iv.Duration != iv.End-iv.Start {
			t.Errorf("interval %d (%s): duration %d != end-start %d",
				i, iv.DisplayName, iv.Duration, iv.End-iv.Start)
		}
	}
}

// AssertOccurrencesSequential verifies that occurrences of each base name
// are numbered 1..N in slice order.
func AssertOccurrencesSequential(t *testing.T, intervals []*model.Interval) {
	t.Helper()
	next := make(map[string]int)
	for i, iv := range intervals {
		next[iv.BaseName]++
		if iv.Occurrence != next[iv.BaseName] {
			t.Errorf("interval %d (%s): occurrence %d, want %d",
				i, iv.BaseName, iv.Occurrence, next[iv.BaseName])
		}
	}
}

// AssertSortedByStart verifies intervals are in non-decreasing start order.
func AssertSortedByStart(t *testing.T, intervals []*model.Interval) {
	t.Helper()
	for i := 1; i < len(intervals); i++ {
		if intervals[i].Start < intervals[i-1].Start {
			t.Errorf("interval %d starts at %d, before interval %d at %d",
				i, intervals[i].Start, i-1, intervals[i-1].Start)
		}
	}
}

// AssertCategories verifies the exact set of categories present.
func AssertCategories(t *testing.T, intervals []*model.Interval, want ...string) {
	t.Helper()
	got := make(map[string]bool)
	for _, iv := range intervals {
		got[iv.Category] = true
	}
	wantSet := make(map[string]bool, len(want))
	for _, c := range want {
		wantSet[c] = true
	}
	for c := range got {
		if !wantSet[c] {
			t.Errorf("unexpected category %q", c)
		}
	}
	for c := range wantSet {
		if !got[c] {
			t.Errorf("missing category %q", c)
		}
	}
}

// AssertNoOngoing verifies no interval is marked ongoing.
func AssertNoOngoing(t *testing.T, intervals []*model.Interval) {
	t.Helper()
	for i, iv := range intervals {
		if iv.Ongoing {
			t.Errorf("interval %d (%s) unexpectedly ongoing", i, iv.DisplayName)
		}
	}
}

// AssertContainsInterval verifies that an interval with the given base name
// and occurrence exists.
func AssertContainsInterval(t *testing.T, intervals []*model.Interval, baseName string, occurrence int) {
	t.Helper()
	for _, iv := range intervals {
		if iv.BaseName == baseName && iv.Occurrence == occurrence {
			return
		}
	}
	t.Errorf("interval %s #%d not found", baseName, occurrence)
}

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
// If GENERATE_GOLDEN is set, updates the golden file instead.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()

	if g.update {
		if err := os.MkdirAll(g.dir, 0755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}

	if string(expected) != actual {
		expectedLines := strings.Split(string(expected), "\n")
		actualLines := strings.Split(actual, "\n")

		for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
			var expLine, actLine string
			if i < len(expectedLines) {
				expLine = expectedLines[i]
			}
			if i < len(actualLines) {
				actLine = actualLines[i]
			}
			if expLine != actLine {
				g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s",
					i+1, expLine, actLine)
				return
			}
		}
		g.t.Errorf("golden file mismatch (length differs)")
	}
}

// AssertJSON compares actual value as JSON against the golden file.
func (g *GoldenFile) AssertJSON(actual interface{}) {
	g.t.Helper()

	data, err := json.MarshalIndent(actual, "", "  ")
	if err != nil {
		g.t.Fatalf("failed to marshal actual value: %v", err)
	}

	g.Assert(string(data))
}

// WriteTraceFile writes a JSON trace payload to a file under a temp dir and
// returns the path.
func WriteTraceFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write trace file: %v", err)
	}
	return path
}

// FindInterval returns the first interval with the given base name, or nil.
func FindInterval(intervals []*model.Interval, baseName string) *model.Interval {
	for _, iv := range intervals {
		if iv.BaseName == baseName {
			return iv
		}
	}
	return nil
}

// CountByCategory tallies intervals per category.
func CountByCategory(intervals []*model.Interval) map[string]int {
	counts := make(map[string]int)
	for _, iv := range intervals {
		counts[iv.Category]++
	}
	return counts
}

// TotalDuration sums durations of completed intervals.
func TotalDuration(intervals []*model.Interval) int64 {
	var total int64
	for _, iv := range intervals {
		if !iv.Ongoing {
			total += iv.Duration
		}
	}
	return total
}

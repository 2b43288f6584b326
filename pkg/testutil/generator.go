// Package testutil provides deterministic trace fixture generators and
// interval assertions shared by the engine package tests.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/vanderheijden86/tracelane/pkg/model"
)

// GeneratorConfig controls record generation.
type GeneratorConfig struct {
	Seed       int64    // Random seed for determinism (0 picks 42)
	Categories []string // Category prefixes to draw names from
	BaseStart  int64    // First interval start in canonical units
	MinSpan    int64    // Minimum interval span
	MaxSpan    int64    // Maximum interval span
	Gap        int64    // Gap between sequential intervals
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:       42,
		Categories: []string{"MAIN", "ROM", "INPUT", "MEM"},
		BaseStart:  1_000,
		MinSpan:    50,
		MaxSpan:    5_000,
		Gap:        10,
	}
}

// Generator creates trace fixtures with various shapes.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = []string{"MAIN", "ROM", "INPUT", "MEM"}
	}
	if cfg.MinSpan <= 0 {
		cfg.MinSpan = 50
	}
	if cfg.MaxSpan < cfg.MinSpan {
		cfg.MaxSpan = cfg.MinSpan
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

func (g *Generator) span() int64 {
	if g.cfg.MaxSpan == g.cfg.MinSpan {
		return g.cfg.MinSpan
	}
	return g.cfg.MinSpan + g.rng.Int63n(g.cfg.MaxSpan-g.cfg.MinSpan)
}

func (g *Generator) name(i int) string {
	cat := g.cfg.Categories[i%len(g.cfg.Categories)]
	return fmt.Sprintf("%s_task%d", cat, i%3)
}

// Sequential produces n back-to-back records with explicit start and
// duration, each starting Gap units after the previous one ends.
func (g *Generator) Sequential(n int) []model.RawRecord {
	records := make([]model.RawRecord, 0, n)
	cursor := g.cfg.BaseStart
	for i := 0; i < n; i++ {
		start := float64(cursor)
		dur := float64(g.span())
		records = append(records, model.RawRecord{
			Name:     g.name(i),
			Start:    &start,
			Duration: &dur,
		})
		cursor += int64(dur) + g.cfg.Gap
	}
	return records
}

// Contiguous produces n records carrying only durations, exercising the
// running-cursor placement of implicit starts.
func (g *Generator) Contiguous(n int) []model.RawRecord {
	records := make([]model.RawRecord, 0, n)
	for i := 0; i < n; i++ {
		dur := float64(g.span())
		records = append(records, model.RawRecord{
			Name:     g.name(i),
			Duration: &dur,
		})
	}
	return records
}

// Overlapping produces n records that all start inside the same window so
// every pair overlaps. Useful for window-filter tests.
func (g *Generator) Overlapping(n int) []model.RawRecord {
	records := make([]model.RawRecord, 0, n)
	for i := 0; i < n; i++ {
		start := float64(g.cfg.BaseStart + int64(i)*5)
		end := float64(g.cfg.BaseStart + g.cfg.MaxSpan + int64(i)*5)
		records = append(records, model.RawRecord{
			Name:  g.name(i),
			Start: &start,
			End:   &end,
		})
	}
	return records
}

// Repeated produces count records sharing one base name, for occurrence
// numbering tests.
func (g *Generator) Repeated(baseName string, count int) []model.RawRecord {
	records := make([]model.RawRecord, 0, count)
	cursor := g.cfg.BaseStart
	for i := 0; i < count; i++ {
		start := float64(cursor)
		dur := float64(g.span())
		records = append(records, model.RawRecord{
			Name:     baseName,
			Start:    &start,
			Duration: &dur,
		})
		cursor += int64(dur) + g.cfg.Gap
	}
	return records
}

// Events produces an event stream with n tasks, each opened and closed in
// order, offsets derived from the same seed as the record generators.
func (g *Generator) Events(n int) *model.EventStream {
	stream := &model.EventStream{Epoch: g.cfg.BaseStart}
	cursor := int64(0)
	for i := 0; i < n; i++ {
		stream.Tasks = append(stream.Tasks, g.name(i))
		span := g.span()
		stream.Events = append(stream.Events,
			model.Event{TaskIndex: i, Action: model.ActionBegin, Offset: cursor},
			model.Event{TaskIndex: i, Action: model.ActionEnd, Offset: cursor + span},
		)
		cursor += span + g.cfg.Gap
	}
	return stream
}

// EventsWithOngoing is Events with the final task never closed.
func (g *Generator) EventsWithOngoing(n int) *model.EventStream {
	stream := g.Events(n)
	if n > 0 {
		stream.Events = stream.Events[:len(stream.Events)-1]
	}
	return stream
}

// ToJSON renders records as the duration-form JSON array payload.
func ToJSON(records []model.RawRecord) string {
	var b strings.Builder
	b.WriteString("[")
	for i, r := range records {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "{%q:%q", "name", r.Name)
		if r.Start != nil {
			fmt.Fprintf(&b, ",%q:%g", "start", *r.Start)
		}
		if r.Duration != nil {
			fmt.Fprintf(&b, ",%q:%g", "dur", *r.Duration)
		}
		if r.End != nil {
			fmt.Fprintf(&b, ",%q:%g", "end", *r.End)
		}
		b.WriteString("}")
	}
	b.WriteString("]")
	return b.String()
}

// QuickSequential is shorthand for NewDefault().Sequential(n).
func QuickSequential(n int) []model.RawRecord {
	return NewDefault().Sequential(n)
}

// QuickEvents is shorthand for NewDefault().Events(n).
func QuickEvents(n int) *model.EventStream {
	return NewDefault().Events(n)
}

// Empty returns an empty record slice.
func Empty() []model.RawRecord {
	return []model.RawRecord{}
}

// Single returns one record with explicit start and duration.
func Single() []model.RawRecord {
	start, dur := 100.0, 50.0
	return []model.RawRecord{{Name: "MAIN_only", Start: &start, Duration: &dur}}
}

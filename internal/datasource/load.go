package datasource

import (
	"context"

	"github.com/vanderheijden86/tracelane/pkg/loader"
	"github.com/vanderheijden86/tracelane/pkg/model"
	"github.com/vanderheijden86/tracelane/pkg/trace"
)

// LoadOptions configures a full load.
type LoadOptions struct {
	// Normalize options (canonical unit, synthetic span, warning sink).
	Trace trace.Options
	// Warn receives loader-level diagnostics. Defaults to Trace.Warn's sink
	// via the loader's own fallback when nil.
	Warn func(string)
}

// LoadTrace detects the source type behind path, parses it, and normalizes
// the result into a canonical trace. The context is honored between the
// pipeline's stages so a superseded load stops doing work; a canceled load
// never publishes a partial trace.
func LoadTrace(ctx context.Context, path string, opts LoadOptions) (*trace.Trace, error) {
	kind, err := DetectSource(path)
	if err != nil {
		return nil, &model.LoadError{Path: path, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch kind {
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(path)
		if err != nil {
			return nil, &model.LoadError{Path: path, Err: err}
		}
		defer reader.Close()
		records, err := reader.LoadRecords(ctx)
		if err != nil {
			return nil, &model.LoadError{Path: path, Err: err}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return trace.Normalize(records, opts.Trace)

	default:
		payload, err := loader.LoadFile(path, loader.ParseOptions{WarningHandler: opts.Warn})
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if payload.Format == loader.FormatJSONArray {
			return trace.Normalize(payload.Records, opts.Trace)
		}
		return trace.NormalizeEvents(payload.Events, opts.Trace)
	}
}

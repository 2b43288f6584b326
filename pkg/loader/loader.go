// Package loader parses raw trace payloads into the records the normalizer
// consumes. Three input shapes are accepted: a JSON array of duration-form
// records, a compact JSON event-stream object, and a delimited tabular
// begin/end log. Malformed entries are skipped with a warning; only a payload
// that cannot be decoded at all fails the load.
package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/tracelane/pkg/model"
)

// Format identifies the detected payload shape.
type Format string

const (
	FormatJSONArray   Format = "json-array"
	FormatEventStream Format = "event-stream"
	FormatTabular     Format = "tabular"
)

// Payload is the decoded but not yet normalized content of one source.
// Exactly one of Records/Events is meaningful, per Format.
type Payload struct {
	Format  Format
	Records []model.RawRecord
	Events  model.EventStream
}

// ParseOptions configures payload parsing.
type ParseOptions struct {
	// WarningHandler receives per-entry diagnostics. If nil, warnings go to
	// os.Stderr.
	WarningHandler func(string)
}

func (o ParseOptions) warn() func(string) {
	if o.WarningHandler != nil {
		return o.WarningHandler
	}
	return func(msg string) {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}
}

// LoadFile reads and parses a payload file, detecting the format from its
// content.
func LoadFile(path string, opts ParseOptions) (Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, &model.LoadError{Path: path, Err: err}
	}
	p, err := Parse(data, opts)
	if err != nil {
		return Payload{}, &model.LoadError{Path: path, Err: err}
	}
	return p, nil
}

// ParseReader parses a payload from a stream.
func ParseReader(r io.Reader, opts ParseOptions) (Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Payload{}, fmt.Errorf("read payload: %w", err)
	}
	return Parse(data, opts)
}

// Parse decodes a payload, detecting its format from the content.
func Parse(data []byte, opts ParseOptions) (Payload, error) {
	data = stripBOM(data)
	switch DetectFormat(data) {
	case FormatJSONArray:
		records, err := parseJSONArray(data, opts)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Format: FormatJSONArray, Records: records}, nil
	case FormatEventStream:
		stream, err := parseEventStream(data, opts)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Format: FormatEventStream, Events: stream}, nil
	default:
		stream, err := parseTabular(data, opts)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Format: FormatTabular, Events: stream}, nil
	}
}

// DetectFormat sniffs the payload shape from its first non-space byte: '['
// is the record array, '{' the compact event object, anything else is
// treated as delimited tabular text.
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return FormatTabular
	}
	switch trimmed[0] {
	case '[':
		return FormatJSONArray
	case '{':
		return FormatEventStream
	default:
		return FormatTabular
	}
}

// parseJSONArray decodes the duration-form record array. Records are decoded
// generically first so unrecognized fields survive as opaque extras.
func parseJSONArray(data []byte, opts ParseOptions) ([]model.RawRecord, error) {
	warn := opts.warn()

	var rawEntries []json.RawMessage
	if err := json.Unmarshal(data, &rawEntries); err != nil {
		return nil, fmt.Errorf("decode record array: %w", err)
	}

	records := make([]model.RawRecord, 0, len(rawEntries))
	for i, raw := range rawEntries {
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			warn(fmt.Sprintf("skipping entry %d: not an object: %v", i, err))
			continue
		}

		var rec model.RawRecord
		for key, val := range fields {
			switch key {
			case "name":
				if s, ok := val.(string); ok {
					rec.Name = s
				}
			case "start":
				rec.Start = asNumber(val)
			case "duration":
				rec.Duration = asNumber(val)
			case "end":
				rec.End = asNumber(val)
			default:
				if rec.Extra == nil {
					rec.Extra = make(map[string]any)
				}
				rec.Extra[key] = val
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func asNumber(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int64:
		f := float64(n)
		return &f
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return &f
		}
	}
	return nil
}

// stripBOM removes the UTF-8 Byte Order Mark if present.
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}

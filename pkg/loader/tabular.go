package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/vanderheijden86/tracelane/pkg/model"
)

// parseTabular decodes the delimited begin/end log form with columns
// timestamp, task_name, action(begin|end) and optional core_id and
// file_source. Comma and tab delimiters are supported; a header row is
// detected by its unparseable timestamp column and skipped. Timestamps are
// absolute, so the produced stream has epoch 0 and offsets carry the raw
// values.
func parseTabular(data []byte, opts ParseOptions) (model.EventStream, error) {
	warn := opts.warn()

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1 // column count varies with the optional tail
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return model.EventStream{}, fmt.Errorf("decode tabular payload: %w", err)
	}

	stream := model.EventStream{}
	taskIndex := make(map[string]int)

	for i, row := range rows {
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 3 {
			warn(fmt.Sprintf("skipping row %d: want at least 3 columns, got %d", i+1, len(row)))
			continue
		}

		ts, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		if err != nil {
			if i == 0 {
				// Header row.
				continue
			}
			warn(fmt.Sprintf("skipping row %d: bad timestamp %q", i+1, row[0]))
			continue
		}

		name := strings.TrimSpace(row[1])
		var action model.EventAction
		switch strings.ToLower(strings.TrimSpace(row[2])) {
		case "begin":
			action = model.ActionBegin
		case "end":
			action = model.ActionEnd
		default:
			warn(fmt.Sprintf("skipping row %d: unknown action %q", i+1, row[2]))
			continue
		}

		idx, ok := taskIndex[name]
		if !ok {
			idx = len(stream.Tasks)
			taskIndex[name] = idx
			stream.Tasks = append(stream.Tasks, name)
		}
		stream.Events = append(stream.Events, model.Event{
			TaskIndex: idx,
			Action:    action,
			Offset:    int64(ts),
		})
	}

	if len(stream.Tasks) == 0 {
		return model.EventStream{}, fmt.Errorf("tabular payload has no usable rows")
	}
	return stream, nil
}

// detectDelimiter prefers tabs when the first line contains any, commas
// otherwise.
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.IndexByte(line, '\t') >= 0 {
		return '\t'
	}
	return ','
}

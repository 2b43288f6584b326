package loader

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/tracelane/pkg/model"
)

// compactStream mirrors the wire shape of the event-form payload:
// h is the epoch base, t the task name table, c optional per-task colors,
// and d the event tuples [taskIndex, action, offset] with action 0=begin,
// 1=end.
type compactStream struct {
	Epoch  float64      `json:"h"`
	Tasks  []string     `json:"t"`
	Colors []string     `json:"c"`
	Data   [][3]float64 `json:"d"`
}

// parseEventStream decodes the compact event object. Tuples with a task
// index outside the task table or an unknown action are skipped with a
// warning; the normalizer re-checks indices but bad tuples should not
// survive past the boundary.
func parseEventStream(data []byte, opts ParseOptions) (model.EventStream, error) {
	warn := opts.warn()

	var c compactStream
	if err := json.Unmarshal(data, &c); err != nil {
		return model.EventStream{}, fmt.Errorf("decode event stream: %w", err)
	}
	if len(c.Tasks) == 0 {
		return model.EventStream{}, fmt.Errorf("event stream has no task table")
	}

	stream := model.EventStream{
		Epoch:  int64(c.Epoch),
		Tasks:  c.Tasks,
		Colors: c.Colors,
		Events: make([]model.Event, 0, len(c.Data)),
	}
	for i, tuple := range c.Data {
		idx := int(tuple[0])
		action := model.EventAction(tuple[1])
		if idx < 0 || idx >= len(c.Tasks) {
			warn(fmt.Sprintf("skipping event %d: task index %d out of range", i, idx))
			continue
		}
		if action != model.ActionBegin && action != model.ActionEnd {
			warn(fmt.Sprintf("skipping event %d: unknown action %v", i, tuple[1]))
			continue
		}
		stream.Events = append(stream.Events, model.Event{
			TaskIndex: idx,
			Action:    action,
			Offset:    int64(tuple[2]),
		})
	}
	return stream, nil
}

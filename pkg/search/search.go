// Package search implements the legend lookup over the currently displayed
// interval set: free-text substring match plus an optional category pick,
// layered on top of whatever the chart's own filter config produced.
//
// Queries are pure functions of their inputs, so each keystroke re-evaluates
// against the latest displayed set and can never serve stale results.
package search

import (
	"strings"

	"github.com/vanderheijden86/tracelane/pkg/model"
)

// Query selects intervals whose display name, category or subtask contains
// text (case-insensitive). A non-empty category is a second ANDed predicate.
// Both predicates can be active at once; an empty query with no category
// returns the input set unchanged. A nil or empty interval set yields an
// empty result, never an error.
func Query(intervals []*model.Interval, text, category string) []*model.Interval {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" && category == "" {
		return intervals
	}

	out := make([]*model.Interval, 0, len(intervals))
	for _, iv := range intervals {
		if category != "" && iv.Category != category {
			continue
		}
		if text != "" && !matches(iv, text) {
			continue
		}
		out = append(out, iv)
	}
	return out
}

func matches(iv *model.Interval, lowered string) bool {
	return strings.Contains(strings.ToLower(iv.DisplayName), lowered) ||
		strings.Contains(strings.ToLower(iv.Category), lowered) ||
		strings.Contains(strings.ToLower(iv.Subtask), lowered)
}

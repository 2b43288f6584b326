package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# tlv — trace timeline viewer

## Navigation

| Key | Action |
|-----|--------|
| ` + "`↑/k` `↓/j`" + ` | Move selection |
| ` + "`pgup` `pgdn`" + ` | Page through lanes |
| ` + "`g` / `G`" + ` | Jump to first / last |
| ` + "`tab`" + ` | Cycle focus: timeline → legend → stats |

## Filtering & search

| Key | Action |
|-----|--------|
| ` + "`f`" + ` | Open the filter editor (categories, time window) |
| ` + "`F`" + ` | Reset filters |
| ` + "`/`" + ` | Search legend entries |
| ` + "`esc`" + ` | Leave search / close overlays |

## Data

| Key | Action |
|-----|--------|
| ` + "`d`" + ` | Toggle percentage denominator (global / filtered) |
| ` + "`y`" + ` | Copy selected interval to clipboard |
| ` + "`S`" + ` | Export snapshot (SVG + PNG) |
| ` + "`r`" + ` | Reload the trace file |
| ` + "`q`" + ` | Quit |

Percentages in *global* mode are shares of the whole trace, so hiding
categories does not inflate the rest. *Filtered* mode renormalizes against
the visible slice.

Intervals still running at the end of the capture are drawn hatched and are
excluded from duration totals.
`

// renderHelp renders the help markdown for the given width. Falls back to
// the raw markdown if the renderer cannot be built.
func renderHelp(width int) string {
	wrap := width - 4
	if wrap < 40 {
		wrap = 40
	}
	if wrap > 100 {
		wrap = 100
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return helpMarkdown
	}

	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	// Strip trailing whitespace that glamour adds
	return strings.TrimRight(out, "\n") + "\n"
}

package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/tracelane/pkg/timefmt"
)

// IntervalDelegate renders interval rows in the legend list.
type IntervalDelegate struct {
	Theme Theme
}

func (d IntervalDelegate) Height() int {
	return 1
}

func (d IntervalDelegate) Spacing() int {
	return 0
}

func (d IntervalDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d IntervalDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(IntervalItem)
	if !ok {
		return
	}

	t := d.Theme
	width := m.Width()
	if width <= 0 {
		width = 80
	}
	// Reduce width by 1 to prevent terminal wrapping on the exact edge
	width = width - 1

	isSelected := index == m.Index()

	iv := i.Interval

	// Layout: [sel] [category-badge] [name...] [duration] [ongoing]
	badge := RenderCategoryBadge(t, iv.Category)
	badgeWidth := lipgloss.Width(badge)

	dur := timefmt.Adaptive(iv.Duration, i.Unit)
	rightWidth := len(dur) + 1
	var ongoing string
	if iv.Ongoing {
		ongoing = RenderOngoingBadge(t)
		rightWidth += lipgloss.Width(ongoing) + 1
	}

	selector := "  "
	if isSelected {
		selector = t.PrimaryBold.Render("▸ ")
	}

	nameWidth := width - 2 - badgeWidth - 1 - rightWidth - 1
	if nameWidth < 8 {
		nameWidth = 8
	}
	name := padRight(truncate(iv.DisplayName, nameWidth), nameWidth)
	if isSelected {
		name = t.PrimaryBold.Render(name)
	} else {
		name = t.Base.Render(name)
	}

	line := fmt.Sprintf("%s%s %s %s", selector, badge, name, t.InfoText.Render(dur))
	if ongoing != "" {
		line += " " + ongoing
	}

	fmt.Fprint(w, line)
}

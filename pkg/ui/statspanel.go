package ui

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/tracelane/pkg/model"
	"github.com/vanderheijden86/tracelane/pkg/stats"
	"github.com/vanderheijden86/tracelane/pkg/timefmt"
)

// StatsPanel renders an aggregation report as a per-category breakdown with
// proportion bars.
type StatsPanel struct {
	theme Theme

	report stats.Report
	unit   model.Unit

	width  int
	height int
	scroll int
}

// NewStatsPanel creates an empty stats panel.
func NewStatsPanel(theme Theme) StatsPanel {
	return StatsPanel{theme: theme, width: 40, height: 20}
}

// SetReport replaces the displayed report.
func (p *StatsPanel) SetReport(report stats.Report, unit model.Unit) {
	p.report = report
	p.unit = unit
	p.scroll = 0
}

// SetSize updates the rendering area in cells.
func (p *StatsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// ScrollUp scrolls the category rows up.
func (p *StatsPanel) ScrollUp() {
	if p.scroll > 0 {
		p.scroll--
	}
}

// ScrollDown scrolls the category rows down.
func (p *StatsPanel) ScrollDown() {
	if p.scroll < len(p.report.Categories)-1 {
		p.scroll++
	}
}

// View renders the report.
func (p StatsPanel) View() string {
	t := p.theme
	var sb strings.Builder

	sb.WriteString(t.PrimaryBold.Render("Category breakdown"))
	sb.WriteString("  ")
	sb.WriteString(RenderModeBadge(t, p.report.Denominator.String()))
	sb.WriteString("\n\n")

	if len(p.report.Categories) == 0 {
		sb.WriteString(t.MutedText.Render("Nothing aggregated."))
		return sb.String()
	}

	nameWidth := 10
	barWidth := p.width - nameWidth - 24
	if barWidth < 6 {
		barWidth = 6
	}

	rows := p.height - 6
	if rows < 1 {
		rows = 1
	}
	end := p.scroll + rows
	if end > len(p.report.Categories) {
		end = len(p.report.Categories)
	}

	for _, cs := range p.report.Categories[p.scroll:end] {
		frac := cs.Percentage / 100
		sb.WriteString(padRight(truncate(cs.Category, nameWidth-1), nameWidth))
		sb.WriteString(RenderBar(t, frac, barWidth, t.CategoryColor(cs.Category)))
		sb.WriteString(fmt.Sprintf(" %5.1f%% ", cs.Percentage))
		sb.WriteString(t.InfoText.Render(timefmt.Adaptive(cs.TotalDuration, p.unit)))
		sb.WriteString(t.MutedText.Render(fmt.Sprintf(" ×%d", cs.Count)))
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", nameWidth))
		sb.WriteString(t.MutedText.Render(fmt.Sprintf("mean %s  med %s  p95 %s",
			timefmt.Adaptive(int64(cs.Mean), p.unit),
			timefmt.Adaptive(int64(cs.Median), p.unit),
			timefmt.Adaptive(int64(cs.P95), p.unit))))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(t.SecondaryText.Render(fmt.Sprintf("total %s of %s",
		timefmt.Adaptive(p.report.Total, p.unit),
		timefmt.Adaptive(p.report.DenominatorTotal, p.unit))))
	if p.report.OngoingExcluded > 0 {
		sb.WriteString(t.WarningText.Render(fmt.Sprintf("  %d running excluded", p.report.OngoingExcluded)))
	}

	return sb.String()
}

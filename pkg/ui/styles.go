package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
)

// Adaptive color palette. Light mode colors tuned for contrast on white
// backgrounds.
var (
	ColorBg          = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}
	ColorBgSubtle    = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#363949"}
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
	ColorText        = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}
	ColorInfo      = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
)

// RenderCategoryBadge renders a compact colored tag like [MAIN].
func RenderCategoryBadge(t Theme, category string) string {
	label := truncateRunesHelper(category, 8, "…")
	return t.Renderer.NewStyle().
		Foreground(t.CategoryColor(category)).
		Bold(true).
		Render(fmt.Sprintf("[%s]", label))
}

// RenderOngoingBadge marks an interval whose end was synthesized.
func RenderOngoingBadge(t Theme) string {
	return t.WarningText.Render("…running")
}

// RenderModeBadge renders the active denominator mode for the status bar.
func RenderModeBadge(t Theme, mode string) string {
	return t.Renderer.NewStyle().
		Foreground(ColorInfo).
		Bold(true).
		Render(fmt.Sprintf("%%:%s", mode))
}

// RenderBar renders a horizontal proportion bar of the given cell width.
// frac outside [0,1] is clamped.
func RenderBar(t Theme, frac float64, width int, color lipgloss.TerminalColor) string {
	if width <= 0 {
		return ""
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return t.Renderer.NewStyle().Foreground(color).Render(bar)
}

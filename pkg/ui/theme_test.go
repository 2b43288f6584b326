package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestDefaultThemeStylesInitialized(t *testing.T) {
	th := TestTheme()

	if th.Renderer == nil {
		t.Fatal("renderer is nil")
	}
	// Pre-computed styles must render without panicking and produce output.
	for name, s := range map[string]lipgloss.Style{
		"Base":        th.Base,
		"Selected":    th.Selected,
		"Header":      th.Header,
		"MutedText":   th.MutedText,
		"InfoText":    th.InfoText,
		"PrimaryBold": th.PrimaryBold,
		"WarningText": th.WarningText,
		"DangerText":  th.DangerText,
	} {
		if s.Render("x") == "" {
			t.Errorf("style %s rendered empty string", name)
		}
	}
}

func TestCategoryStyleKnownAndUnknown(t *testing.T) {
	th := TestTheme()

	if th.CategoryStyle("MAIN").Render("m") == "" {
		t.Error("known category style rendered empty")
	}
	if th.CategoryStyle("NOPE").Render("n") == "" {
		t.Error("unknown category style rendered empty")
	}
}

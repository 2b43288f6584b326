package ui

import (
	"testing"

	"github.com/vanderheijden86/tracelane/pkg/model"
)

func newTestForm(current model.FilterConfig) *FilterForm {
	return NewFilterForm(TestTheme(), []string{"MAIN", "ROM", "MEM"}, current, 0, 1000)
}

func TestFilterFormDefaultsToAllCategories(t *testing.T) {
	f := newTestForm(model.DefaultFilterConfig())

	if len(f.selected) != 3 {
		t.Errorf("preselected %d categories, want all 3", len(f.selected))
	}
	if f.windowed {
		t.Error("window enabled for default config")
	}
}

func TestFilterFormPreselectsSubset(t *testing.T) {
	current := model.DefaultFilterConfig().WithCategories("ROM")
	f := newTestForm(current)

	if len(f.selected) != 1 || f.selected[0] != "ROM" {
		t.Errorf("preselected = %v", f.selected)
	}
}

func TestFilterFormConfigAllSelectedMeansAll(t *testing.T) {
	f := newTestForm(model.DefaultFilterConfig())
	f.selected = []string{"MAIN", "ROM", "MEM"}

	cfg := f.Config()
	if cfg.CategoryMode != model.CategoryAll {
		t.Errorf("CategoryMode = %q, want all", cfg.CategoryMode)
	}
}

func TestFilterFormConfigSubset(t *testing.T) {
	f := newTestForm(model.DefaultFilterConfig())
	f.selected = []string{"MEM"}

	cfg := f.Config()
	if cfg.CategoryMode != model.CategorySubset {
		t.Fatalf("CategoryMode = %q", cfg.CategoryMode)
	}
	if _, ok := cfg.SelectedCategories["MEM"]; !ok {
		t.Error("MEM not in selected set")
	}
	if len(cfg.SelectedCategories) != 1 {
		t.Errorf("selected set size = %d", len(cfg.SelectedCategories))
	}
}

func TestFilterFormConfigWindow(t *testing.T) {
	f := newTestForm(model.DefaultFilterConfig())
	f.windowed = true
	f.startStr = "100"
	f.endStr = "900"

	cfg := f.Config()
	if cfg.TimeMode != model.TimeCustom {
		t.Fatalf("TimeMode = %q", cfg.TimeMode)
	}
	if cfg.WindowStart != 100 || cfg.WindowEnd != 900 {
		t.Errorf("window = [%d, %d]", cfg.WindowStart, cfg.WindowEnd)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestFilterFormValidateEndRejectsInvertedWindow(t *testing.T) {
	f := newTestForm(model.DefaultFilterConfig())
	f.startStr = "500"

	if err := f.validateEnd("400"); err == nil {
		t.Error("end before start accepted")
	}
	if err := f.validateEnd("600"); err != nil {
		t.Errorf("valid end rejected: %v", err)
	}
	if err := f.validateEnd("abc"); err == nil {
		t.Error("non-numeric end accepted")
	}
}

func TestValidateInt(t *testing.T) {
	if err := validateInt(" 42 "); err != nil {
		t.Errorf("whole number rejected: %v", err)
	}
	if err := validateInt("4.2"); err == nil {
		t.Error("decimal accepted")
	}
	if err := validateInt(""); err == nil {
		t.Error("empty accepted")
	}
}

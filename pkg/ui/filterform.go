package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/vanderheijden86/tracelane/pkg/model"
)

// FilterForm is the modal filter editor. It collects a category subset and an
// optional time window and produces a FilterConfig; an invalid window never
// leaves the form, so the previously active configuration stays in effect
// until a valid one is submitted.
type FilterForm struct {
	form  *huh.Form
	theme Theme

	categories []string
	traceMin   int64
	traceMax   int64

	// bound form values
	selected []string
	windowed bool
	startStr string
	endStr   string
}

// NewFilterForm builds the form pre-populated from the active config.
// categories is the full category list of the loaded trace.
func NewFilterForm(theme Theme, categories []string, current model.FilterConfig, traceMin, traceMax int64) *FilterForm {
	f := &FilterForm{
		theme:      theme,
		categories: categories,
		traceMin:   traceMin,
		traceMax:   traceMax,
		windowed:   current.TimeMode == model.TimeCustom,
	}

	if current.CategoryMode == model.CategorySubset {
		for _, cat := range categories {
			if _, ok := current.SelectedCategories[cat]; ok {
				f.selected = append(f.selected, cat)
			}
		}
	} else {
		f.selected = append(f.selected, categories...)
	}

	if f.windowed {
		f.startStr = strconv.FormatInt(current.WindowStart, 10)
		f.endStr = strconv.FormatInt(current.WindowEnd, 10)
	} else {
		f.startStr = strconv.FormatInt(traceMin, 10)
		f.endStr = strconv.FormatInt(traceMax, 10)
	}

	options := make([]huh.Option[string], len(categories))
	for i, cat := range categories {
		options[i] = huh.NewOption(cat, cat)
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Categories").
				Description("Selecting none or all shows everything").
				Options(options...).
				Value(&f.selected),
			huh.NewConfirm().
				Title("Restrict to a time window?").
				Value(&f.windowed),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Window start").
				Description(fmt.Sprintf("Trace spans %d – %d", traceMin, traceMax)).
				Value(&f.startStr).
				Validate(validateInt),
			huh.NewInput().
				Title("Window end").
				Value(&f.endStr).
				Validate(f.validateEnd),
		).WithHideFunc(func() bool { return !f.windowed }),
	).WithTheme(huh.ThemeDracula())

	return f
}

func validateInt(s string) error {
	if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err != nil {
		return fmt.Errorf("not a whole number")
	}
	return nil
}

// validateEnd enforces start < end inside the form so an inverted window is
// rejected at input time, before it could reach the engine.
func (f *FilterForm) validateEnd(s string) error {
	end, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fmt.Errorf("not a whole number")
	}
	start, err := strconv.ParseInt(strings.TrimSpace(f.startStr), 10, 64)
	if err != nil {
		return nil // start field reports its own error
	}
	if start >= end {
		return fmt.Errorf("end must be after start")
	}
	return nil
}

// Init implements tea.Model.
func (f *FilterForm) Init() tea.Cmd {
	return f.form.Init()
}

// Update forwards all message types to the huh form; huh needs more than key
// messages for its internal field navigation.
func (f *FilterForm) Update(msg tea.Msg) tea.Cmd {
	m, cmd := f.form.Update(msg)
	if form, ok := m.(*huh.Form); ok {
		f.form = form
	}
	return cmd
}

// View implements tea.Model.
func (f *FilterForm) View() string {
	return f.form.View()
}

// Completed reports whether the form was submitted.
func (f *FilterForm) Completed() bool {
	return f.form.State == huh.StateCompleted
}

// Aborted reports whether the form was cancelled.
func (f *FilterForm) Aborted() bool {
	return f.form.State == huh.StateAborted
}

// Config builds the FilterConfig from the submitted values. The caller still
// runs Validate; a config that fails it keeps the previous one active.
func (f *FilterForm) Config() model.FilterConfig {
	cfg := model.DefaultFilterConfig()

	// A subset covering every category is the same selection as all-mode.
	if len(f.selected) > 0 && len(f.selected) < len(f.categories) {
		cfg = cfg.WithCategories(f.selected...)
	}

	if f.windowed {
		start, err1 := strconv.ParseInt(strings.TrimSpace(f.startStr), 10, 64)
		end, err2 := strconv.ParseInt(strings.TrimSpace(f.endStr), 10, 64)
		if err1 == nil && err2 == nil {
			cfg = cfg.WithWindow(start, end)
		}
	}

	return cfg
}

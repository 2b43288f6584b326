package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/tracelane/internal/datasource"
	"github.com/vanderheijden86/tracelane/pkg/chart"
	"github.com/vanderheijden86/tracelane/pkg/config"
	"github.com/vanderheijden86/tracelane/pkg/debug"
	"github.com/vanderheijden86/tracelane/pkg/filter"
	"github.com/vanderheijden86/tracelane/pkg/metrics"
	"github.com/vanderheijden86/tracelane/pkg/model"
	"github.com/vanderheijden86/tracelane/pkg/search"
	"github.com/vanderheijden86/tracelane/pkg/stats"
	"github.com/vanderheijden86/tracelane/pkg/timefmt"
	"github.com/vanderheijden86/tracelane/pkg/trace"
	"github.com/vanderheijden86/tracelane/pkg/watcher"
)

// View width threshold below which the stats pane is hidden.
const SplitViewThreshold = 100

// focus represents which UI element has keyboard focus
type focus int

const (
	focusTimeline focus = iota
	focusLegend
	focusStats
)

// FileChangedMsg is sent when the trace file changes on disk.
type FileChangedMsg struct{}

// TraceLoadedMsg carries the result of a background reload. Gen identifies
// the reload that produced it; stale generations are discarded so the last
// requested load always wins.
type TraceLoadedMsg struct {
	Gen   uint64
	Trace *trace.Trace
	Err   error
}

// SnapshotDoneMsg reports the outcome of a snapshot export.
type SnapshotDoneMsg struct {
	Base string
	Err  error
}

// statusExpireMsg clears a transient status line message.
type statusExpireMsg struct {
	id int
}

// WatchFileCmd returns a command that waits for file changes and sends
// FileChangedMsg.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// LoadTraceCmd reloads the trace file off the UI goroutine.
func LoadTraceCmd(gen uint64, path string, opts datasource.LoadOptions) tea.Cmd {
	return func() tea.Msg {
		tr, err := datasource.LoadTrace(context.Background(), path, opts)
		return TraceLoadedMsg{Gen: gen, Trace: tr, Err: err}
	}
}

func statusExpireCmd(id int) tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return statusExpireMsg{id: id}
	})
}

// Model is the main Bubble Tea model for tlv.
type Model struct {
	// Data
	tr        *trace.Trace
	tracePath string
	loadOpts  datasource.LoadOptions
	watcher   *watcher.Watcher
	appCfg    config.Config

	// Reload bookkeeping. loadGen only changes inside Update, which Bubble
	// Tea never runs concurrently, so no atomics are needed.
	loadGen uint64
	loading bool

	// Selection state
	filterCfg   model.FilterConfig
	searchText  string
	denominator stats.Denominator
	visible     []*model.Interval
	report      stats.Report

	// UI components
	theme      Theme
	timeline   TimelineModel
	legend     list.Model
	statsPanel StatsPanel
	searchBar  textinput.Model
	helpView   viewport.Model
	filterForm *FilterForm

	// Focus and view state
	focused      focus
	searchActive bool
	showFilter   bool
	showHelp     bool
	showStats    bool
	ready        bool
	width        int
	height       int
	splitRatio   float64

	statusMsg string
	statusID  int
}

// NewModel builds the root model around an already loaded trace.
func NewModel(tr *trace.Trace, tracePath string, appCfg config.Config) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())

	legend := list.New(nil, IntervalDelegate{Theme: theme}, 40, 20)
	legend.SetShowTitle(false)
	legend.SetShowStatusBar(false)
	legend.SetShowHelp(false)
	legend.SetFilteringEnabled(false)
	legend.DisableQuitKeybindings()

	searchBar := textinput.New()
	searchBar.Placeholder = "search name, category or subtask"
	searchBar.Prompt = "/ "
	searchBar.CharLimit = 120

	denom := stats.DenomGlobal
	if appCfg.UI.DenominatorMode == "filtered" {
		denom = stats.DenomFiltered
	}

	ratio := appCfg.UI.SplitRatio
	if ratio < 0.2 || ratio > 0.8 {
		ratio = 0.6
	}

	m := Model{
		tr:          tr,
		tracePath:   tracePath,
		appCfg:      appCfg,
		filterCfg:   model.DefaultFilterConfig(),
		denominator: denom,
		theme:       theme,
		timeline:    NewTimeline(theme),
		legend:      legend,
		statsPanel:  NewStatsPanel(theme),
		searchBar:   searchBar,
		helpView:    viewport.New(80, 20),
		showStats:   true,
		ready:       true,
		width:       80,
		height:      24,
		splitRatio:  ratio,
	}
	m.loadOpts = datasource.LoadOptions{
		Trace: trace.Options{
			Unit:          unitFromConfig(appCfg),
			SyntheticSpan: appCfg.Trace.SyntheticSpan,
		},
	}
	m.refresh()
	return m
}

// WithWatcher attaches a file watcher for live reload.
func (m Model) WithWatcher(w *watcher.Watcher) Model {
	m.watcher = w
	return m
}

// Stop releases background resources.
func (m Model) Stop() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
}

func unitFromConfig(cfg config.Config) model.Unit {
	if cfg.Trace.Unit == "us" {
		return model.UnitMicros
	}
	return model.UnitNanos
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return WatchFileCmd(m.watcher)
	}
	return nil
}

// refresh recomputes the visible set and everything derived from it. The
// filter always runs against the canonical list, never against a previous
// filter's output.
func (m *Model) refresh() {
	if m.tr == nil {
		m.visible = nil
		return
	}

	stop := metrics.Timer(metrics.FilterApply)
	visible, err := filter.Apply(m.tr, m.filterCfg)
	stop()
	if err != nil {
		// Keep the previous config active; the filter form normally rejects
		// invalid windows before they get here.
		m.setStatus(fmt.Sprintf("filter rejected: %v", err))
		m.filterCfg = model.DefaultFilterConfig()
		visible, _ = filter.Apply(m.tr, m.filterCfg)
	}

	if m.searchText != "" {
		stop := metrics.Timer(metrics.SearchQuery)
		visible = search.Query(visible, m.searchText, "")
		stop()
	}
	m.visible = visible

	m.timeline.SetIntervals(visible, m.tr.Unit)
	m.timeline.SetRange(m.visibleRange())

	items := make([]list.Item, len(visible))
	for i, it := range buildItems(visible, m.tr.Unit) {
		items[i] = it
	}
	m.legend.SetItems(items)

	stop = metrics.Timer(metrics.Aggregate)
	m.report = stats.Aggregate(visible, stats.Options{
		Denominator: m.denominator,
		GlobalTotal: m.tr.TotalDuration(),
	})
	stop()
	m.statsPanel.SetReport(m.report, m.tr.Unit)
}

// visibleRange is the time extent lanes are scaled to: the custom window
// when one is active, the trace extent otherwise.
func (m *Model) visibleRange() (int64, int64) {
	if m.filterCfg.TimeMode == model.TimeCustom {
		return m.filterCfg.WindowStart, m.filterCfg.WindowEnd
	}
	return m.tr.MinTime, m.tr.MaxTime
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusID++
}

func (m *Model) layout() {
	headerH := 1
	statusH := 1
	bodyH := m.height - headerH - statusH
	if m.searchActive {
		bodyH--
	}
	if bodyH < 4 {
		bodyH = 4
	}

	if m.width < SplitViewThreshold {
		m.showStats = false
	} else {
		m.showStats = true
	}

	leftW := m.width
	if m.showStats {
		leftW = int(float64(m.width) * m.splitRatio)
	}

	m.timeline.SetSize(leftW, bodyH)

	rightW := m.width - leftW - 1
	if rightW < 20 {
		rightW = 20
	}
	legendH := bodyH / 2
	m.legend.SetSize(rightW, legendH)
	m.statsPanel.SetSize(rightW, bodyH-legendH)

	m.helpView.Width = m.width
	m.helpView.Height = bodyH
	m.helpView.SetContent(renderHelp(m.width))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The filter form gets every message type while open: huh needs non-key
	// messages for its internal field navigation.
	if m.showFilter && m.filterForm != nil {
		cmds = append(cmds, m.filterForm.Update(msg))

		if m.filterForm.Aborted() {
			m.showFilter = false
			m.filterForm = nil
			return m, tea.Batch(cmds...)
		}
		if m.filterForm.Completed() {
			cfg := m.filterForm.Config()
			m.showFilter = false
			m.filterForm = nil
			if err := cfg.Validate(); err != nil {
				// Previous config stays active.
				m.setStatus(fmt.Sprintf("invalid filter: %v", err))
				cmds = append(cmds, statusExpireCmd(m.statusID))
				return m, tea.Batch(cmds...)
			}
			m.filterCfg = cfg
			m.refresh()
			return m, tea.Batch(cmds...)
		}

		// Window size still matters for the layout behind the modal.
		if size, ok := msg.(tea.WindowSizeMsg); ok {
			m.width, m.height = size.Width, size.Height
			m.layout()
		}
		return m, tea.Batch(cmds...)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case FileChangedMsg:
		m.loadGen++
		m.loading = true
		debug.Log("trace file changed, reloading (gen %d)", m.loadGen)
		cmds = append(cmds, LoadTraceCmd(m.loadGen, m.tracePath, m.loadOpts))
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case TraceLoadedMsg:
		if msg.Gen != m.loadGen {
			debug.Log("dropping stale reload result (gen %d, want %d)", msg.Gen, m.loadGen)
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			if errors.Is(msg.Err, model.ErrEmptyTrace) {
				m.setStatus("reload: trace is empty, keeping previous data")
			} else {
				m.setStatus(fmt.Sprintf("reload failed: %v", msg.Err))
			}
			return m, statusExpireCmd(m.statusID)
		}
		m.tr = msg.Trace
		m.refresh()
		m.setStatus(fmt.Sprintf("reloaded %d intervals", len(m.tr.Intervals)))
		return m, statusExpireCmd(m.statusID)

	case SnapshotDoneMsg:
		if msg.Err != nil {
			m.setStatus(fmt.Sprintf("snapshot failed: %v", msg.Err))
		} else {
			m.setStatus(fmt.Sprintf("snapshot written: %s.{svg,png}", msg.Base))
		}
		return m, statusExpireCmd(m.statusID)

	case statusExpireMsg:
		if msg.id == m.statusID {
			m.statusMsg = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Search bar captures keystrokes while active.
	if m.searchActive {
		switch msg.String() {
		case "esc":
			m.searchActive = false
			m.searchBar.Blur()
			m.searchBar.SetValue("")
			m.searchText = ""
			m.refresh()
			m.layout()
			return m, nil
		case "enter":
			m.searchActive = false
			m.searchBar.Blur()
			m.layout()
			return m, nil
		default:
			var cmd tea.Cmd
			m.searchBar, cmd = m.searchBar.Update(msg)
			if text := m.searchBar.Value(); text != m.searchText {
				m.searchText = text
				m.refresh()
			}
			return m, cmd
		}
	}

	if m.showHelp {
		switch msg.String() {
		case "esc", "q", "?":
			m.showHelp = false
			return m, nil
		default:
			var cmd tea.Cmd
			m.helpView, cmd = m.helpView.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		m.helpView.GotoTop()
		return m, nil

	case "tab":
		m.focused = m.nextFocus()
		return m, nil

	case "/":
		m.searchActive = true
		m.searchBar.Focus()
		m.layout()
		return m, textinput.Blink

	case "f":
		if m.tr == nil {
			return m, nil
		}
		form := NewFilterForm(m.theme, m.tr.Categories, m.filterCfg, m.tr.MinTime, m.tr.MaxTime)
		m.filterForm = form
		m.showFilter = true
		return m, form.Init()

	case "F":
		m.filterCfg = model.DefaultFilterConfig()
		m.refresh()
		m.setStatus("filters reset")
		return m, statusExpireCmd(m.statusID)

	case "d":
		if m.denominator == stats.DenomGlobal {
			m.denominator = stats.DenomFiltered
		} else {
			m.denominator = stats.DenomGlobal
		}
		m.refresh()
		return m, nil

	case "r":
		m.loadGen++
		m.loading = true
		return m, LoadTraceCmd(m.loadGen, m.tracePath, m.loadOpts)

	case "y":
		return m.yankSelected()

	case "S":
		return m.exportSnapshot()
	}

	return m.handleNavKey(msg)
}

func (m Model) nextFocus() focus {
	switch m.focused {
	case focusTimeline:
		return focusLegend
	case focusLegend:
		if m.showStats {
			return focusStats
		}
		return focusTimeline
	default:
		return focusTimeline
	}
}

func (m Model) handleNavKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focused {
	case focusTimeline:
		switch msg.String() {
		case "up", "k":
			m.timeline.CursorUp()
		case "down", "j":
			m.timeline.CursorDown()
		case "pgup":
			m.timeline.PageUp()
		case "pgdown":
			m.timeline.PageDown()
		case "g", "home":
			m.timeline.GotoTop()
		case "G", "end":
			m.timeline.GotoBottom()
		}
		return m, nil

	case focusLegend:
		var cmd tea.Cmd
		m.legend, cmd = m.legend.Update(msg)
		// Keep the timeline cursor in step with the legend selection.
		m.timeline.SetCursor(m.legend.Index())
		return m, cmd

	case focusStats:
		switch msg.String() {
		case "up", "k":
			m.statsPanel.ScrollUp()
		case "down", "j":
			m.statsPanel.ScrollDown()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) yankSelected() (tea.Model, tea.Cmd) {
	var iv *model.Interval
	if m.focused == focusLegend {
		if item, ok := m.legend.SelectedItem().(IntervalItem); ok {
			iv = item.Interval
		}
	} else {
		iv = m.timeline.Selected()
	}
	if iv == nil {
		return m, nil
	}

	text := IntervalItem{Interval: iv, Unit: m.tr.Unit}.ClipboardText()
	if err := clipboard.WriteAll(text); err != nil {
		m.setStatus(fmt.Sprintf("clipboard: %v", err))
	} else {
		m.setStatus(fmt.Sprintf("copied %s", iv.DisplayName))
	}
	return m, statusExpireCmd(m.statusID)
}

func (m Model) exportSnapshot() (tea.Model, tea.Cmd) {
	if len(m.visible) == 0 {
		m.setStatus("nothing to export")
		return m, statusExpireCmd(m.statusID)
	}

	minT, maxT := m.visibleRange()
	base := filepath.Join(config.DataDir(), "snapshots",
		fmt.Sprintf("trace-%s", time.Now().Format("20060102-150405")))
	opts := chart.SnapshotOptions{
		Title:     filepath.Base(m.tracePath),
		Intervals: m.visible,
		Unit:      m.tr.Unit,
		MinTime:   minT,
		MaxTime:   maxT,
	}

	return m, func() tea.Msg {
		stop := metrics.Timer(metrics.ChartRender)
		err := chart.SaveSnapshotBoth(base, opts)
		stop()
		return SnapshotDoneMsg{Base: base, Err: err}
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	stop := metrics.Timer(metrics.UIRender)
	defer stop()

	if m.showFilter && m.filterForm != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.filterForm.View())
	}

	header := m.renderHeader()

	var body string
	if m.showHelp {
		body = m.helpView.View()
	} else if m.showStats {
		left := m.timeline.View()
		right := lipgloss.JoinVertical(lipgloss.Left, m.legend.View(), m.statsPanel.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	} else {
		body = m.timeline.View()
	}

	parts := []string{header, body}
	if m.searchActive {
		parts = append(parts, m.searchBar.View())
	}
	parts = append(parts, m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	t := m.theme
	title := t.Header.Render(" tlv ")

	var span string
	if m.tr != nil {
		span = t.MutedText.Render(fmt.Sprintf(" %s  span %s  %d intervals",
			filepath.Base(m.tracePath),
			timefmt.Adaptive(m.tr.Span(), m.tr.Unit),
			len(m.tr.Intervals)))
	}

	filterHint := ""
	if m.filterCfg.CategoryMode == model.CategorySubset || m.filterCfg.TimeMode == model.TimeCustom {
		filterHint = t.WarningText.Render("  [filtered]")
	}
	if m.searchText != "" {
		filterHint += t.WarningText.Render(fmt.Sprintf("  /%s", m.searchText))
	}

	return title + span + filterHint
}

func (m Model) renderStatusBar() string {
	t := m.theme

	if m.statusMsg != "" {
		return t.InfoText.Render(m.statusMsg)
	}

	var left string
	if m.loading {
		left = t.WarningText.Render("reloading… ")
	}
	left += t.MutedText.Render(m.timeline.StatusLine())

	right := RenderModeBadge(t, m.denominator.String()) +
		t.MutedText.Render("  ?:help f:filter /:search d:denominator y:yank S:snapshot q:quit")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + padRight("", gap) + right
}

package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	parkdto "parkwatch/internal/modules/park/dto"
	stopwatchdto "parkwatch/internal/modules/stopwatch/dto"
	zonedto "parkwatch/internal/modules/zone/dto"
	"parkwatch/internal/ui/components"
	"parkwatch/internal/ui/theme"
	dashboardview "parkwatch/internal/ui/views/dashboard"
	logtableview "parkwatch/internal/ui/views/logtable"
	zonesview "parkwatch/internal/ui/views/zones"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.

type stopwatchPort interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) (stopwatchdto.StopOutput, error)
	Reset(ctx context.Context) error
	ToggleExternalClock(ctx context.Context) error
	ToggleAutoStart(ctx context.Context) error
	Snapshot(ctx context.Context) stopwatchdto.SnapshotOutput
	Entries(ctx context.Context) []stopwatchdto.LogEntryOutput
	Follow(ctx context.Context) <-chan stopwatchdto.LogEntryOutput
}

type parkPort interface {
	Status(ctx context.Context) parkdto.StatusOutput
}

type zonePort interface {
	List(ctx context.Context) ([]zonedto.ZoneOutput, error)
	Classify(ctx context.Context, x, y float64) (zonedto.ClassificationOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabDashboard tabID = iota
	tabLog
	tabZones
	tabCount
)

var tabLabels = [tabCount]string{
	"Dashboard", "Log", "Zones",
}

// ─── async messages ───────────────────────────────────────────────────────────

type tickMsg time.Time

type entryMsg struct {
	entry stopwatchdto.LogEntryOutput
	ok    bool
}

type commandDoneMsg struct {
	status string
	err    error
}

type zonesLoadedMsg struct {
	zones []zonedto.ZoneOutput
	err   error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab       key.Binding
	Help      key.Binding
	Palette   key.Binding
	Quit      key.Binding
	Start     key.Binding
	Stop      key.Binding
	Reset     key.Binding
	External  key.Binding
	AutoStart key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:   key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:     key.NewBinding(key.WithKeys(" ", "s"), key.WithHelp("space", "start")),
		Stop:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		External:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "toggle sim clock")),
		AutoStart: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle auto start")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Reset, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.Reset},
		{k.External, k.AutoStart},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It polls snapshots on every display
// tick and streams log entries; all state changes go through the ports.
type Model struct {
	ctx     context.Context
	refresh time.Duration

	stopwatch stopwatchPort
	park      parkPort
	zones     zonePort
	follow    <-chan stopwatchdto.LogEntryOutput

	dashView  dashboardview.Model
	logView   logtableview.Model
	zonesView zonesview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	recent    []stopwatchdto.LogEntryOutput
	backlog   map[entryKey]struct{}
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

// NewModel subscribes to the session log for the lifetime of ctx and
// redraws every refresh interval.
func NewModel(ctx context.Context, stopwatch stopwatchPort, park parkPort, zones zonePort, refresh time.Duration) Model {
	if refresh <= 0 {
		refresh = time.Second / 60
	}
	m := Model{
		ctx:       ctx,
		refresh:   refresh,
		stopwatch: stopwatch,
		park:      park,
		zones:     zones,
		follow:    stopwatch.Follow(ctx),
		dashView:  dashboardview.New(),
		logView:   logtableview.New(),
		zonesView: zonesview.New(),
		activeTab: tabDashboard,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(),
		status:    "ready",
	}
	backlog := stopwatch.Entries(ctx)
	m.backlog = make(map[entryKey]struct{}, len(backlog))
	for _, e := range backlog {
		m.backlog[keyOf(e)] = struct{}{}
	}
	m.addEntries(backlog...)
	m.refreshData()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.waitEntryCmd(),
		m.loadZonesCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case tickMsg:
		m.refreshData()
		return m, m.tickCmd()

	case entryMsg:
		if !msg.ok {
			return m, nil
		}
		if !m.replayed(msg.entry) {
			m.addEntries(msg.entry)
		}
		return m, m.waitEntryCmd()

	case zonesLoadedMsg:
		m.zonesView.SetZones(msg.zones, msg.err)
		return m, nil

	case commandDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = msg.status
		}
		m.refreshData()
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil
	}

	// The palette takes keys and its own input messages while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case msg.String() == "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case msg.String() == "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
		case key.Matches(msg, m.keys.Palette):
			return m, m.palette.Open()
		case key.Matches(msg, m.keys.Start):
			m.status = "starting…"
			return m, m.startCmd()
		case key.Matches(msg, m.keys.Stop):
			return m, m.stopCmd()
		case key.Matches(msg, m.keys.Reset):
			return m, m.resetCmd()
		case key.Matches(msg, m.keys.External):
			return m, m.toggleCmd("external clock", m.stopwatch.ToggleExternalClock)
		case key.Matches(msg, m.keys.AutoStart):
			return m, m.toggleCmd("auto start", m.stopwatch.ToggleAutoStart)
		}
	}

	if m.activeTab == tabLog {
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.activeView())
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabLog:
		return m.logView.View()
	case tabZones:
		return m.zonesView.View()
	default:
		return m.dashView.View()
	}
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "parkwatch  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	snap := m.stopwatch.Snapshot(m.ctx)
	if snap.Active {
		left = theme.Hot.Render("● "+components.FormatElapsed(snap.Authoritative())) + "  " + left
	}
	right := theme.Muted.Render("space:start  x:stop  r:reset  ?:help  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette ─────────────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "start":
		m.status = "starting…"
		return m, m.startCmd()

	case "stop":
		return m, m.stopCmd()

	case "reset":
		return m, m.resetCmd()

	case "clock:external", "autostart":
		if len(parts) < 2 || (parts[1] != "on" && parts[1] != "off") {
			m.status = "usage: " + parts[0] + " <on|off>"
			return m, nil
		}
		want := parts[1] == "on"
		snap := m.stopwatch.Snapshot(m.ctx)
		current, label, toggle := snap.UseExternalClock, "external clock", m.stopwatch.ToggleExternalClock
		if parts[0] == "autostart" {
			current, label, toggle = snap.AutoStartEnabled, "auto start", m.stopwatch.ToggleAutoStart
		}
		if current == want {
			m.status = label + " already " + parts[1]
			return m, nil
		}
		return m, m.toggleCmd(label, toggle)

	case "zone:classify":
		if len(parts) < 3 {
			m.status = "usage: zone:classify <x> <y>"
			return m, nil
		}
		x, errX := strconv.ParseFloat(parts[1], 64)
		y, errY := strconv.ParseFloat(parts[2], 64)
		if errX != nil || errY != nil {
			m.status = "invalid coordinates"
			return m, nil
		}
		return m, m.classifyCmd(x, y)

	default:
		m.status = "unknown command: " + parts[0]
		return m, nil
	}
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	contentH := m.height - 3
	if contentH < 1 {
		contentH = 1
	}
	m.dashView.SetSize(m.width, contentH)
	m.logView.SetSize(m.width-4, contentH)
}

func (m *Model) refreshData() {
	status := m.park.Status(m.ctx)
	m.dashView.SetData(m.stopwatch.Snapshot(m.ctx), status, m.recent)
	if status.HasSample {
		m.zonesView.SetCurrent(status.Zone)
	} else {
		m.zonesView.SetCurrent(-1)
	}
}

type entryKey struct {
	at      int64
	kind    string
	message string
}

func keyOf(e stopwatchdto.LogEntryOutput) entryKey {
	return entryKey{at: e.At.UnixNano(), kind: e.Kind, message: e.Message}
}

// replayed reports whether a followed entry was already loaded from the
// backlog. The backlog is dropped at the first entry it does not hold.
func (m *Model) replayed(e stopwatchdto.LogEntryOutput) bool {
	if len(m.backlog) == 0 {
		return false
	}
	k := keyOf(e)
	if _, ok := m.backlog[k]; ok {
		delete(m.backlog, k)
		return true
	}
	m.backlog = nil
	return false
}

func (m *Model) addEntries(entries ...stopwatchdto.LogEntryOutput) {
	if len(entries) == 0 {
		return
	}
	m.recent = append(m.recent, entries...)
	if over := len(m.recent) - 32; over > 0 {
		m.recent = append(m.recent[:0:0], m.recent[over:]...)
	}
	m.logView.Append(entries...)
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) waitEntryCmd() tea.Cmd {
	follow := m.follow
	return func() tea.Msg {
		entry, ok := <-follow
		return entryMsg{entry: entry, ok: ok}
	}
}

func (m Model) loadZonesCmd() tea.Cmd {
	return func() tea.Msg {
		zones, err := m.zones.List(m.ctx)
		return zonesLoadedMsg{zones: zones, err: err}
	}
}

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.stopwatch.Start(m.ctx); err != nil {
			return commandDoneMsg{err: err}
		}
		return commandDoneMsg{status: "timing"}
	}
}

func (m Model) stopCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.stopwatch.Stop(m.ctx)
		if err != nil {
			return commandDoneMsg{err: err}
		}
		if !out.Stopped {
			return commandDoneMsg{status: "not running"}
		}
		return commandDoneMsg{status: "stopped at " + components.FormatElapsed(out.Elapsed)}
	}
}

func (m Model) resetCmd() tea.Cmd {
	return func() tea.Msg {
		return commandDoneMsg{status: "reset", err: m.stopwatch.Reset(m.ctx)}
	}
}

func (m Model) toggleCmd(label string, toggle func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := toggle(m.ctx); err != nil {
			return commandDoneMsg{err: err}
		}
		state := "off"
		snap := m.stopwatch.Snapshot(m.ctx)
		if (label == "external clock" && snap.UseExternalClock) || (label == "auto start" && snap.AutoStartEnabled) {
			state = "on"
		}
		return commandDoneMsg{status: label + " " + state}
	}
}

func (m Model) classifyCmd(x, y float64) tea.Cmd {
	return func() tea.Msg {
		out, err := m.zones.Classify(m.ctx, x, y)
		if err != nil {
			return commandDoneMsg{err: err}
		}
		return commandDoneMsg{status: fmt.Sprintf("(%.3f, %.3f) → %s", x, y, out.Name)}
	}
}

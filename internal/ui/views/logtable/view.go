package logtable

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	stopwatchdto "parkwatch/internal/modules/stopwatch/dto"
	"parkwatch/internal/ui/components"
	"parkwatch/internal/ui/theme"
)

type Model struct {
	table   table.Model
	entries []stopwatchdto.LogEntryOutput
	follow  bool
	width   int
	height  int
}

func New() Model {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Surface1).
		BorderBottom(true).
		Foreground(theme.Sapphire).
		Bold(true)
	styles.Selected = styles.Selected.Foreground(theme.Base).Background(theme.Lavender)
	t.SetStyles(styles)
	return Model{table: t, follow: true}
}

func columns(width int) []table.Column {
	msgW := width - 14 - 16 - 12 - 8
	if msgW < 20 {
		msgW = 20
	}
	return []table.Column{
		{Title: "Time", Width: 14},
		{Title: "Kind", Width: 16},
		{Title: "Elapsed", Width: 12},
		{Title: "Message", Width: msgW},
	}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetColumns(columns(width))
	if height > 4 {
		m.table.SetHeight(height - 4)
	}
}

// Append adds entries to the table and keeps the newest row selected
// unless the user has scrolled away from it.
func (m *Model) Append(entries ...stopwatchdto.LogEntryOutput) {
	m.entries = append(m.entries, entries...)
	rows := make([]table.Row, 0, len(m.entries))
	for _, entry := range m.entries {
		rows = append(rows, row(entry))
	}
	m.table.SetRows(rows)
	if m.follow {
		m.table.GotoBottom()
	}
}

func (m Model) Len() int { return len(m.entries) }

func row(entry stopwatchdto.LogEntryOutput) table.Row {
	elapsed := ""
	if entry.Kind == "stopped" || entry.Kind == "parked" {
		elapsed = components.FormatElapsed(entry.Elapsed)
	}
	return table.Row{entry.At.Format("15:04:05.000"), entry.Kind, elapsed, entry.Message}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	m.follow = m.table.Cursor() >= len(m.entries)-1
	return m, cmd
}

func (m Model) View() string {
	title := theme.Title.Render(fmt.Sprintf("Session log (%d)", len(m.entries)))
	return theme.Pane.Render(title + "\n" + m.table.View())
}

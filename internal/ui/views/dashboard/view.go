package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	parkdto "parkwatch/internal/modules/park/dto"
	stopwatchdto "parkwatch/internal/modules/stopwatch/dto"
	"parkwatch/internal/ui/components"
	"parkwatch/internal/ui/theme"
)

// Model renders the live telemetry and both clocks. It holds the last
// polled values only and never calls back into the core.
type Model struct {
	snapshot stopwatchdto.SnapshotOutput
	status   parkdto.StatusOutput
	recent   []stopwatchdto.LogEntryOutput
	width    int
	height   int
}

func New() Model {
	return Model{}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetData replaces the values shown on the next View.
func (m *Model) SetData(snapshot stopwatchdto.SnapshotOutput, status parkdto.StatusOutput, recent []stopwatchdto.LogEntryOutput) {
	m.snapshot = snapshot
	m.status = status
	m.recent = recent
}

func (m Model) View() string {
	paneW := m.width/2 - 2
	if paneW < 30 {
		paneW = 30
	}
	clocks := theme.PaneActive.Width(paneW).Render(m.renderClocks())
	telemetry := theme.Pane.Width(paneW).Render(m.renderTelemetry())
	top := lipgloss.JoinHorizontal(lipgloss.Top, clocks, telemetry)

	logW := m.width - 2
	if logW < 30 {
		logW = 30
	}
	log := theme.Pane.Width(logW).Render(m.renderRecent())
	return lipgloss.JoinVertical(lipgloss.Left, top, log)
}

func (m Model) renderClocks() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Stopwatch") + "\n\n")

	wallLabel, extLabel := "wall", "external"
	if m.snapshot.UseExternalClock {
		extLabel = "external ★"
	} else {
		wallLabel = "wall ★"
	}
	ext := components.FormatElapsed(m.snapshot.ExternalElapsed)
	if !m.snapshot.ExternalSynced {
		ext += theme.Warn.Render("  (no sim time)")
	}
	sb.WriteString(fmt.Sprintf("%-11s %s\n", extLabel, theme.Clock.Render(ext)))
	sb.WriteString(fmt.Sprintf("%-11s %s\n\n", wallLabel, theme.Clock.Render(components.FormatElapsed(m.snapshot.WallElapsed))))

	state := theme.Muted.Render("○ idle")
	if m.snapshot.Active {
		state = theme.Hot.Render("● timing")
	}
	sb.WriteString(state + "\n")
	sb.WriteString(flag("external clock", m.snapshot.UseExternalClock) + "\n")
	sb.WriteString(flag("auto start", m.snapshot.AutoStartEnabled))
	return sb.String()
}

func (m Model) renderTelemetry() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Robot") + "\n\n")
	if !m.status.HasSample {
		sb.WriteString(theme.Muted.Render("waiting for motion feed…"))
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("position  (%.3f, %.3f)\n", m.status.X, m.status.Y))
	sb.WriteString("speed     " + components.FormatSpeed(m.status.Speed) + "\n")

	zone := m.status.ZoneName
	switch m.status.ZoneKind {
	case "park":
		zone = theme.Good.Render(zone)
	case "neutral":
		zone = theme.Hot.Render(zone)
	default:
		zone = theme.Muted.Render(zone)
	}
	sb.WriteString("zone      " + zone + "\n")
	sb.WriteString("detector  " + m.status.State + "\n")
	if !m.status.Fresh {
		sb.WriteString(theme.Warn.Render("feed quiet, holding last sample"))
	}
	return sb.String()
}

func (m Model) renderRecent() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Recent") + "\n")
	if len(m.recent) == 0 {
		sb.WriteString(theme.Muted.Render("no entries"))
		return sb.String()
	}
	rows := m.height - 16
	if rows < 3 {
		rows = 3
	}
	start := len(m.recent) - rows
	if start < 0 {
		start = 0
	}
	for _, entry := range m.recent[start:] {
		line := entry.At.Format("15:04:05.000") + "  " + entry.Message
		switch entry.Kind {
		case "command_failed":
			line = theme.Bad.Render(line)
		case "notice":
			line = theme.Warn.Render(line)
		case "parked", "stopped":
			line = theme.Good.Render(line)
		}
		sb.WriteString(line + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func flag(label string, on bool) string {
	if on {
		return theme.Good.Render("✓") + " " + label
	}
	return theme.Muted.Render("✗ " + label)
}

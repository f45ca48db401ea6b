package zones

import (
	"fmt"
	"strings"

	zonedto "parkwatch/internal/modules/zone/dto"
	"parkwatch/internal/ui/theme"
)

// Model lists the configured zones and marks the one the robot is in.
type Model struct {
	zones   []zonedto.ZoneOutput
	err     error
	current int
	inZone  bool
}

func New() Model {
	return Model{current: -1}
}

func (m *Model) SetZones(zones []zonedto.ZoneOutput, err error) {
	m.zones = zones
	m.err = err
}

// SetCurrent highlights zone id; a negative id clears the highlight.
func (m *Model) SetCurrent(id int) {
	m.current = id
	m.inZone = id >= 0
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Zones") + "  " + theme.Muted.Render("priority order, bounding-box containment") + "\n\n")
	if m.err != nil {
		sb.WriteString(theme.Bad.Render(m.err.Error()))
		return theme.Pane.Render(sb.String())
	}
	for _, z := range m.zones {
		marker := "  "
		line := fmt.Sprintf("%-14s x[%7.3f, %7.3f]  y[%7.3f, %7.3f]  %d points",
			z.Name, z.Min.X, z.Max.X, z.Min.Y, z.Max.Y, len(z.Points))
		if m.inZone && z.ID == m.current {
			marker = theme.Hot.Render("▶ ")
			line = theme.Hot.Render(line)
		}
		sb.WriteString(marker + line + "\n")
	}
	return theme.Pane.Render(strings.TrimRight(sb.String(), "\n"))
}

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"parkwatch/internal/ui/theme"
)

// PaletteSubmitMsg carries the command line the user confirmed.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

// Command is a palette verb and its argument synopsis.
type Command struct {
	Verb string
	Args string
}

func (c Command) String() string {
	if c.Args == "" {
		return c.Verb
	}
	return c.Verb + " " + c.Args
}

// Commands must stay in sync with app.Model.executePalette.
var Commands = []Command{
	{Verb: "start"},
	{Verb: "stop"},
	{Verb: "reset"},
	{Verb: "clock:external", Args: "<on|off>"},
	{Verb: "autostart", Args: "<on|off>"},
	{Verb: "zone:classify", Args: "<x> <y>"},
}

const historyLimit = 16

var paletteStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.Peach).
	Background(theme.Mantle).
	Padding(0, 1)

// Palette is the dashboard command line. Tab completes the verb and
// up/down walk previously submitted lines.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
	history []string
	recall  int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Prompt = ": "
	ti.Placeholder = "start, stop, reset, clock:external off"
	ti.CharLimit = 64
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows an empty command line and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.recall = len(p.history)
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

// Matches returns the commands whose verb begins with the first word typed.
func (p Palette) Matches() []Command {
	var verb string
	if fields := strings.Fields(strings.ToLower(p.input.Value())); len(fields) > 0 {
		verb = fields[0]
	}
	var out []Command
	for _, c := range Commands {
		if strings.HasPrefix(c.Verb, verb) {
			out = append(out, c)
		}
	}
	return out
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			line := strings.TrimSpace(p.input.Value())
			p.remember(line)
			p.close()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: line} }
		case "tab":
			p.complete()
			return p, nil
		case "up":
			p.step(-1)
			return p, nil
		case "down":
			p.step(1)
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

func (p *Palette) remember(line string) {
	if line == "" || (len(p.history) > 0 && p.history[len(p.history)-1] == line) {
		return
	}
	p.history = append(p.history, line)
	if over := len(p.history) - historyLimit; over > 0 {
		p.history = p.history[over:]
	}
}

// complete fills in the verb when only one command matches the word typed.
func (p *Palette) complete() {
	if strings.Contains(strings.TrimSpace(p.input.Value()), " ") {
		return
	}
	matches := p.Matches()
	if len(matches) != 1 {
		return
	}
	p.input.SetValue(matches[0].Verb + " ")
	p.input.CursorEnd()
}

func (p *Palette) step(delta int) {
	next := p.recall + delta
	if next < 0 || next > len(p.history) {
		return
	}
	p.recall = next
	if next == len(p.history) {
		p.input.SetValue("")
		return
	}
	p.input.SetValue(p.history[next])
	p.input.CursorEnd()
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	hints := make([]string, 0, len(Commands))
	for _, c := range p.Matches() {
		hints = append(hints, c.String())
	}
	body := p.input.View()
	if len(hints) > 0 {
		body += "\n" + theme.Muted.Render(strings.Join(hints, "  ·  "))
	} else {
		body += "\n" + theme.Bad.Render("no such command")
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(body)
}

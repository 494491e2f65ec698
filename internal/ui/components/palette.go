package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"brewlog/internal/ui/theme"
)

// PaletteCommand describes one entry the palette can run.
type PaletteCommand struct {
	Name  string
	Usage string
	Help  string
	// NeedsBrew commands are refused until a brew is open.
	NeedsBrew bool
}

// PaletteCommands is the full command set, in display order.
var PaletteCommands = []PaletteCommand{
	{Name: "brew:new", Usage: "<name> | <style>", Help: "start a new brew"},
	{Name: "brew:list", Help: "back to the brew list"},
	{Name: "brew:export", Help: "write the journal note"},
	{Name: "brew:delete", Help: "delete the selected brew"},
	{Name: "phase:next", Help: "save and advance", NeedsBrew: true},
	{Name: "phase:prev", Help: "save and go back", NeedsBrew: true},
	{Name: "timer:toggle", Help: "start or pause", NeedsBrew: true},
	{Name: "timer:reset", Help: "back to full duration", NeedsBrew: true},
	{Name: "timer:duration", Usage: "<minutes>", Help: "set countdown length", NeedsBrew: true},
	{Name: "advisor:ask", Usage: "<question>", Help: "ask about this phase", NeedsBrew: true},
	{Name: "advisor:copy", Help: "copy the last answer", NeedsBrew: true},
	{Name: "advisor:doctor", Help: "check the advisor"},
}

// LookupCommand finds a command by exact name.
func LookupCommand(name string) (PaletteCommand, bool) {
	for _, c := range PaletteCommands {
		if c.Name == name {
			return c, true
		}
	}
	return PaletteCommand{}, false
}

// PaletteSubmitMsg carries the command word and the raw remainder of the line.
type PaletteSubmitMsg struct {
	Name string
	Arg  string
}

type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Amber).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().Foreground(theme.Amber)
	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

const maxSuggestions = 6

// Palette is a ':' command line with prefix suggestions. Tab completes the
// first suggestion.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Prompt = ": "
	ti.Placeholder = "brew:new Sunday Stout | Irish Dry Stout"
	ti.CharLimit = 256
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			name, arg := splitCommand(p.input.Value())
			p.close()
			return p, func() tea.Msg { return PaletteSubmitMsg{Name: name, Arg: arg} }
		case "tab":
			if s := p.suggestions(); len(s) > 0 {
				p.input.SetValue(s[0].Name + " ")
				p.input.CursorEnd()
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	name, arg, _ := strings.Cut(line, " ")
	return strings.ToLower(name), strings.TrimSpace(arg)
}

func (p Palette) suggestions() []PaletteCommand {
	word, _, typingArgs := strings.Cut(strings.TrimLeft(p.input.Value(), " "), " ")
	word = strings.ToLower(word)
	var out []PaletteCommand
	for _, c := range PaletteCommands {
		if typingArgs && c.Name != word {
			continue
		}
		if strings.HasPrefix(c.Name, word) {
			out = append(out, c)
		}
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Commands") + "\n")
	sb.WriteString(p.input.View() + "\n")
	if s := p.suggestions(); len(s) > 0 {
		sb.WriteString("\n")
		for _, c := range s {
			line := nameStyle.Render(c.Name)
			if c.Usage != "" {
				line += " " + c.Usage
			}
			sb.WriteString("  " + line + hintStyle.Render("  "+c.Help) + "\n")
		}
	}
	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}

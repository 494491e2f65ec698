package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	advicedto "brewlog/internal/modules/advice/dto"
	brewdto "brewlog/internal/modules/brew/dto"
	timerdto "brewlog/internal/modules/timer/dto"
	"brewlog/internal/ui/components"
	"brewlog/internal/ui/theme"
	adviceview "brewlog/internal/ui/views/advice"
	brewview "brewlog/internal/ui/views/brew"
	brewsview "brewlog/internal/ui/views/brews"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type brewPort interface {
	List(ctx context.Context) ([]brewdto.SessionOutput, error)
	Create(ctx context.Context, name, style string) (brewdto.SessionOutput, error)
	Get(ctx context.Context, sessionID string) (brewdto.SessionOutput, error)
	Save(ctx context.Context, sessionID, phase string, edited map[string]string) (brewdto.SessionOutput, error)
	Advance(ctx context.Context, sessionID, fromPhase string, edited map[string]string) (brewdto.TransitionOutput, error)
	Retreat(ctx context.Context, sessionID, fromPhase string, edited map[string]string) (brewdto.TransitionOutput, error)
	Delete(ctx context.Context, sessionID string) error
	Export(ctx context.Context, sessionID string) (brewdto.ExportOutput, error)
}

type timerPort interface {
	Status(ctx context.Context, sessionID string) (timerdto.StatusOutput, error)
	Toggle(ctx context.Context, sessionID string) (timerdto.StatusOutput, error)
	Reset(ctx context.Context, sessionID string) (timerdto.StatusOutput, error)
	SetDuration(ctx context.Context, sessionID, minutes string) (timerdto.StatusOutput, error)
	Tick(ctx context.Context, sessionID string) (timerdto.StatusOutput, error)
}

type advicePort interface {
	Ask(ctx context.Context, sessionID, question string, notes *string) (advicedto.AskOutput, error)
	Doctor(ctx context.Context) (advicedto.DoctorOutput, error)
}

// ─── screens ─────────────────────────────────────────────────────────────────

type screenID int

const (
	screenBrews screenID = iota
	screenBrew
)

// ─── async messages ───────────────────────────────────────────────────────────

type deletedMsg struct {
	id  string
	err error
}

type exportedMsg struct {
	out brewdto.ExportOutput
	err error
}

type doctorMsg struct {
	out advicedto.DoctorOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Open    key.Binding
	New     key.Binding
	Back    key.Binding
	Save    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Timer   key.Binding
	Reset   key.Binding
	Ask     key.Binding
	Copy    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open brew")),
		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new brew")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save phase")),
		Next:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next phase")),
		Prev:    key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "previous phase")),
		Timer:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "start/pause timer")),
		Reset:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset timer")),
		Ask:     key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "ask advisor")),
		Copy:    key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy advice")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.New, k.Back},
		{k.Save, k.Next, k.Prev},
		{k.Timer, k.Reset, k.Ask, k.Copy},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It routes between the brew list and the
// active brew, and owns the help overlay and command palette.
type Model struct {
	brew   brewPort
	advice advicePort

	brewsView  brewsview.Model
	brewView   brewview.Model
	adviceView adviceview.Model

	screen   screenID
	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette
	status   string
	width    int
	height   int
}

func NewModel(brew brewPort, timer timerPort, advice advicePort, tickInterval time.Duration) Model {
	return Model{
		brew:       brew,
		advice:     advice,
		brewsView:  brewsview.New(brew),
		brewView:   brewview.New(brew, timer, tickInterval),
		adviceView: adviceview.New(advice),
		screen:     screenBrews,
		keys:       defaultKeys(),
		help:       help.New(),
		palette:    components.NewPalette(),
		status:     "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return m.brewsView.Init()
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case brewsview.OpenMsg:
		return m, m.openBrew(msg.SessionID)

	case brewsview.LoadedMsg, brewsview.CreatedMsg:
		var cmd tea.Cmd
		m.brewsView, cmd = m.brewsView.Update(msg)
		return m, cmd

	case brewview.LoadedMsg, brewview.SavedMsg, brewview.MovedMsg, brewview.TimerMsg:
		var cmd tea.Cmd
		m.brewView, cmd = m.brewView.Update(msg)
		return m, cmd

	case brewview.StatusMsg:
		m.status = msg.Text
		return m, nil

	case adviceview.AnsweredMsg:
		var cmd tea.Cmd
		m.adviceView, cmd = m.adviceView.Update(msg)
		return m, cmd

	case adviceview.CopiedMsg:
		if msg.Err != nil {
			m.status = "copy: " + msg.Err.Error()
		} else {
			m.status = "advice copied to clipboard"
		}
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			m.status = "delete failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "deleted " + msg.id
		m.screen = screenBrews
		return m, m.brewsView.Reload()

	case exportedMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = "journal written: " + msg.out.Path
		}
		return m, nil

	case doctorMsg:
		switch {
		case msg.err != nil:
			m.status = "advisor doctor: " + msg.err.Error()
		case msg.out.Ready:
			m.status = fmt.Sprintf("advisor %s ready (%s %s)", msg.out.Provider, msg.out.Name, msg.out.Model)
		default:
			m.status = fmt.Sprintf("advisor %s not ready: %s", msg.out.Provider, msg.out.Error)
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Name, msg.Arg)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenBrew {
			return m.updateBrewKeys(msg)
		}
		if !m.brewsView.Creating() && !m.brewsView.Filtering() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "?":
				m.showHelp = true
				return m, nil
			case ":":
				return m, m.palette.Open()
			}
		}
		var cmd tea.Cmd
		m.brewsView, cmd = m.brewsView.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.brewsView, cmd = m.brewsView.Update(msg)
	cmds = append(cmds, cmd)
	m.brewView, cmd = m.brewView.Update(msg)
	cmds = append(cmds, cmd)
	m.adviceView, cmd = m.adviceView.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateBrewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.adviceView.Focused() {
			m.adviceView.Blur()
			return m, m.brewView.Focus()
		}
		if m.brewView.Dirty() {
			m.status = "unsaved changes kept in the form; ctrl+s to save"
		}
		m.screen = screenBrews
		m.brewView.Blur()
		return m, m.brewsView.Reload()
	case "ctrl+s":
		return m, m.brewView.Save()
	case "ctrl+n":
		return m, m.brewView.Advance()
	case "ctrl+b":
		return m, m.brewView.Retreat()
	case "ctrl+t":
		return m, m.brewView.ToggleTimer()
	case "ctrl+r":
		return m, m.brewView.ResetTimer()
	case "ctrl+y":
		return m, m.adviceView.Copy()
	case "ctrl+a":
		if m.adviceView.Focused() {
			m.adviceView.Blur()
			return m, m.brewView.Focus()
		}
		m.brewView.Blur()
		return m, m.adviceView.Focus()
	case ":":
		if !m.adviceView.Focused() && !m.brewView.Editing() {
			return m, m.palette.Open()
		}
	case "enter":
		if m.adviceView.Focused() {
			return m, m.adviceView.Submit(m.brewView.UnsavedNotes())
		}
	}

	var cmd tea.Cmd
	if m.adviceView.Focused() {
		m.adviceView, cmd = m.adviceView.Update(msg)
	} else {
		m.brewView, cmd = m.brewView.Update(msg)
	}
	return m, cmd
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := m.renderHeader()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.screen == screenBrew:
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.brewView.View(), m.adviceView.View())
	default:
		content = m.brewsView.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (m Model) renderHeader() string {
	title := theme.Title.Render("brewlog")
	crumb := theme.Muted.Render("  brews")
	if m.screen == screenBrew {
		crumb = theme.Muted.Render("  brews / ") + theme.Hot.Render(m.brewView.Session().Name)
	}
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(title+crumb) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.adviceView.Pending() {
		left = theme.Hot.Render("● asking") + "  " + left
	}
	right := theme.Muted.Render("?:help  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(name, rest string) (tea.Model, tea.Cmd) {
	if name == "" {
		return m, nil
	}
	command, ok := components.LookupCommand(name)
	if !ok {
		m.status = "unknown command: " + name
		return m, nil
	}
	if command.NeedsBrew {
		if m.screen != screenBrew {
			m.status = "open a brew first"
			return m, nil
		}
		return m, m.brewCommand(name, rest)
	}
	selected := m.selectedID()

	switch name {
	case "brew:new":
		m.screen = screenBrews
		title, style, _ := strings.Cut(rest, "|")
		title, style = strings.TrimSpace(title), strings.TrimSpace(style)
		if title != "" && style != "" {
			return m, m.brewsView.Create(title, style)
		}
		return m, m.brewsView.OpenForm(title, style)

	case "brew:list":
		m.screen = screenBrews
		m.brewView.Blur()
		return m, m.brewsView.Reload()

	case "brew:export", "brew:delete":
		if selected == "" {
			m.status = "no brew selected"
			return m, nil
		}
		if name == "brew:export" {
			return m, m.exportCmd(selected)
		}
		return m, m.deleteCmd(selected)

	case "advisor:doctor":
		return m, m.doctorCmd()
	}
	return m, nil
}

func (m *Model) brewCommand(name, arg string) tea.Cmd {
	switch name {
	case "phase:next":
		return m.brewView.Advance()
	case "phase:prev":
		return m.brewView.Retreat()
	case "timer:toggle":
		return m.brewView.ToggleTimer()
	case "timer:reset":
		return m.brewView.ResetTimer()
	case "timer:duration":
		if arg == "" {
			m.status = "usage: timer:duration <minutes>"
			return nil
		}
		return m.brewView.SetDuration(arg)
	case "advisor:ask":
		return m.adviceView.Ask(arg, m.brewView.UnsavedNotes())
	case "advisor:copy":
		return m.adviceView.Copy()
	}
	return nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) openBrew(id string) tea.Cmd {
	m.screen = screenBrew
	m.adviceView.SetSession(id)
	m.adviceView.Blur()
	return m.brewView.Open(id)
}

func (m Model) selectedID() string {
	if m.screen == screenBrew {
		return m.brewView.SessionID()
	}
	id, _ := m.brewsView.SelectedID()
	return id
}

func (m *Model) propagateSize() {
	h := m.height - 3
	m.brewsView, _ = m.brewsView.Update(tea.WindowSizeMsg{Width: m.width, Height: h})
	left := m.width * 6 / 10
	m.brewView, _ = m.brewView.Update(tea.WindowSizeMsg{Width: left, Height: h})
	m.adviceView, _ = m.adviceView.Update(tea.WindowSizeMsg{Width: m.width - left, Height: h})
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, err: m.brew.Delete(context.Background(), id)}
	}
}

func (m Model) exportCmd(id string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.brew.Export(context.Background(), id)
		return exportedMsg{out: out, err: err}
	}
}

func (m Model) doctorCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.advice.Doctor(context.Background())
		return doctorMsg{out: out, err: err}
	}
}

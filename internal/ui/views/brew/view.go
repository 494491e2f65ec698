package brew

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	brewdto "brewlog/internal/modules/brew/dto"
	timerdto "brewlog/internal/modules/timer/dto"
	"brewlog/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type Port interface {
	Get(ctx context.Context, sessionID string) (brewdto.SessionOutput, error)
	Save(ctx context.Context, sessionID, phase string, edited map[string]string) (brewdto.SessionOutput, error)
	Advance(ctx context.Context, sessionID, fromPhase string, edited map[string]string) (brewdto.TransitionOutput, error)
	Retreat(ctx context.Context, sessionID, fromPhase string, edited map[string]string) (brewdto.TransitionOutput, error)
}

type TimerPort interface {
	Status(ctx context.Context, sessionID string) (timerdto.StatusOutput, error)
	Toggle(ctx context.Context, sessionID string) (timerdto.StatusOutput, error)
	Reset(ctx context.Context, sessionID string) (timerdto.StatusOutput, error)
	SetDuration(ctx context.Context, sessionID, minutes string) (timerdto.StatusOutput, error)
	Tick(ctx context.Context, sessionID string) (timerdto.StatusOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Session brewdto.SessionOutput
	Err     error
}

type SavedMsg struct {
	Session brewdto.SessionOutput
	Err     error
}

type MovedMsg struct {
	Out brewdto.TransitionOutput
	Err error
}

type TimerMsg struct {
	SessionID string
	Out       timerdto.StatusOutput
	Err       error
}

// StatusMsg is a one-line notice for the parent's status bar.
type StatusMsg struct{ Text string }

type tickMsg struct{ gen int }

// ─── model ───────────────────────────────────────────────────────────────────

// Model shows one brew: its current phase form and the phase timer. Only
// fields the brewer edited are sent on save, so concurrent timer writes to
// the same record are kept.
type Model struct {
	port      Port
	timerPort TimerPort
	interval  time.Duration

	sessionID string
	session   brewdto.SessionOutput
	phase     brewdto.PhaseDataOutput
	fields    []brewdto.FieldOutput
	inputs    []textinput.Model
	dirty     map[string]bool
	focus     int
	busy      bool
	loaded    bool

	timer   timerdto.StatusOutput
	gen     int
	ticking bool

	bar    progress.Model
	width  int
	height int
}

func New(port Port, timerPort TimerPort, interval time.Duration) Model {
	if interval <= 0 {
		interval = time.Second
	}
	bar := progress.New(progress.WithGradient(string(theme.Copper), string(theme.Amber)), progress.WithoutPercentage())
	return Model{
		port:      port,
		timerPort: timerPort,
		interval:  interval,
		dirty:     map[string]bool{},
		bar:       bar,
	}
}

// Open switches the view to a brew and loads it with its timer.
func (m *Model) Open(sessionID string) tea.Cmd {
	m.sessionID = sessionID
	m.loaded = false
	m.gen++
	m.ticking = false
	m.timer = timerdto.StatusOutput{}
	return tea.Batch(m.loadCmd(), m.timerCmd(m.timerPort.Status))
}

func (m Model) SessionID() string { return m.sessionID }

func (m Model) Session() brewdto.SessionOutput { return m.session }

// Editing reports whether a form field has keyboard focus.
func (m Model) Editing() bool { return m.focus >= 0 && m.focus < len(m.inputs) && m.inputs[m.focus].Focused() }

// Dirty reports whether the form holds unsaved edits.
func (m Model) Dirty() bool { return len(m.dirty) > 0 }

// UnsavedNotes returns the notes typed but not yet saved, or nil.
func (m Model) UnsavedNotes() *string {
	for i, f := range m.fields {
		if f.Key == "notes" && m.dirty[f.Key] {
			v := m.inputs[i].Value()
			return &v
		}
	}
	return nil
}

func (m *Model) Blur() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *Model) Focus() tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	return m.inputs[m.focus].Focus()
}

func (m *Model) Save() tea.Cmd {
	if m.busy || !m.loaded {
		return nil
	}
	m.busy = true
	id, phase, edited := m.sessionID, m.session.CurrentPhase, m.edited()
	return func() tea.Msg {
		s, err := m.port.Save(context.Background(), id, phase, edited)
		return SavedMsg{Session: s, Err: err}
	}
}

func (m *Model) Advance() tea.Cmd { return m.move(m.port.Advance) }

func (m *Model) Retreat() tea.Cmd { return m.move(m.port.Retreat) }

func (m *Model) ToggleTimer() tea.Cmd { return m.timerCmd(m.timerPort.Toggle) }

func (m *Model) ResetTimer() tea.Cmd { return m.timerCmd(m.timerPort.Reset) }

func (m *Model) SetDuration(minutes string) tea.Cmd {
	id := m.sessionID
	return func() tea.Msg {
		out, err := m.timerPort.SetDuration(context.Background(), id, minutes)
		return TimerMsg{SessionID: id, Out: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(m.width-4, 10)
		for i := range m.inputs {
			m.inputs[i].Width = max(m.width-30, 10)
		}

	case LoadedMsg:
		if msg.Session.ID != m.sessionID && msg.Err == nil {
			return m, nil
		}
		if msg.Err != nil {
			return m, status("load brew: " + msg.Err.Error())
		}
		return m, m.setSession(msg.Session)

	case SavedMsg:
		m.busy = false
		if msg.Err != nil {
			return m, status("save failed: " + msg.Err.Error())
		}
		cmd := m.setSession(msg.Session)
		return m, tea.Batch(cmd, status(msg.Session.CurrentPhase+" saved"))

	case MovedMsg:
		m.busy = false
		if msg.Err != nil {
			return m, status("phase change failed: " + msg.Err.Error())
		}
		cmd := m.setSession(msg.Out.Session)
		if !msg.Out.Transition {
			if msg.Out.To != msg.Out.From {
				return m, tea.Batch(cmd, m.timerCmd(m.timerPort.Status), status("saved, brew is already at "+msg.Out.To))
			}
			return m, tea.Batch(cmd, status("saved, already at "+msg.Out.From))
		}
		return m, tea.Batch(cmd, m.timerCmd(m.timerPort.Status), status(msg.Out.From+" → "+msg.Out.To))

	case TimerMsg:
		if msg.SessionID != m.sessionID {
			return m, nil
		}
		if msg.Err != nil {
			// keep polling a timer that is still running in the store
			if m.timer.Running && !m.ticking {
				m.ticking = true
				return m, tea.Batch(status("timer: "+msg.Err.Error()), m.scheduleTick())
			}
			return m, status("timer: " + msg.Err.Error())
		}
		var cmds []tea.Cmd
		if m.timer.Running && !msg.Out.Running && msg.Out.Expired {
			cmds = append(cmds, status("Timer finished! "+msg.Out.Phase+" is done."))
		}
		m.timer = msg.Out
		if msg.Out.Running && !m.ticking {
			m.ticking = true
			cmds = append(cmds, m.scheduleTick())
		}
		return m, tea.Batch(cmds...)

	case tickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.ticking = false
		return m, m.timerCmd(m.timerPort.Tick)

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	if len(m.inputs) == 0 {
		return m, nil
	}
	switch msg.String() {
	case "tab", "down", "enter":
		return m, m.moveFocus(1)
	case "shift+tab", "up":
		return m, m.moveFocus(-1)
	}
	if !m.Editing() {
		return m, nil
	}
	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if m.inputs[m.focus].Value() != before {
		m.dirty[m.fields[m.focus].Key] = true
	}
	return m, cmd
}

func (m Model) View() string {
	if !m.loaded {
		return theme.Muted.Render("Loading brew…")
	}
	s := m.session
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(s.Name) + theme.Muted.Render("  "+s.Style) + "\n")
	sb.WriteString(fmt.Sprintf("%s  %s\n", theme.Hot.Render(s.CurrentPhase), theme.Muted.Render(fmt.Sprintf("Step %d of %d", s.Step, s.TotalSteps))))
	sb.WriteString(m.bar.ViewAs(s.Progress/100) + "\n")
	sb.WriteString(theme.Muted.Render(s.Description) + "\n\n")

	if s.Completed {
		sb.WriteString(theme.Good.Render("Brew complete. Cheers!") + "\n\n")
	}

	labelW := 0
	for _, f := range m.fields {
		labelW = max(labelW, lipgloss.Width(f.Label))
	}
	for i, f := range m.fields {
		label := lipgloss.NewStyle().Width(labelW + 2).Render(f.Label)
		if m.dirty[f.Key] {
			label = theme.Hot.Render("*") + label
		} else {
			label = " " + label
		}
		line := label + m.inputs[i].View()
		if f.Temperature && !m.dirty[f.Key] {
			if c := m.phase.Converted[f.Key]; c != "" {
				line += theme.Muted.Render("  " + c)
			}
		}
		sb.WriteString(line + "\n")
	}
	if s.CurrentPhase == "Mashing" {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("  Total Water: %s L", m.phase.TotalWater)) + "\n")
	}

	if m.timer.Visible {
		sb.WriteString("\n" + m.renderTimer() + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("ctrl+s save  ctrl+n next phase  ctrl+b previous  ctrl+t timer  ctrl+r reset  ctrl+a ask  esc back"))
	return lipgloss.NewStyle().Width(m.width).Render(sb.String())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) setSession(s brewdto.SessionOutput) tea.Cmd {
	m.session = s
	m.loaded = true
	m.dirty = map[string]bool{}
	m.phase = brewdto.PhaseDataOutput{}
	for _, p := range s.Phases {
		if p.Phase == s.CurrentPhase {
			m.phase = p
			break
		}
	}
	m.fields = m.phase.Fields
	m.inputs = make([]textinput.Model, len(m.fields))
	for i, f := range m.fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 500
		ti.Width = max(m.width-30, 10)
		ti.SetValue(f.Value)
		if f.Key == "tempUnit" {
			ti.CharLimit = 1
			ti.Placeholder = "F"
		}
		m.inputs[i] = ti
	}
	if m.focus >= len(m.inputs) {
		m.focus = 0
	}
	return m.Focus()
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

func (m Model) edited() map[string]string {
	out := make(map[string]string, len(m.dirty))
	for i, f := range m.fields {
		if m.dirty[f.Key] {
			out[f.Key] = m.inputs[i].Value()
		}
	}
	return out
}

func (m *Model) move(fn func(context.Context, string, string, map[string]string) (brewdto.TransitionOutput, error)) tea.Cmd {
	if m.busy || !m.loaded {
		return nil
	}
	m.busy = true
	id, from, edited := m.sessionID, m.session.CurrentPhase, m.edited()
	return func() tea.Msg {
		out, err := fn(context.Background(), id, from, edited)
		return MovedMsg{Out: out, Err: err}
	}
}

func (m Model) loadCmd() tea.Cmd {
	id := m.sessionID
	return func() tea.Msg {
		s, err := m.port.Get(context.Background(), id)
		return LoadedMsg{Session: s, Err: err}
	}
}

func (m Model) timerCmd(fn func(context.Context, string) (timerdto.StatusOutput, error)) tea.Cmd {
	id := m.sessionID
	if id == "" {
		return nil
	}
	return func() tea.Msg {
		out, err := fn(context.Background(), id)
		return TimerMsg{SessionID: id, Out: out, Err: err}
	}
}

func (m Model) scheduleTick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m Model) renderTimer() string {
	t := m.timer
	state := theme.Muted.Render("paused")
	switch {
	case t.Running:
		state = theme.Good.Render("running")
	case t.Expired:
		state = theme.Bad.Render("done")
	}
	body := fmt.Sprintf("%s  %s  %s", theme.Clock.Render(t.Display), state, theme.Muted.Render(fmt.Sprintf("%d min", t.DurationMinutes)))
	style := theme.Pane
	if t.Running {
		style = theme.PaneActive
	}
	return style.Render(theme.Title.Render(t.Phase+" Timer") + "\n" + body)
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text} }
}

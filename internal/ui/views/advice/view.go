package advice

import (
	"context"
	"errors"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	advicedto "brewlog/internal/modules/advice/dto"
	"brewlog/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the minimal interface this view needs from the advice use-case.
type Port interface {
	Ask(ctx context.Context, sessionID, question string, notes *string) (advicedto.AskOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// AnsweredMsg carries an advisor reply. Seq identifies the request so replies
// that arrive after the brew or question changed are dropped.
type AnsweredMsg struct {
	Seq int
	Out advicedto.AskOutput
	Err error
}

type CopiedMsg struct{ Err error }

var errNothingToCopy = errors.New("no advice to copy yet")

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port      Port
	input     textinput.Model
	answer    viewport.Model
	spinner   spinner.Model
	renderer  *glamour.TermRenderer
	sessionID string
	seq       int
	pending   bool
	last      advicedto.AskOutput
	errText   string
	width     int
	height    int
}

func New(port Port) Model {
	ti := textinput.New()
	ti.Placeholder = "ask the brewmind, e.g. is 152F right for a stout?"
	ti.CharLimit = 400
	ti.Prompt = "? "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Amber)

	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)

	return Model{
		port:     port,
		input:    ti,
		answer:   viewport.New(0, 0),
		spinner:  sp,
		renderer: r,
	}
}

// SetSession points the pane at a brew. Any in-flight reply becomes stale.
func (m *Model) SetSession(sessionID string) {
	if sessionID == m.sessionID {
		return
	}
	m.sessionID = sessionID
	m.seq++
	m.pending = false
	m.last = advicedto.AskOutput{}
	m.errText = ""
	m.input.SetValue("")
	m.answer.SetContent("")
}

func (m *Model) Focus() tea.Cmd { return m.input.Focus() }

func (m *Model) Blur() { m.input.Blur() }

func (m Model) Focused() bool { return m.input.Focused() }

func (m Model) Pending() bool { return m.pending }

// Answer is the text of the last reply shown.
func (m Model) Answer() string { return m.last.Text }

// Ask sends question with the given unsaved notes. It returns nil when the
// question is empty or no brew is selected.
func (m *Model) Ask(question string, notes *string) tea.Cmd {
	question = strings.TrimSpace(question)
	if question == "" || m.sessionID == "" || m.port == nil {
		return nil
	}
	m.seq++
	m.pending = true
	m.errText = ""
	seq, sessionID, port := m.seq, m.sessionID, m.port
	ask := func() tea.Msg {
		out, err := port.Ask(context.Background(), sessionID, question, notes)
		return AnsweredMsg{Seq: seq, Out: out, Err: err}
	}
	return tea.Batch(ask, m.spinner.Tick)
}

// Submit asks the question typed into the input.
func (m *Model) Submit(notes *string) tea.Cmd {
	return m.Ask(m.input.Value(), notes)
}

// Copy puts the last answer on the system clipboard.
func (m Model) Copy() tea.Cmd {
	text := m.last.Text
	return func() tea.Msg {
		if strings.TrimSpace(text) == "" {
			return CopiedMsg{Err: errNothingToCopy}
		}
		return CopiedMsg{Err: clipboard.WriteAll(text)}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case AnsweredMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.pending = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			m.answer.SetContent(theme.Bad.Render(m.errText))
			return m, nil
		}
		m.last = msg.Out
		m.input.SetValue("")
		m.answer.SetContent(m.render(msg.Out.Text))
		m.answer.GotoTop()

	case spinner.TickMsg:
		if m.pending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if m.input.Focused() {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		} else {
			var cmd tea.Cmd
			m.answer, cmd = m.answer.Update(msg)
			cmds = append(cmds, cmd)
		}

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Brewmind") + "\n")
	sb.WriteString(m.input.View() + "\n\n")
	switch {
	case m.pending:
		sb.WriteString(m.spinner.View() + " thinking…")
	case m.last.Text == "" && m.errText == "":
		sb.WriteString(theme.Muted.Render("Ask about the current phase. Answers use your saved notes."))
	default:
		sb.WriteString(m.answer.View())
		if m.last.Fallback {
			sb.WriteString("\n" + theme.Muted.Render("("+m.last.Provider+" unavailable)"))
		}
	}

	style := theme.Pane
	if m.input.Focused() {
		style = theme.PaneActive
	}
	return style.Width(max(m.width-2, 10)).Height(max(m.height-2, 3)).Render(sb.String())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	m.input.Width = max(m.width-8, 10)
	m.answer.Width = max(m.width-4, 10)
	m.answer.Height = max(m.height-6, 1)
	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(m.answer.Width),
	); err == nil {
		m.renderer = r
	}
	if m.last.Text != "" {
		m.answer.SetContent(m.render(m.last.Text))
	}
}

func (m Model) render(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(out)
}

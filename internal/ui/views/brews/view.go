package brews

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	brewdto "brewlog/internal/modules/brew/dto"
	"brewlog/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	List(ctx context.Context) ([]brewdto.SessionOutput, error)
	Create(ctx context.Context, name, style string) (brewdto.SessionOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Sessions []brewdto.SessionOutput
	Err      error
}

type CreatedMsg struct {
	Session brewdto.SessionOutput
	Err     error
}

// OpenMsg asks the parent to show a brew.
type OpenMsg struct {
	SessionID string
}

// ─── list item ───────────────────────────────────────────────────────────────

type brewItem struct {
	session brewdto.SessionOutput
}

func (i brewItem) Title() string { return i.session.Name }
func (i brewItem) Description() string {
	return fmt.Sprintf("%s · %s · %s", i.session.Style, i.session.CurrentPhase, i.session.CreatedAt.Local().Format("Jan 2 2006"))
}
func (i brewItem) FilterValue() string { return i.session.Name + " " + i.session.Style }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	list     list.Model
	spinner  spinner.Model
	name     textinput.Model
	style    textinput.Model
	creating bool
	formErr  string
	loading  bool
	width    int
	height   int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Amber).BorderForeground(theme.Amber)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Copper).BorderForeground(theme.Amber)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Brews"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Amber)

	name := textinput.New()
	name.Placeholder = "Sunday Stout"
	name.Prompt = "Name:  "
	name.CharLimit = 80
	style := textinput.New()
	style.Placeholder = "Irish Dry Stout"
	style.Prompt = "Style: "
	style.CharLimit = 80

	return Model{
		port:    port,
		list:    l,
		spinner: sp,
		name:    name,
		style:   style,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.port.List(context.Background())
		return LoadedMsg{Sessions: sessions, Err: err}
	}
}

// OpenForm shows the new-brew form, optionally prefilled.
func (m *Model) OpenForm(name, style string) tea.Cmd {
	m.creating = true
	m.formErr = ""
	m.name.SetValue(name)
	m.style.SetValue(style)
	m.style.Blur()
	return m.name.Focus()
}

// Creating reports whether the new-brew form has focus.
func (m Model) Creating() bool { return m.creating }

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) SelectedID() (string, bool) {
	if item, ok := m.list.SelectedItem().(brewItem); ok {
		return item.session.ID, true
	}
	return "", false
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width*5/10, m.height)

	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Brews (" + msg.Err.Error() + ")"
			return m, nil
		}
		m.list.Title = "Brews"
		items := make([]list.Item, len(msg.Sessions))
		for i, s := range msg.Sessions {
			items[i] = brewItem{session: s}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case CreatedMsg:
		if msg.Err != nil {
			m.formErr = msg.Err.Error()
			return m, nil
		}
		m.creating = false
		m.name.Blur()
		m.style.Blur()
		id := msg.Session.ID
		cmds = append(cmds, m.Reload(), func() tea.Msg { return OpenMsg{SessionID: id} })
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if m.creating {
			return m.updateForm(msg)
		}
		if !m.Filtering() {
			switch msg.String() {
			case "n":
				return m, m.OpenForm("", "")
			case "enter":
				if id, ok := m.SelectedID(); ok {
					return m, func() tea.Msg { return OpenMsg{SessionID: id} }
				}
				return m, nil
			}
		}
	}

	if !m.loading && !m.creating {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.creating = false
		m.name.Blur()
		m.style.Blur()
		return m, nil
	case "tab", "shift+tab", "up", "down":
		if m.name.Focused() {
			m.name.Blur()
			return m, m.style.Focus()
		}
		m.style.Blur()
		return m, m.name.Focus()
	case "enter":
		if m.name.Focused() {
			m.name.Blur()
			return m, m.style.Focus()
		}
		return m, m.submit()
	}
	var cmd tea.Cmd
	if m.name.Focused() {
		m.name, cmd = m.name.Update(msg)
	} else {
		m.style, cmd = m.style.Update(msg)
	}
	return m, cmd
}

func (m *Model) submit() tea.Cmd {
	name := strings.TrimSpace(m.name.Value())
	style := strings.TrimSpace(m.style.Value())
	if name == "" || style == "" {
		m.formErr = "name and style are required"
		return nil
	}
	return m.Create(name, style)
}

// Create starts a brew without going through the form.
func (m Model) Create(name, style string) tea.Cmd {
	return func() tea.Msg {
		s, err := m.port.Create(context.Background(), name, style)
		return CreatedMsg{Session: s, Err: err}
	}
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading brews…")
	}

	listW := m.width * 5 / 10
	rightW := m.width - listW

	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())

	var right string
	if m.creating {
		right = m.renderForm()
	} else {
		right = m.renderDetail()
	}
	rightPane := theme.Pane.Width(max(rightW-2, 10)).Height(max(m.height-2, 3)).Render(right)
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, rightPane)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) renderForm() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("New Brew") + "\n\n")
	sb.WriteString(m.name.View() + "\n")
	sb.WriteString(m.style.View() + "\n\n")
	if m.formErr != "" {
		sb.WriteString(theme.Bad.Render(m.formErr) + "\n\n")
	}
	sb.WriteString(theme.Muted.Render("enter: next/start  tab: switch field  esc: cancel"))
	return sb.String()
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(brewItem)
	if !ok {
		return theme.Muted.Render("No brews yet.\n\nPress n to start your first brew day.")
	}
	s := item.session
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(s.Name) + "\n")
	sb.WriteString(theme.Muted.Render(s.Style) + "\n\n")
	sb.WriteString(fmt.Sprintf("%s%s (step %d of %d)\n", theme.Muted.Render("phase:   "), s.CurrentPhase, s.Step, s.TotalSteps))
	sb.WriteString(theme.Muted.Render("started: ") + s.CreatedAt.Local().Format("Mon Jan 2 2006 15:04") + "\n")
	if s.TimerRunning {
		sb.WriteString(theme.Good.Render("timer running") + "\n")
	}
	for _, p := range s.Phases {
		if p.Recorded && strings.TrimSpace(p.Notes) != "" {
			sb.WriteString("\n" + theme.Hot.Render(p.Phase) + "\n" + p.Notes + "\n")
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: open  n: new brew  /: filter"))
	return sb.String()
}

// Package tui is a terminal front end over a single task store.
package tui

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"tasktracker/internal/logging"
	"tasktracker/internal/task"
	"tasktracker/pkg/mq"
)

type keyMap struct {
	Quit key.Binding
	Up   key.Binding
	Down key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Up:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
	Down: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
}

type Model struct {
	vp        viewport.Model
	userinput textinput.Model

	store   *task.Store
	pub     mq.Publisher
	l       logging.Logger
	session string
	now     func() time.Time

	title    string
	results  func() iter.Seq[task.View]
	empty    string
	alerts   []string
	quitting bool
	h        int
}

type Option func(*Model)

func WithPublisher(p mq.Publisher) Option { return func(m *Model) { m.pub = p } }

func WithLogger(l logging.Logger) Option { return func(m *Model) { m.l = l } }

func New(store *task.Store, opts ...Option) Model {
	userinput := textinput.New()
	userinput.Focus()
	userinput.CharLimit = 280
	userinput.Placeholder = `/h for help`
	userinput.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("221"))

	m := Model{
		vp:        viewport.New(80, 20),
		userinput: userinput,
		store:     store,
		pub:       mq.Noop{},
		l:         logging.Discard(),
		session:   uuid.NewString(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.showList()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var tiCmd, vpCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.h = msg.Height
		m.userinput.Width = msg.Width
		m.vp.Width = msg.Width
		m.resizeViewport()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
			m.vp, vpCmd = m.vp.Update(msg)
			return m, vpCmd
		}
		if msg.Type == tea.KeyEnter {
			input := strings.TrimSpace(m.userinput.Value())
			m.userinput.Reset()
			if input == "" {
				return m, nil
			}
			m.alerts = nil
			m = m.handleInput(input)
			m.resizeViewport()
			return m, nil
		}
	}

	m.userinput, tiCmd = m.userinput.Update(msg)
	return m, tiCmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.vp.View(), m.renderFooter())
}

func (m Model) renderFooter() string {
	var footer strings.Builder
	footer.WriteRune('\n')
	footer.WriteString(m.userinput.View())
	footer.WriteString("\n\n")
	if len(m.alerts) > 0 {
		footer.WriteString(strings.Join(m.alerts, "\n"))
		footer.WriteString("\n\n")
	} else {
		footer.WriteString(faintStyle.Render("(ctrl+c to quit)"))
		footer.WriteRune('\n')
	}
	return footer.String()
}

func (m *Model) resizeViewport() {
	m.vp.SetContent(m.renderResults())
	if m.h == 0 {
		return
	}
	footerHeight := lipgloss.Height(m.renderFooter())
	m.vp.Height = max(1, m.h-footerHeight)
}

func (m Model) renderResults() string {
	var lines []string
	lines = append(lines, titleStyle.Render(m.title), "")
	n := 0
	for v := range m.results() {
		lines = append(lines, renderView(v))
		n++
	}
	if n == 0 {
		lines = append(lines, warn(m.empty))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) showList() {
	m.title = "All Tasks"
	m.results = m.store.List
	m.empty = "No tasks available."
}

func (m *Model) showSearch(keyword string) {
	m.title = fmt.Sprintf("Search: %q", keyword)
	store := m.store
	m.results = func() iter.Seq[task.View] { return store.Search(keyword) }
	m.empty = "No matching tasks found."
}

func (m *Model) addAlert(alert string) {
	m.alerts = append(m.alerts, alert)
}

func (m Model) handleInput(input string) Model {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "/a":
		a, err := parseAdd(arg)
		if err != nil {
			m.addAlert(warn(err.Error()))
			return m
		}
		t, err := m.store.Add(a.id, a.description, a.dueDate, a.priority)
		if err != nil {
			m.addAlert(fail(errMessage(err)))
			return m
		}
		m.publish(mq.TopicTaskAdded, t)
		m.addAlert(ok(fmt.Sprintf("Task '%s' added with ID %s, Due Date: %s, Priority: %s.", t.Description, t.ID, t.DueDate, t.Priority)))
		m.showList()
	case "/u":
		u, err := parseUpdate(arg)
		if err != nil {
			m.addAlert(warn(err.Error()))
			return m
		}
		before, _ := m.store.Get(u.id)
		t, err := m.store.Update(u.id, u.status, u.dueDate)
		if t.ID != "" && t != before {
			m.publish(mq.TopicTaskUpdated, t)
		}
		if errors.Is(err, task.ErrTaskNotFound) || errors.Is(err, task.ErrInvalidStatus) {
			m.addAlert(fail(errMessage(err)))
			return m
		}
		if u.status != "" {
			m.addAlert(ok(fmt.Sprintf("Task ID %s status updated to '%s'.", u.id, t.Status)))
		}
		if err != nil {
			m.addAlert(fail(errMessage(err)))
		} else if u.dueDate != "" {
			m.addAlert(ok(fmt.Sprintf("Task ID %s due date updated to %s.", u.id, t.DueDate)))
		}
		m.showList()
	case "/s":
		m.showSearch(arg)
	case "/l":
		m.showList()
	case "/h":
		m.addAlert(warnStyle.Render(commandHelp))
	default:
		m.addAlert(warn(fmt.Sprintf("unknown command %q, enter /h for help", cmd)))
	}
	return m
}

func (m Model) publish(topic string, t task.Task) {
	ev, err := mq.NewEvent(m.session, t.ID, t, m.now())
	if err == nil {
		var payload []byte
		if payload, err = ev.Encode(); err == nil {
			err = m.pub.Publish(topic, payload)
		}
	}
	if err != nil {
		m.l.Warn("publish event", "topic", topic, "task", t.ID, "err", err)
	}
}

func errMessage(err error) string {
	switch {
	case errors.Is(err, task.ErrInvalidDateFormat):
		return "Invalid date format! Please use YYYY-MM-DD."
	case errors.Is(err, task.ErrInvalidPriority):
		return "Invalid priority! Choose High, Medium or Low."
	case errors.Is(err, task.ErrInvalidStatus):
		return "Invalid status! Choose Pending, In Progress or Completed."
	case errors.Is(err, task.ErrTaskNotFound):
		return "Task ID not found."
	}
	return err.Error()
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(store *task.Store, opts ...Option) error {
	_, err := tea.NewProgram(New(store, opts...), tea.WithAltScreen()).Run()
	return err
}

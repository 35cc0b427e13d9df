// Package tui is the interactive terminal front end: a chat transcript
// over the decision pipeline, with a heartbeat tick that expires stale
// confirmations even while the user is idle.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aria-ai/aria/internal/pipeline"
	"github.com/aria-ai/aria/internal/policy"
	"github.com/aria-ai/aria/internal/state"
)

type message struct {
	role string // "you" or "aria"
	text string
}

type tickMsg time.Time

// Model is the chat TUI state.
type Model struct {
	pipe  *pipeline.Pipeline
	store *state.Store

	width  int
	height int
	ready  bool

	messages []message
	viewport viewport.Model
	input    textinput.Model

	styles styles
}

type styles struct {
	you    lipgloss.Style
	aria   lipgloss.Style
	notice lipgloss.Style
	prompt lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		you:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		aria:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		notice: lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	}
}

// New creates the TUI model over an assembled pipeline.
func New(pipe *pipeline.Pipeline, store *state.Store) Model {
	ti := textinput.New()
	ti.Placeholder = "Say something..."
	ti.Focus()
	ti.CharLimit = 512

	vp := viewport.New(80, 20)

	return Model{
		pipe:     pipe,
		store:    store,
		viewport: vp,
		input:    ti,
		styles:   defaultStyles(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 3
		m.input.Width = msg.Width - 4
		m.ready = true
		m.refresh()
		return m, nil

	case tickMsg:
		// Passive expiry: a confirmation nobody answered goes away on
		// its own instead of ambushing the next unrelated utterance.
		if policy.SweepExpired(m.store, time.Time(msg)) {
			m.messages = append(m.messages, message{role: "notice", text: "That confirmation expired."})
			m.refresh()
		}
		return m, tick()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.Reset()
	m.messages = append(m.messages, message{role: "you", text: text})

	resp := m.pipe.Handle(context.Background(), text)
	if resp.Reply != "" {
		m.messages = append(m.messages, message{role: "aria", text: resp.Reply})
	}
	m.refresh()

	if resp.Quit {
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) refresh() {
	var b strings.Builder
	for _, msg := range m.messages {
		switch msg.role {
		case "you":
			b.WriteString(m.styles.you.Render("you  ") + msg.text + "\n")
		case "notice":
			b.WriteString(m.styles.notice.Render("     "+msg.text) + "\n")
		default:
			b.WriteString(m.styles.aria.Render("aria ") + msg.text + "\n")
		}
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}
	return m.viewport.View() + "\n" + m.styles.prompt.Render("> ") + m.input.View()
}

// Run starts the TUI and blocks until exit.
func Run(pipe *pipeline.Pipeline, store *state.Store) error {
	p := tea.NewProgram(New(pipe, store), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

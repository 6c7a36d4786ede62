// Package chat provides the interactive TUI chat interface for knowbot.
package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"knowbot/internal/backend"
	"knowbot/internal/config"
	"knowbot/internal/response"
)

// Message is one conversation turn as held by the UI.
type Message struct {
	ID      string
	Role    string // "user" or "assistant"
	Content string
	// Resp is set on assistant messages: the canonical model the display
	// derives its markup from. It is never mutated after construction.
	Resp *response.Response
	At   time.Time
}

// answerMsg delivers the backend result for an in-flight question.
type answerMsg struct {
	resp response.Response
	err  error
}

// Model is the bubbletea model for the chat session.
type Model struct {
	client *backend.Client
	cfg    *config.Config
	log    *zap.Logger

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	styles   Styles

	history []Message
	waiting bool
	err     error

	width  int
	height int
	ready  bool
}

// New creates the chat model.
func New(cfg *config.Config, client *backend.Client, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}

	input := textinput.New()
	input.Placeholder = "Ask a question..."
	input.Focus()
	input.CharLimit = 2000

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		client:  client,
		cfg:     cfg,
		log:     log,
		input:   input,
		spinner: sp,
		styles:  DefaultStyles(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			question := m.input.Value()
			if question == "" || m.waiting {
				break
			}
			m.input.Reset()
			m.history = append(m.history, Message{
				ID:      uuid.NewString(),
				Role:    "user",
				Content: question,
				At:      time.Now(),
			})
			m.waiting = true
			m.err = nil
			m.refreshViewport()
			cmds = append(cmds, m.ask(question), m.spinner.Tick)
		}

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.err = msg.err
			m.log.Warn("backend request failed", zap.Error(msg.err))
		} else {
			resp := msg.resp
			m.history = append(m.history, Message{
				ID:      uuid.NewString(),
				Role:    "assistant",
				Content: resp.Answer,
				Resp:    &resp,
				At:      time.Now(),
			})
		}
		m.refreshViewport()

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// ask performs the backend call off the UI loop.
func (m Model) ask(question string) tea.Cmd {
	client := m.client
	timeout, err := m.cfg.RequestTimeout()
	if err != nil {
		timeout = 30 * time.Second
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := client.Ask(ctx, question)
		return answerMsg{resp: resp, err: err}
	}
}

// resize recomputes component dimensions and rebuilds the word-wrapped
// markdown renderer.
func (m *Model) resize() {
	headerHeight := 2
	footerHeight := 3
	m.viewport = viewport.New(m.width, m.height-headerHeight-footerHeight)
	m.input.Width = m.width - 4

	wrap := m.width - 4
	if m.cfg.UI.WordWrap > 0 && m.cfg.UI.WordWrap < wrap {
		wrap = m.cfg.UI.WordWrap
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.log.Warn("failed to build markdown renderer", zap.Error(err))
		m.renderer = nil
		return
	}
	m.renderer = renderer
}

// refreshViewport re-renders the history into the viewport and scrolls to
// the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

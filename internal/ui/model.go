// Package ui is the terminal front end: a Bubble Tea model that turns key
// and mouse input into controller events and draws the controller's view.
package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/couchcryptid/flood-risk-viewer/internal/app"
	"github.com/couchcryptid/flood-risk-viewer/internal/domain"
)

const (
	defaultChatWidth = 48
	minChatHeight    = 6
)

// Controller is the part of app.Controller the UI drives.
type Controller interface {
	Start(ctx context.Context) error
	Dispatch(ctx context.Context, e app.Event) error
	Snapshot() app.View
}

// RefreshMsg asks the model to pull a fresh snapshot. Send it from change
// listeners that fire outside the UI loop.
type RefreshMsg struct{}

type startedMsg struct{ err error }

type committedMsg struct{ err error }

type chatRepliedMsg struct{ err error }

// Model is the Bubble Tea model for the viewer.
type Model struct {
	ctx    context.Context
	ctrl   Controller
	keys   KeyMap
	logger *slog.Logger

	slider   domain.FloodLevel
	view     app.View
	inFlight int // commits and reloads not yet finished

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	markdown *glamour.TermRenderer
	rendered map[string]string // bot message id -> rendered markdown
	shown    string            // transcript content last pushed to the viewport

	width  int
	height int
}

// New creates the model. ctx bounds every request the UI starts.
func New(ctx context.Context, ctrl Controller, logger *slog.Logger) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the flood data..."
	ti.CharLimit = 1000

	vp := viewport.New(defaultChatWidth-4, minChatHeight)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = knobStyle

	view := ctrl.Snapshot()
	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		keys:     DefaultKeyMap(),
		logger:   logger,
		slider:   view.Level,
		view:     view,
		input:    ti,
		viewport: vp,
		spinner:  sp,
		rendered: make(map[string]string),
	}
	m.markdown = newMarkdownRenderer(defaultChatWidth - 6)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.start(), m.spinner.Tick, textinput.Blink)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.sync()
		return m, nil

	case RefreshMsg:
		m.sync()
		return m, nil

	case startedMsg:
		m.logFailure("initial render", msg.err)
		m.sync()
		m.slider = m.view.Level
		return m, nil

	case committedMsg:
		m.inFlight--
		m.logFailure("apply level", msg.err)
		m.sync()
		if m.inFlight == 0 {
			m.slider = m.view.Level
		}
		return m, nil

	case chatRepliedMsg:
		m.logFailure("chat send", msg.err)
		m.sync()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.sync()
		return m, cmd

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft &&
			m.view.Chat.Open && !m.inChat(msg.X) {
			m.dispatch(app.Event{Kind: app.ChatOutsideClick})
			m.sync()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.view.Chat.Open {
		return m.handleChatKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Lower):
		m.slider = m.slider.Step(-1)
		m.dispatch(app.Event{Kind: app.SliderInput, Level: m.slider})
	case key.Matches(msg, m.keys.Raise):
		m.slider = m.slider.Step(1)
		m.dispatch(app.Event{Kind: app.SliderInput, Level: m.slider})
	case key.Matches(msg, m.keys.Commit):
		m.inFlight++
		m.sync()
		return m, m.run(app.Event{Kind: app.SliderChange, Level: m.slider})
	case key.Matches(msg, m.keys.Back):
		m.inFlight++
		return m, m.run(app.Event{Kind: app.NavigateBack})
	case key.Matches(msg, m.keys.ToggleChat):
		m.dispatch(app.Event{Kind: app.ChatToggle})
	}
	m.sync()
	return m, nil
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.CloseChat):
		m.dispatch(app.Event{Kind: app.ChatClose})
	case key.Matches(msg, m.keys.ToggleChat):
		m.dispatch(app.Event{Kind: app.ChatToggle})
	case key.Matches(msg, m.keys.Send):
		text := m.input.Value()
		if m.view.Chat.Processing || strings.TrimSpace(text) == "" {
			return m, nil
		}
		m.input.Reset()
		return m, m.send(text)
	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	default:
		if m.view.Chat.Processing {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	m.sync()
	return m, nil
}

func (m Model) start() tea.Cmd {
	return func() tea.Msg {
		return startedMsg{err: m.ctrl.Start(m.ctx)}
	}
}

// run dispatches a level event off the UI loop.
func (m Model) run(e app.Event) tea.Cmd {
	return func() tea.Msg {
		return committedMsg{err: m.ctrl.Dispatch(m.ctx, e)}
	}
}

func (m Model) send(text string) tea.Cmd {
	return func() tea.Msg {
		return chatRepliedMsg{err: m.ctrl.Dispatch(m.ctx, app.Event{Kind: app.ChatSend, Text: text})}
	}
}

// dispatch handles events that never touch the network.
func (m *Model) dispatch(e app.Event) {
	if err := m.ctrl.Dispatch(m.ctx, e); err != nil {
		m.logFailure(e.Kind.String(), err)
	}
}

func (m *Model) logFailure(action string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrBusy), errors.Is(err, domain.ErrClosed), errors.Is(err, domain.ErrEmptyMessage):
		m.logger.Debug("ignored", "action", action, "reason", err)
	default:
		m.logger.Warn("ui action failed", "action", action, "error", err)
	}
}

// sync pulls a fresh snapshot and keeps the chat widgets in line with it.
// The input accepts keys exactly while the chat is open and idle.
func (m *Model) sync() {
	m.view = m.ctrl.Snapshot()

	if m.view.Chat.Open && !m.view.Chat.Processing {
		m.input.Focus()
	} else {
		m.input.Blur()
	}

	content := m.transcript()
	if content != m.shown {
		m.shown = content
		m.viewport.SetContent(content)
		m.viewport.GotoBottom()
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	cw := m.chatWidth()
	m.viewport.Width = cw - 4
	m.viewport.Height = max(minChatHeight, height-10)
	m.input.Width = cw - 8
	m.markdown = newMarkdownRenderer(cw - 6)
	clear(m.rendered)
	m.shown = ""
}

func (m Model) chatWidth() int {
	if m.width > 0 && m.width < defaultChatWidth*2 {
		return max(24, m.width/2)
	}
	return defaultChatWidth
}

// inChat reports whether column x falls on the chat panel, which is drawn
// flush right.
func (m Model) inChat(x int) bool {
	if m.width == 0 {
		return true
	}
	return x >= m.width-m.chatWidth()
}

// Package tui is the full-screen terminal front-end.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mako10k/shellassist/internal/session"
)

var sessionTitle = session.Banner[0]

const (
	headerHeight = 2
	footerHeight = 2
)

// suggestionMsg carries a finished suggestion back into Update.
type suggestionMsg struct {
	pending *session.Pending
	text    string
}

// Model is the bubbletea model driving one session.
type Model struct {
	ctx  context.Context
	sess *session.Session
	sug  session.Suggester

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	width   int
	height  int
	ready   bool
	pending *session.Pending
}

// New returns a model for sess. Delegated lines are answered by sug.
func New(ctx context.Context, sess *session.Session, sug session.Suggester) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:      ctx,
		sess:     sess,
		sug:      sug,
		input:    ti,
		spinner:  sp,
		viewport: viewport.New(80, 20),
	}
}

// Run starts a full-screen program and blocks until the user quits.
func Run(ctx context.Context, sess *session.Session, sug session.Suggester) error {
	p := tea.NewProgram(New(ctx, sess, sug), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Waiting reports whether a suggestion is outstanding.
func (m Model) Waiting() bool {
	return m.pending != nil
}

// Input returns the current input text.
func (m Model) Input() string {
	return m.input.Value()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h := msg.Height - headerHeight - footerHeight
		if h < 1 {
			h = 1
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = h
		m.input.Width = msg.Width - lipgloss.Width(prompt(m.sess.Cwd())) - 1
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return m, tea.Quit
		}
		if m.Waiting() {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyUp:
			if s, ok := m.sess.Back(); ok {
				m.input.SetValue(s)
				m.input.CursorEnd()
			}
			return m, nil
		case tea.KeyDown:
			m.input.SetValue(m.sess.Forward())
			m.input.CursorEnd()
			return m, nil
		case tea.KeyTab:
			c := m.sess.Complete(m.input.Value())
			if c.Applied {
				m.input.SetValue(c.Input)
				m.input.CursorEnd()
			}
			m.refresh()
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case suggestionMsg:
		if err := m.sess.Resolve(msg.pending, msg.text); err == nil {
			m.pending = nil
			m.input.Focus()
		}
		m.refresh()
		return m, textinput.Blink

	case spinner.TickMsg:
		if !m.Waiting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	}

	if !m.Waiting() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()
	p, err := m.sess.Submit(line)
	if err != nil || p == nil {
		m.refresh()
		return m, nil
	}
	m.pending = p
	m.input.Blur()
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, m.suggest(p))
}

func (m Model) suggest(p *session.Pending) tea.Cmd {
	ctx, sug := m.ctx, m.sug
	return func() tea.Msg {
		return suggestionMsg{pending: p, text: sug.Suggest(ctx, p.Query)}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderLines(m.sess.Lines(), m.spinner.View()+" "))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	cpu, mem := m.sess.Gauges()
	input := m.input.View()
	if m.Waiting() {
		input = m.spinner.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		header(m.width, cpu, mem),
		"",
		m.viewport.View(),
		prompt(m.sess.Cwd())+input,
		hintStyle.Render("enter run • ↑/↓ history • tab complete • ctrl+c quit"),
	)
}

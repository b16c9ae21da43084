package tui

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mako10k/shellassist/internal/interp"
	"github.com/mako10k/shellassist/internal/session"
)

type cannedSuggester string

func (c cannedSuggester) Suggest(ctx context.Context, query string) string { return string(c) }

func newTestModel(t *testing.T) (Model, *session.Session) {
	t.Helper()
	sess := session.New(session.Config{Rand: rand.New(rand.NewSource(3))})
	m := New(context.Background(), sess, cannedSuggester("ls -S"))
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30}), sess
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func TestEnterRunsBuiltin(t *testing.T) {
	m, sess := newTestModel(t)
	m = typeText(t, m, "cd /etc")
	m = update(t, m, key(tea.KeyEnter))

	if sess.Cwd() != "/etc" {
		t.Errorf("Cwd = %q", sess.Cwd())
	}
	if m.Input() != "" {
		t.Errorf("input not cleared: %q", m.Input())
	}
	if m.Waiting() {
		t.Error("built-in left the model waiting")
	}
	if !strings.Contains(m.View(), "/etc") {
		t.Error("view does not show the new directory")
	}
}

func TestDelegationRoundTrip(t *testing.T) {
	m, sess := newTestModel(t)
	m = typeText(t, m, "list files sorted by size")

	next, cmd := m.Update(key(tea.KeyEnter))
	m = next.(Model)
	if !m.Waiting() || !sess.Busy() {
		t.Fatal("model not waiting after delegation")
	}
	if cmd == nil {
		t.Fatal("no command scheduled for the suggestion")
	}

	m = typeText(t, m, "pwd")
	if m.Input() != "" {
		t.Errorf("input accepted while waiting: %q", m.Input())
	}
	m = update(t, m, key(tea.KeyEnter))
	if len(sess.History()) != 1 {
		t.Errorf("history = %v", sess.History())
	}

	m = update(t, m, m.suggest(m.pending)())
	if m.Waiting() || sess.Busy() {
		t.Fatal("still waiting after the suggestion arrived")
	}
	lines := sess.Lines()
	if last := lines[len(lines)-1]; last.Kind != interp.KindSuggestion || last.Text != "ls -S" {
		t.Errorf("last line = %+v", last)
	}
}

func TestHistoryKeys(t *testing.T) {
	m, _ := newTestModel(t)
	for _, l := range []string{"pwd", "cpu"} {
		m = typeText(t, m, l)
		m = update(t, m, key(tea.KeyEnter))
	}

	m = update(t, m, key(tea.KeyUp))
	if m.Input() != "cpu" {
		t.Errorf("Up = %q", m.Input())
	}
	m = update(t, m, key(tea.KeyUp))
	if m.Input() != "pwd" {
		t.Errorf("Up = %q", m.Input())
	}
	m = update(t, m, key(tea.KeyDown))
	m = update(t, m, key(tea.KeyDown))
	if m.Input() != "" {
		t.Errorf("Down past newest = %q", m.Input())
	}
}

func TestTabCompletes(t *testing.T) {
	m, sess := newTestModel(t)
	m = typeText(t, m, "he")
	m = update(t, m, key(tea.KeyTab))
	if m.Input() != "help " {
		t.Errorf("Tab = %q", m.Input())
	}

	before := len(sess.Lines())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	m = typeText(t, m, "h")
	m = update(t, m, key(tea.KeyTab))
	if m.Input() != "h" || len(sess.Lines()) != before+1 {
		t.Errorf("ambiguous Tab: input %q, lines %d", m.Input(), len(sess.Lines()))
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlD} {
		_, cmd := m.Update(key(k))
		if cmd == nil {
			t.Fatalf("%v: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%v did not quit", k)
		}
	}
}

func TestGauge(t *testing.T) {
	for _, v := range []int{-5, 0, 42, 100, 150} {
		g := gauge("CPU", v)
		if !strings.HasPrefix(stripANSI(g), "CPU ") || !strings.HasSuffix(g, "%") {
			t.Errorf("gauge(%d) = %q", v, g)
		}
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	esc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			esc = true
		case esc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			esc = false
		case !esc:
			b.WriteRune(r)
		}
	}
	return b.String()
}

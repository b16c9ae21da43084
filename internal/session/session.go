// Package session holds the state of one simulated terminal: the tree, the
// working directory, history, scrollback, gauges and the in-flight guard
// around suggestion requests.
package session

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mako10k/shellassist/internal/interp"
	"github.com/mako10k/shellassist/internal/logging"
	"github.com/mako10k/shellassist/internal/metrics"
	"github.com/mako10k/shellassist/internal/vfs"
)

var (
	// ErrBusy is returned while a suggestion request is outstanding.
	ErrBusy = errors.New("session is waiting for a suggestion")
	// ErrNotPending is returned when resolving a request the session no
	// longer waits for.
	ErrNotPending = errors.New("no such pending suggestion")
)

// State is the session's input state.
type State int

const (
	StateIdle State = iota
	StateAwaiting
)

func (s State) String() string {
	if s == StateAwaiting {
		return "awaiting"
	}
	return "idle"
}

// Banner is shown when a session starts or is reset.
var Banner = []string{
	"Shell Assistant",
	"Welcome to the AI-powered terminal.",
	"Type help to see available commands.",
	"For non-supported commands, AI will try to suggest a shell command.",
	`Example: "list files sorted by size"`,
}

// Suggester answers delegated lines. *suggest.Fallback satisfies it.
type Suggester interface {
	Suggest(ctx context.Context, query string) string
}

// Config configures a session.
type Config struct {
	// Home is the home directory and initial working directory.
	Home string
	// Tree is copied into the session; nil uses vfs.Seed.
	Tree *vfs.Dir
	// Rand drives the gauges; nil seeds from the clock.
	Rand *rand.Rand
}

// Pending is an outstanding suggestion request.
type Pending struct {
	Query string
	line  int
	// from is the first scrollback line the command produced.
	from    int
	cleared bool
}

// Session is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id     string
	interp *interp.Interpreter
	seed   *vfs.Dir
	logger *zap.Logger

	tree    *vfs.Dir
	cwd     string
	history *History
	lines   []interp.Line
	cpu     int
	mem     int
	state   State
	pending *Pending
	// clears counts scrollback resets.
	clears uint64
}

// New creates a session showing the welcome banner.
func New(cfg Config) *Session {
	if cfg.Tree == nil {
		cfg.Tree = vfs.Seed()
	}
	in := interp.New(interp.Config{Home: cfg.Home, Rand: cfg.Rand})
	s := &Session{
		id:     uuid.NewString(),
		interp: in,
		seed:   cfg.Tree,
	}
	s.logger = logging.L().With(zap.String("session_id", s.id))
	s.reset()
	if s.cwd != in.Home() {
		s.logger.Warn("home directory not in tree, starting at root", zap.String("home", in.Home()))
	}
	return s
}

func (s *Session) reset() {
	s.tree = s.seed.Clone()
	s.cwd = s.interp.Home()
	if _, ok := vfs.LookupDir(s.tree, s.cwd); !ok {
		s.cwd = vfs.Separator
	}
	s.history = NewHistory()
	s.lines = s.lines[:0]
	s.clears++
	for _, text := range Banner {
		s.lines = append(s.lines, interp.BannerLine(text))
	}
	s.cpu, s.mem = s.interp.Gauges().Initial()
	s.state = StateIdle
	s.pending = nil
}

// Reset restores the initial tree, directory, history, scrollback and gauges.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		metrics.RecordBusyRejection()
		return ErrBusy
	}
	s.reset()
	s.logger.Info("session reset")
	return nil
}

// Submit runs line. A delegated line leaves the session awaiting and returns
// the Pending to hand to Resolve; built-ins return nil.
func (s *Session) Submit(line string) (*Pending, error) {
	p, _, err := s.submit(line)
	return p, err
}

// submit runs line and returns what it added to the scrollback. For a
// delegated line the output is taken when the Pending resolves.
func (s *Session) submit(line string) (*Pending, Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		metrics.RecordBusyRejection()
		return nil, Output{}, ErrBusy
	}
	tokens := interp.Tokenize(line)
	if len(tokens) == 0 {
		return nil, Output{Lines: []interp.Line{}}, nil
	}

	from, clears := len(s.lines), s.clears

	prior := s.history.Entries()
	s.history.Push(line)
	s.lines = append(s.lines, interp.PromptLine(s.cwd, line))

	res := s.interp.Execute(line, interp.Env{Dir: s.cwd, Tree: s.tree, History: prior})

	if res.Clear {
		s.lines = s.lines[:0]
		s.clears++
	}
	cleared := s.clears != clears
	if cleared {
		from = 0
	}
	if res.DirChange != "" {
		s.cwd = res.DirChange
	}
	if g := res.Gauge; g != nil {
		switch g.Gauge {
		case interp.GaugeCPU:
			s.cpu = g.Value
		case interp.GaugeMem:
			s.mem = g.Value
		}
	}
	s.lines = append(s.lines, res.Lines...)

	if res.Delegate == "" {
		metrics.RecordCommand(tokens[0])
		s.logger.Debug("command executed", zap.String("command", tokens[0]), zap.String("cwd", s.cwd))
		return nil, s.output(from, cleared), nil
	}

	metrics.RecordCommand("delegated")
	s.lines = append(s.lines, interp.WorkingLine())
	p := &Pending{Query: res.Delegate, line: len(s.lines) - 1, from: from, cleared: cleared}
	s.pending = p
	s.state = StateAwaiting
	s.logger.Debug("command delegated", zap.String("line", line))
	return p, Output{}, nil
}

// Resolve replaces the working indicator of p with suggestion and returns
// the session to idle.
func (s *Session) Resolve(p *Pending, suggestion string) error {
	_, err := s.resolve(p, suggestion)
	return err
}

func (s *Session) resolve(p *Pending, suggestion string) (Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p == nil || s.pending != p {
		return Output{}, ErrNotPending
	}
	line := interp.SuggestionLine(suggestion)
	if p.line < len(s.lines) && s.lines[p.line].Kind == interp.KindWorking {
		s.lines[p.line] = line
	} else {
		s.lines = append(s.lines, line)
	}
	s.pending = nil
	s.state = StateIdle
	return s.output(p.from, p.cleared), nil
}

// output copies the scrollback from line from on. Callers hold s.mu.
func (s *Session) output(from int, cleared bool) Output {
	if from > len(s.lines) {
		from = len(s.lines)
	}
	out := Output{Lines: make([]interp.Line, len(s.lines)-from), Cleared: cleared}
	copy(out.Lines, s.lines[from:])
	return out
}

// Run submits line and, when it is delegated, waits for sug and resolves.
// The session is idle again when Run returns nil.
func (s *Session) Run(ctx context.Context, line string, sug Suggester) error {
	_, err := s.Exec(ctx, line, sug)
	return err
}

// Output is what one Exec added to the scrollback.
type Output struct {
	Lines []interp.Line `json:"lines"`
	// Cleared is set when the command emptied the scrollback first.
	Cleared bool `json:"clear"`
}

// Exec is Run that also reports the lines the command produced. Lines
// added by other callers are never included.
func (s *Session) Exec(ctx context.Context, line string, sug Suggester) (Output, error) {
	p, out, err := s.submit(line)
	if err != nil || p == nil {
		return out, err
	}
	return s.resolve(p, sug.Suggest(ctx, p.Query))
}

// Complete applies Tab completion to input. Several candidates are also
// listed in the scrollback, unless a suggestion is outstanding.
func (s *Session) Complete(input string) Completion {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.candidates(input)
	if len(c.Candidates) > 1 && s.state == StateIdle {
		s.lines = append(s.lines, interp.NamesLine("", interp.PlainNames(c.Candidates)))
	}
	return c
}

// Candidates is Complete without the scrollback hint, for front-ends that
// list candidates themselves.
func (s *Session) Candidates(input string) Completion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.candidates(input)
}

func (s *Session) candidates(input string) Completion {
	cwd, _ := vfs.LookupDir(s.tree, s.cwd)
	return Complete(input, s.interp.Help(), cwd)
}

// Back recalls the next older history entry.
func (s *Session) Back() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Back()
}

// Forward recalls the next newer history entry, or "" past the newest.
func (s *Session) Forward() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Forward()
}

// ID identifies the session in logs and API responses.
func (s *Session) ID() string { return s.id }

// Help returns the command catalogue.
func (s *Session) Help() *interp.HelpSystem { return s.interp.Help() }

// Cwd returns the working directory.
func (s *Session) Cwd() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cwd
}

// Gauges returns the displayed CPU and memory percentages.
func (s *Session) Gauges() (cpu, mem int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cpu, s.mem
}

// State returns the input state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether a suggestion is outstanding.
func (s *Session) Busy() bool {
	return s.State() == StateAwaiting
}

// Lines returns a copy of the scrollback.
func (s *Session) Lines() []interp.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]interp.Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// History returns the entered lines, oldest first.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Entries()
}

// Snapshot is a point-in-time view of the session.
type Snapshot struct {
	ID    string        `json:"id"`
	Cwd   string        `json:"cwd"`
	CPU   int           `json:"cpu"`
	Mem   int           `json:"mem"`
	Busy  bool          `json:"busy"`
	Lines []interp.Line `json:"lines"`
}

// Snapshot captures the session for display.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]interp.Line, len(s.lines))
	copy(lines, s.lines)
	return Snapshot{
		ID:    s.id,
		Cwd:   s.cwd,
		CPU:   s.cpu,
		Mem:   s.mem,
		Busy:  s.state == StateAwaiting,
		Lines: lines,
	}
}

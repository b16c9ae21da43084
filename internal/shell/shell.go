// Package shell is the line-oriented front-end: a readline prompt on a
// terminal, or a line-by-line script reader otherwise.
package shell

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/mako10k/shellassist/internal/interp"
	"github.com/mako10k/shellassist/internal/logging"
	"github.com/mako10k/shellassist/internal/session"
)

// Config holds line-mode settings.
type Config struct {
	// HistoryFile persists readline history; empty keeps it in memory.
	HistoryFile string
	// NoColor disables coloured output.
	NoColor bool
	// Echo prints the prompt and command before each scripted line.
	Echo bool
}

// Shell drives a session from lines of text.
type Shell struct {
	config  Config
	sess    *session.Session
	sug     session.Suggester
	out     io.Writer
	printer *Printer
}

// New creates a shell writing to out.
func New(sess *session.Session, sug session.Suggester, out io.Writer, cfg Config) *Shell {
	return &Shell{
		config:  cfg,
		sess:    sess,
		sug:     sug,
		out:     out,
		printer: NewPrinter(out, cfg.NoColor),
	}
}

// Execute runs one line and prints what it added to the scrollback.
func (s *Shell) Execute(ctx context.Context, line string) error {
	out, err := s.sess.Exec(ctx, line, s.sug)
	if err != nil {
		return err
	}
	if out.Cleared && !s.config.NoColor {
		io.WriteString(s.out, "\033[H\033[2J")
	}
	for _, l := range out.Lines {
		if l.Kind == interp.KindPrompt && !s.config.Echo {
			continue
		}
		s.printer.Line(l)
	}
	return nil
}

// Run reads from in until EOF or exit. A terminal gets the interactive
// prompt; anything else is read as a script.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	s.printer.Lines(s.sess.Lines())
	if f, ok := in.(*os.File); ok && readline.IsTerminal(int(f.Fd())) {
		return s.Interactive(ctx)
	}
	return s.Script(ctx, in)
}

// Script executes each line of r in order.
func (s *Shell) Script(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Text()
		if isExit(line) {
			return nil
		}
		if err := s.Execute(ctx, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// Interactive starts the readline prompt.
func (s *Shell) Interactive(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.printer.Prompt(s.sess.Cwd()),
		HistoryFile:     s.config.HistoryFile,
		HistoryLimit:    1000,
		AutoComplete:    &completer{sess: s.sess},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          s.out,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rl.SetPrompt(s.printer.Prompt(s.sess.Cwd()))
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if isExit(line) {
			return nil
		}
		if err := s.Execute(ctx, line); err != nil {
			logging.L().Error("command failed", zap.String("line", line), zap.Error(err))
		}
	}
}

func isExit(line string) bool {
	switch strings.TrimSpace(line) {
	case "exit", "quit":
		return true
	}
	return false
}

// completer adapts session completion to readline. Candidates are returned
// as suffixes of the word under the cursor.
type completer struct {
	sess *session.Session
}

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	input := string(line[:pos])
	comp := c.sess.Candidates(input)
	partial := input[strings.LastIndex(input, " ")+1:]

	out := make([][]rune, 0, len(comp.Candidates))
	for _, cand := range comp.Candidates {
		out = append(out, []rune(cand[len(partial):]+" "))
	}
	return out, len([]rune(partial))
}

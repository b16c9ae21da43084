// Package interp turns one command line into display lines and session
// state changes. It never blocks: unrecognized commands are handed back to
// the caller for delegation.
package interp

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/mako10k/shellassist/internal/vfs"
)

// Env is the session context a command runs against.
type Env struct {
	// Dir is the canonical working directory.
	Dir  string
	Tree *vfs.Dir
	// History holds previously entered lines, oldest first, not including
	// the line being executed.
	History []string
}

// Result is everything a command asks of the session.
type Result struct {
	Lines []Line
	// DirChange is the new working directory, empty when unchanged.
	DirChange string
	Clear     bool
	// Delegate is the full input line when the command is not a built-in.
	Delegate string
	Gauge    *Reading
}

// Config holds interpreter settings.
type Config struct {
	// Home is the directory "~" resolves to. Defaults to vfs.DefaultHome.
	Home string
	// Rand drives the simulated gauges; nil seeds from the clock.
	Rand *rand.Rand
}

// Interpreter executes built-in commands.
type Interpreter struct {
	home   string
	help   *HelpSystem
	gauges *Gauges
}

// New creates an interpreter.
func New(cfg Config) *Interpreter {
	if cfg.Home == "" {
		cfg.Home = vfs.DefaultHome
	}
	return &Interpreter{
		home:   cfg.Home,
		help:   NewHelpSystem(),
		gauges: NewGauges(cfg.Rand),
	}
}

// Help returns the command catalogue.
func (in *Interpreter) Help() *HelpSystem { return in.help }

// Gauges returns the gauge generator.
func (in *Interpreter) Gauges() *Gauges { return in.gauges }

// Home returns the configured home directory.
func (in *Interpreter) Home() string { return in.home }

// Tokenize splits a line on whitespace, dropping empty tokens.
func Tokenize(line string) []string {
	return strings.Fields(line)
}

// Execute runs line in env.
func (in *Interpreter) Execute(line string, env Env) Result {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return Result{}
	}
	cmd, args := tokens[0], tokens[1:]

	switch cmd {
	case "help":
		return in.execHelp(args)
	case "clear":
		return Result{Clear: true}
	case "history":
		return in.execHistory(env)
	case "pwd":
		return Result{Lines: []Line{TextLine("%s", env.Dir)}}
	case "ls":
		return in.execLs(args, env)
	case "cd":
		return in.execCd(args, env)
	case "mkdir", "rm":
		return Result{Lines: []Line{ErrorLine(ErrReadOnly, "%s: Read-only file system.", cmd)}}
	case "cpu":
		v := in.gauges.CPU()
		return Result{
			Lines: []Line{KeyValueLine("CPU Usage", strconv.Itoa(v)+"%")},
			Gauge: &Reading{Gauge: GaugeCPU, Value: v},
		}
	case "mem":
		v := in.gauges.Mem()
		return Result{
			Lines: []Line{KeyValueLine("Memory Usage", strconv.Itoa(v)+"%")},
			Gauge: &Reading{Gauge: GaugeMem, Value: v},
		}
	default:
		return Result{Delegate: line}
	}
}

func (in *Interpreter) execHelp(args []string) Result {
	if len(args) == 0 {
		return Result{Lines: []Line{NamesLine("Available commands:", PlainNames(in.help.ListCommands()))}}
	}
	c, err := in.help.GetHelp(args[0])
	if err != nil {
		return Result{Lines: []Line{ErrorLine(ErrUnknownTopic, "help: no help available for '%s'", args[0])}}
	}
	return Result{Lines: []Line{
		KeyValueLine("Usage", c.Usage),
		KeyValueLine("Description", c.Description),
	}}
}

func (in *Interpreter) execHistory(env Env) Result {
	lines := make([]Line, 0, len(env.History))
	for i, h := range env.History {
		lines = append(lines, TextLine("%d: %s", i, h))
	}
	return Result{Lines: lines}
}

func (in *Interpreter) execLs(args []string, env Env) Result {
	target, shown := env.Dir, "."
	if len(args) > 0 {
		target = vfs.ResolveHome(env.Dir, args[0], in.home)
		shown = args[0]
	}
	dir, err := in.dirAt(env.Tree, target)
	if err != nil {
		return Result{Lines: []Line{ErrorLine(err, "ls: '%s': No such file or directory", shown)}}
	}
	return Result{Lines: []Line{NamesLine("", DirEntries(dir.Entries()))}}
}

func (in *Interpreter) execCd(args []string, env Env) Result {
	arg := "~"
	if len(args) > 0 {
		arg = args[0]
	}
	target := vfs.ResolveHome(env.Dir, arg, in.home)
	if _, err := in.dirAt(env.Tree, target); err != nil {
		return Result{Lines: []Line{ErrorLine(err, "cd: '%s': No such file or directory", arg)}}
	}
	return Result{DirChange: target}
}

func (in *Interpreter) dirAt(tree *vfs.Dir, path string) (*vfs.Dir, error) {
	n, ok := vfs.Lookup(tree, path)
	if !ok {
		return nil, ErrPathNotFound
	}
	switch n := n.(type) {
	case *vfs.Dir:
		return n, nil
	case *vfs.File:
		return nil, ErrNotADirectory
	default:
		return nil, ErrPathNotFound
	}
}

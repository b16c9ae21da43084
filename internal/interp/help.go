package interp

import "fmt"

// CommandHelp describes one built-in command.
type CommandHelp struct {
	Name        string
	Usage       string
	Description string
	// TakesPath marks commands whose arguments complete against the
	// current directory.
	TakesPath bool
}

// HelpSystem is the ordered catalogue of built-in commands.
type HelpSystem struct {
	order    []string
	commands map[string]*CommandHelp
}

// NewHelpSystem returns the catalogue of every command the interpreter
// recognizes.
func NewHelpSystem() *HelpSystem {
	h := &HelpSystem{commands: make(map[string]*CommandHelp)}
	for _, c := range []*CommandHelp{
		{Name: "ls", Usage: "ls [path]", Description: "List directory contents", TakesPath: true},
		{Name: "cd", Usage: "cd [path]", Description: "Change the working directory (default: ~)", TakesPath: true},
		{Name: "pwd", Usage: "pwd", Description: "Print the working directory"},
		{Name: "mkdir", Usage: "mkdir <dir>", Description: "Create a directory (read-only here)"},
		{Name: "rm", Usage: "rm <path>", Description: "Remove a file (read-only here)", TakesPath: true},
		{Name: "cpu", Usage: "cpu", Description: "Show simulated CPU usage"},
		{Name: "mem", Usage: "mem", Description: "Show simulated memory usage"},
		{Name: "clear", Usage: "clear", Description: "Clear the screen"},
		{Name: "help", Usage: "help [command]", Description: "List commands or describe one"},
		{Name: "history", Usage: "history", Description: "Show previously entered commands"},
	} {
		h.order = append(h.order, c.Name)
		h.commands[c.Name] = c
	}
	return h
}

// GetHelp returns the entry for command.
func (h *HelpSystem) GetHelp(command string) (*CommandHelp, error) {
	if c, ok := h.commands[command]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w for command: %s", ErrUnknownTopic, command)
}

// ListCommands returns the command names in catalogue order.
func (h *HelpSystem) ListCommands() []string {
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out
}

// IsCommand reports whether name is a built-in.
func (h *HelpSystem) IsCommand(name string) bool {
	_, ok := h.commands[name]
	return ok
}

// TakesPath reports whether name completes its arguments against the
// current directory.
func (h *HelpSystem) TakesPath(name string) bool {
	c, ok := h.commands[name]
	return ok && c.TakesPath
}

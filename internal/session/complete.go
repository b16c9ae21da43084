package session

import (
	"strings"

	"github.com/mako10k/shellassist/internal/interp"
	"github.com/mako10k/shellassist/internal/vfs"
)

// Completion is the outcome of one Tab press.
type Completion struct {
	// Candidates lists every match, in catalogue or directory order.
	Candidates []string `json:"candidates"`
	// Input is the input after completion; unchanged unless Applied.
	Input   string `json:"input"`
	Applied bool   `json:"applied"`
}

// Complete computes candidates for the last space-separated piece of input.
// The first piece, or any piece after a trailing space, completes against
// command names; later pieces of path-taking commands complete against the
// entries of cwd. Matching is a case-sensitive prefix match.
func Complete(input string, help *interp.HelpSystem, cwd *vfs.Dir) Completion {
	parts := strings.Split(input, " ")
	partial := parts[len(parts)-1]
	parts = parts[:len(parts)-1]

	var pool []string
	switch {
	case len(parts) == 0 || strings.HasSuffix(input, " "):
		pool = help.ListCommands()
	case help.TakesPath(parts[0]) && cwd != nil:
		pool = cwd.Names()
	}

	var candidates []string
	for _, name := range pool {
		if strings.HasPrefix(name, partial) {
			candidates = append(candidates, name)
		}
	}

	c := Completion{Candidates: candidates, Input: input}
	if len(candidates) == 1 {
		c.Input = strings.Join(append(parts, candidates[0]), " ") + " "
		c.Applied = true
	}
	return c
}

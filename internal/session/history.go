package session

// History keeps entered lines and a recall cursor. Recall runs from the
// newest entry towards the oldest.
type History struct {
	entries []string // oldest first
	cursor  int      // -1 when not recalling, else 0 = newest
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{cursor: -1}
}

// Push records a line and stops recalling.
func (h *History) Push(line string) {
	h.entries = append(h.entries, line)
	h.cursor = -1
}

// Back moves one entry older and returns it. It stays on the oldest entry
// once reached and reports false only when the history is empty.
func (h *History) Back() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor < len(h.entries)-1 {
		h.cursor++
	}
	return h.at(h.cursor), true
}

// Forward moves one entry newer and returns it. Moving past the newest entry
// stops recalling and returns "".
func (h *History) Forward() string {
	if h.cursor > 0 {
		h.cursor--
		return h.at(h.cursor)
	}
	h.cursor = -1
	return ""
}

// Entries returns the lines oldest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) at(cursor int) string {
	return h.entries[len(h.entries)-1-cursor]
}

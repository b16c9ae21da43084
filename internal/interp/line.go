package interp

import (
	"fmt"

	"github.com/mako10k/shellassist/internal/vfs"
)

// Kind tags a display line with a layout hint. Front-ends decide how each
// kind looks.
type Kind int

const (
	KindText Kind = iota
	KindPrompt
	KindNames
	KindKeyValue
	KindError
	KindWorking
	KindSuggestion
	KindBanner
)

var kindNames = map[Kind]string{
	KindText:       "text",
	KindPrompt:     "prompt",
	KindNames:      "names",
	KindKeyValue:   "keyvalue",
	KindError:      "error",
	KindWorking:    "working",
	KindSuggestion: "suggestion",
	KindBanner:     "banner",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	for kind, name := range kindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown line kind %q", string(b))
}

// Tag says what a listed name refers to.
type Tag string

const (
	TagPlain Tag = ""
	TagFile  Tag = "file"
	TagDir   Tag = "dir"
)

// Entry is one name in a KindNames line.
type Entry struct {
	Name string `json:"name"`
	Tag  Tag    `json:"tag,omitempty"`
}

// Line is one scrollback entry.
type Line struct {
	Kind Kind `json:"kind"`
	// Text is the body for text, error, working, suggestion and banner
	// lines, and the submitted command for prompt lines.
	Text string `json:"text,omitempty"`
	// Dir is the working directory a prompt line was submitted in.
	Dir string `json:"dir,omitempty"`
	// Title heads names and suggestion lines.
	Title   string  `json:"title,omitempty"`
	Entries []Entry `json:"entries,omitempty"`
	Key     string  `json:"key,omitempty"`
	Value   string  `json:"value,omitempty"`
	// Err is the error class of an error line.
	Err error `json:"-"`
}

// Plain renders the line as unstyled text, one string per output row.
func (l Line) Plain() string {
	switch l.Kind {
	case KindPrompt:
		return l.Dir + " > " + l.Text
	case KindNames:
		s := ""
		if l.Title != "" {
			s = l.Title + "\n"
		}
		for i, e := range l.Entries {
			if i > 0 {
				s += "  "
			}
			s += e.Name
			if e.Tag == TagDir {
				s += "/"
			}
		}
		return s
	case KindKeyValue:
		return l.Key + ": " + l.Value
	case KindSuggestion:
		return l.Title + "\n" + l.Text
	default:
		return l.Text
	}
}

// TextLine is a plain output line.
func TextLine(format string, args ...any) Line {
	return Line{Kind: KindText, Text: fmt.Sprintf(format, args...)}
}

// ErrorLine is an error output line classified by err.
func ErrorLine(err error, format string, args ...any) Line {
	return Line{Kind: KindError, Text: fmt.Sprintf(format, args...), Err: err}
}

// PromptLine echoes a submitted command.
func PromptLine(dir, command string) Line {
	return Line{Kind: KindPrompt, Dir: dir, Text: command}
}

// NamesLine lists names under an optional title.
func NamesLine(title string, entries []Entry) Line {
	return Line{Kind: KindNames, Title: title, Entries: entries}
}

// PlainNames builds untagged entries.
func PlainNames(names []string) []Entry {
	out := make([]Entry, len(names))
	for i, n := range names {
		out[i] = Entry{Name: n}
	}
	return out
}

// DirEntries converts a directory listing into tagged entries.
func DirEntries(entries []vfs.Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		tag := TagFile
		if e.IsDir {
			tag = TagDir
		}
		out[i] = Entry{Name: e.Name, Tag: tag}
	}
	return out
}

// KeyValueLine is a "key: value" line.
func KeyValueLine(key, value string) Line {
	return Line{Kind: KindKeyValue, Key: key, Value: value}
}

// WorkingLine is the transient indicator shown while a suggestion is pending.
func WorkingLine() Line {
	return Line{Kind: KindWorking, Text: "Thinking..."}
}

// SuggestionLine carries the collaborator's answer.
func SuggestionLine(suggestion string) Line {
	return Line{Kind: KindSuggestion, Title: "Command not found. AI suggests:", Text: suggestion}
}

// BannerLine is a welcome text line.
func BannerLine(text string) Line {
	return Line{Kind: KindBanner, Text: text}
}

package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/mako10k/shellassist/internal/interp"
	"github.com/mako10k/shellassist/internal/session"
)

// Printer writes scrollback lines as coloured text.
type Printer struct {
	w       io.Writer
	title   *color.Color
	banner  *color.Color
	cwd     *color.Color
	dir     *color.Color
	key     *color.Color
	err     *color.Color
	working *color.Color
	heading *color.Color
	suggest *color.Color
}

// NewPrinter returns a printer writing to w. noColor forces plain output.
func NewPrinter(w io.Writer, noColor bool) *Printer {
	p := &Printer{
		w:       w,
		title:   color.New(color.FgCyan, color.Bold),
		banner:  color.New(color.FgCyan),
		cwd:     color.New(color.FgBlue, color.Bold),
		dir:     color.New(color.FgBlue, color.Bold),
		key:     color.New(color.Faint),
		err:     color.New(color.FgRed),
		working: color.New(color.Faint),
		heading: color.New(color.FgYellow),
		suggest: color.New(color.FgGreen, color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{p.title, p.banner, p.cwd, p.dir, p.key, p.err, p.working, p.heading, p.suggest} {
			c.DisableColor()
		}
	}
	return p
}

// Prompt renders the input prompt for cwd.
func (p *Printer) Prompt(cwd string) string {
	return p.cwd.Sprint(cwd) + " > "
}

// Line writes one scrollback line.
func (p *Printer) Line(l interp.Line) {
	switch l.Kind {
	case interp.KindBanner:
		if l.Text == session.Banner[0] {
			p.title.Fprintln(p.w, l.Text)
			return
		}
		p.banner.Fprintln(p.w, l.Text)
	case interp.KindPrompt:
		fmt.Fprintln(p.w, p.Prompt(l.Dir)+l.Text)
	case interp.KindNames:
		if l.Title != "" {
			fmt.Fprintln(p.w, l.Title)
		}
		names := make([]string, len(l.Entries))
		for i, e := range l.Entries {
			if e.Tag == interp.TagDir {
				names[i] = p.dir.Sprint(e.Name + "/")
				continue
			}
			names[i] = e.Name
		}
		fmt.Fprintln(p.w, strings.Join(names, "  "))
	case interp.KindKeyValue:
		fmt.Fprintln(p.w, p.key.Sprint(l.Key+":")+" "+l.Value)
	case interp.KindError:
		p.err.Fprintln(p.w, l.Text)
	case interp.KindWorking:
		p.working.Fprintln(p.w, l.Text)
	case interp.KindSuggestion:
		p.heading.Fprintln(p.w, l.Title)
		p.suggest.Fprintln(p.w, "  "+l.Text)
	default:
		fmt.Fprintln(p.w, l.Text)
	}
}

// Lines writes lines in order.
func (p *Printer) Lines(lines []interp.Line) {
	for _, l := range lines {
		p.Line(l)
	}
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mako10k/shellassist/internal/interp"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	gaugeLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	gaugeFillStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	gaugeHighStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	gaugeEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	bannerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	bannerHeadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	cwdStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	dirStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	keyStyle        = lipgloss.NewStyle().Faint(true)
	valueStyle      = lipgloss.NewStyle().Bold(true)
	errStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	workingStyle    = lipgloss.NewStyle().Faint(true)
	suggestTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	suggestBox      = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("2")).
			Foreground(lipgloss.Color("2")).
			Padding(0, 1)
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const gaugeWidth = 10

// gauge draws "LABEL [#####.....] NN%".
func gauge(label string, value int) string {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	filled := value * gaugeWidth / 100
	fill := gaugeFillStyle
	if value >= 70 {
		fill = gaugeHighStyle
	}
	bar := fill.Render(strings.Repeat("█", filled)) + gaugeEmptyStyle.Render(strings.Repeat("░", gaugeWidth-filled))
	return fmt.Sprintf("%s %s %3d%%", gaugeLabelStyle.Render(label), bar, value)
}

func header(width, cpu, mem int) string {
	title := titleStyle.Render("Shell Assistant")
	gauges := gauge("CPU", cpu) + "  " + gauge("MEM", mem)
	gap := width - lipgloss.Width(title) - lipgloss.Width(gauges)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + gauges
}

func prompt(cwd string) string {
	return cwdStyle.Render(cwd) + promptStyle.Render(" > ")
}

// renderLine draws one scrollback line. spin is drawn in front of the
// working indicator.
func renderLine(l interp.Line, spin string) string {
	switch l.Kind {
	case interp.KindBanner:
		if l.Text == sessionTitle {
			return bannerHeadStyle.Render(l.Text)
		}
		return bannerStyle.Render(l.Text)
	case interp.KindPrompt:
		return prompt(l.Dir) + l.Text
	case interp.KindNames:
		names := make([]string, len(l.Entries))
		for i, e := range l.Entries {
			switch e.Tag {
			case interp.TagDir:
				names[i] = dirStyle.Render(e.Name + "/")
			default:
				names[i] = e.Name
			}
		}
		body := strings.Join(names, "  ")
		if l.Title != "" {
			return l.Title + "\n" + body
		}
		return body
	case interp.KindKeyValue:
		return keyStyle.Render(l.Key+":") + " " + valueStyle.Render(l.Value)
	case interp.KindError:
		return errStyle.Render(l.Text)
	case interp.KindWorking:
		return spin + workingStyle.Render(l.Text)
	case interp.KindSuggestion:
		return suggestTitle.Render(l.Title) + "\n" + suggestBox.Render(l.Text)
	default:
		return l.Text
	}
}

func renderLines(lines []interp.Line, spin string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = renderLine(l, spin)
	}
	return strings.Join(out, "\n")
}

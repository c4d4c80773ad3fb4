package app

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// maxLogLines bounds the in-memory log history shown by the log pane.
const maxLogLines = 500

// logPane keeps recent log entries for the debug view (ctrl+x).
type logPane struct {
	visible bool
	lines   []string
}

func (p *logPane) toggle() { p.visible = !p.visible }

func (p *logPane) append(entry string) {
	p.lines = append(p.lines, strings.TrimSuffix(entry, "\n"))
	if over := len(p.lines) - maxLogLines; over > 0 {
		p.lines = append(p.lines[:0:0], p.lines[over:]...)
	}
}

// render returns the entries colored by level and cut to width.
func (p *logPane) render(width int) string {
	if len(p.lines) == 0 {
		return noteStyle.Render("No logs to display")
	}
	out := make([]string, len(p.lines))
	for i, line := range p.lines {
		if ansi.StringWidth(line) > width {
			line = ansi.Truncate(line, width, "...")
		}
		out[i] = colorizeLogLine(line)
	}
	return strings.Join(out, "\n")
}

func colorizeLogLine(line string) string {
	for tag, style := range logLevelStyles {
		if strings.Contains(line, tag) {
			return style.Render(line)
		}
	}
	return line
}

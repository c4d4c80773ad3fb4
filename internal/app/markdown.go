package app

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// noMarginStyle removes glamour's document margins so replies line up with
// the rest of the message list.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// markdownRenderer renders assistant replies at a fixed wrap width.
type markdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
	style    string
}

// newMarkdownRenderer builds a renderer for style ("dark", "light", ...).
// A named style is used instead of WithAutoStyle, which queries the
// terminal and leaks the OSC response into the input stream.
func newMarkdownRenderer(width int, style string) (*markdownRenderer, error) {
	if style == "" {
		style = "dark"
	}
	width = max(width, 10)

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &markdownRenderer{renderer: r, width: width, style: style}, nil
}

// Render returns md styled for the terminal, without glamour's trailing
// blank lines. Falls back to the raw text when rendering fails.
func (r *markdownRenderer) Render(md string) string {
	if r == nil {
		return md
	}
	out, err := r.renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

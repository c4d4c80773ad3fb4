package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/ccbridge/internal/keys"
)

const appTitle = "Claude Personal Assistant"

// Badge texts for the probe result.
const (
	badgeConnected = "Claude Code: Connected"
	badgeNotFound  = "Claude Code: Not found"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.viewport.View(),
		m.renderStatusRow(),
		m.renderInput(),
		m.renderHelp(),
	}
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := titleStyle.Render(appTitle)

	var badge string
	if m.installed != nil {
		if *m.installed {
			badge = connectedStyle.Render(badgeConnected)
		} else {
			badge = notFoundStyle.Render(badgeNotFound)
		}
	}

	gap := max(m.width-lipgloss.Width(title)-lipgloss.Width(badge), 1)
	row := title + strings.Repeat(" ", gap) + badge
	return headerStyle.Width(m.width).Render(ansi.Truncate(row, m.width, ""))
}

// renderStatusRow shows the spinner and latest status while loading, and
// the working directory otherwise.
func (m Model) renderStatusRow() string {
	if m.loading {
		prefix := m.spinner.View() + " "
		status := ansi.Truncate(m.status, max(m.width-lipgloss.Width(prefix), 1), "...")
		return prefix + mutedStyle.Render(status)
	}
	if m.workDir == "" {
		return ""
	}
	return mutedStyle.Render(ansi.Truncate("cwd: "+m.workDir, m.width, "..."))
}

func (m Model) renderInput() string {
	style := inputStyle
	if m.inputDisabled() {
		style = inputDisabledStyle
	}
	return style.Width(max(m.width-2, 1)).Render(m.input.View())
}

func (m Model) renderHelp() string {
	h := help.New()
	h.Width = m.width
	bindings := keys.Chat.ShortHelp()
	if m.cfg.DebugMode {
		bindings = append(bindings, keys.Chat.ToggleLogs)
	}
	return h.ShortHelpView(bindings)
}

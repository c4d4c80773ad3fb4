package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestChat_KeyAssignments(t *testing.T) {
	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{"Send uses enter", Chat.Send, []string{"enter"}},
		{"Newline uses alt+enter and ctrl+j", Chat.Newline, []string{"alt+enter", "ctrl+j"}},
		{"ScrollUp uses pgup", Chat.ScrollUp, []string{"pgup"}},
		{"ScrollDown uses pgdown", Chat.ScrollDown, []string{"pgdown"}},
		{"ToggleLogs uses ctrl+x", Chat.ToggleLogs, []string{"ctrl+x"}},
		{"Quit uses ctrl+c", Chat.Quit, []string{"ctrl+c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

func TestChat_SendDoesNotMatchAltEnter(t *testing.T) {
	altEnter := tea.KeyMsg{Type: tea.KeyEnter, Alt: true}
	enter := tea.KeyMsg{Type: tea.KeyEnter}

	require.True(t, key.Matches(enter, Chat.Send))
	require.False(t, key.Matches(altEnter, Chat.Send))
	require.True(t, key.Matches(altEnter, Chat.Newline))
}

func TestChat_HelpTextPresent(t *testing.T) {
	for _, group := range Chat.FullHelp() {
		for _, b := range group {
			require.NotEmpty(t, b.Help().Key)
			require.NotEmpty(t, b.Help().Desc)
		}
	}
	require.Len(t, Chat.ShortHelp(), 4)
}

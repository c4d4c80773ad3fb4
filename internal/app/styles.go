package app

import "github.com/charmbracelet/lipgloss"

var (
	textPrimaryColor = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"}
	textMutedColor   = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#696969"}
	borderColor      = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	borderFocusColor = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#888888"}
	successColor     = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	errorColor       = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	warningColor     = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	spinnerColor     = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}
	userBubbleColor  = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#1A5276"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textPrimaryColor)

	headerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(borderColor)

	connectedStyle = lipgloss.NewStyle().Foreground(successColor)
	notFoundStyle  = lipgloss.NewStyle().Foreground(errorColor)
	mutedStyle     = lipgloss.NewStyle().Foreground(textMutedColor)
	noteStyle      = lipgloss.NewStyle().Foreground(textMutedColor).Italic(true)
	errorStyle     = lipgloss.NewStyle().Foreground(errorColor)
	draftStyle     = lipgloss.NewStyle().Foreground(textMutedColor)
	spinnerStyle   = lipgloss.NewStyle().Foreground(spinnerColor)

	userBubbleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(userBubbleColor).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderFocusColor)

	inputDisabledStyle = inputStyle.BorderForeground(borderColor)

	logLevelStyles = map[string]lipgloss.Style{
		"[ERROR]": lipgloss.NewStyle().Foreground(errorColor),
		"[WARN]":  lipgloss.NewStyle().Foreground(warningColor),
		"[INFO]":  lipgloss.NewStyle().Foreground(spinnerColor),
		"[DEBUG]": lipgloss.NewStyle().Foreground(textMutedColor),
	}
)

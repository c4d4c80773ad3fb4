package app

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/reflow/wordwrap"
)

// Role identifies who a chat message came from.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
	// RoleNote is local feedback such as command results. Never sent to the
	// CLI.
	RoleNote
)

// Message is one entry in the chat history.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
}

func newMessage(role Role, content string, now time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: now,
	}
}

const emptyStateText = "Start a conversation with Claude"

// renderMessages lays out the history for a list of the given width.
// User messages sit on the right, wrapped to three quarters of the width.
func renderMessages(msgs []Message, draft string, width, height int, md *markdownRenderer) string {
	if len(msgs) == 0 && draft == "" {
		return lipgloss.Place(width, max(height, 1), lipgloss.Center, lipgloss.Center,
			mutedStyle.Render(emptyStateText))
	}

	blocks := make([]string, 0, len(msgs)+1)
	for _, msg := range msgs {
		blocks = append(blocks, renderMessage(msg, width, md))
	}
	if draft != "" {
		blocks = append(blocks, draftStyle.Render(wordwrap.String(draft, width)))
	}
	return strings.Join(blocks, "\n\n")
}

func renderMessage(msg Message, width int, md *markdownRenderer) string {
	switch msg.Role {
	case RoleUser:
		bubbleWidth := max(width*3/4, 10)
		// Padding takes two columns.
		wrapped := wordwrap.String(msg.Content, bubbleWidth-2)
		bubble := userBubbleStyle.Render(wrapped)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
	case RoleNote:
		return noteStyle.Render(wordwrap.String(msg.Content, width))
	default:
		if strings.HasPrefix(msg.Content, errorPrefix) {
			return errorStyle.Render(wordwrap.String(msg.Content, width))
		}
		return md.Render(msg.Content)
	}
}

package claude

import "strings"

// maxCommandRunes bounds the command shown for a Bash call without a
// description.
const maxCommandRunes = 50

// ExtractStatus turns the first tool call of an assistant event into a
// short progress line for the UI. ok is false for every other event and for
// tool calls without a name.
func ExtractStatus(ev Event) (string, bool) {
	if ev.Kind != KindAssistant || ev.ToolUse == nil || ev.ToolUse.Name == "" {
		return "", false
	}
	tu := ev.ToolUse

	switch tu.Name {
	case "Bash":
		if desc, ok := tu.InputString("description"); ok {
			return "Running: " + desc, true
		}
		if cmd, ok := tu.InputString("command"); ok {
			return "Running: " + truncateRunes(cmd, maxCommandRunes), true
		}
		return "Running command...", true
	case "Read":
		if path, ok := tu.InputString("file_path"); ok {
			return "Reading: " + lastSegment(path), true
		}
		return "Reading file...", true
	case "Glob":
		return "Searching for files...", true
	case "Grep":
		return "Searching in files...", true
	case "Edit":
		return "Editing file...", true
	case "Write":
		return "Writing file...", true
	case "WebSearch":
		return "Searching the web...", true
	case "WebFetch":
		return "Fetching web page...", true
	case "Task":
		return "Running sub-task...", true
	default:
		return "Using " + tu.Name + "...", true
	}
}

// truncateRunes keeps the first n runes of s without splitting a character.
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// lastSegment returns the text after the final '/'. Paths reported by the
// CLI are slash-separated on every platform, so path/filepath is not used.
func lastSegment(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

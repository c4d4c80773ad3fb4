package claude

import "encoding/json"

// Kind classifies one line of CLI output.
type Kind int

const (
	// KindMalformed is a line that is not a JSON object.
	KindMalformed Kind = iota
	// KindAssistant is an assistant message (text and/or tool calls).
	KindAssistant
	// KindResult is the final result record.
	KindResult
	// KindSystem is a system record such as the init event.
	KindSystem
	// KindOther is any other JSON object, including ones without a type.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindAssistant:
		return "assistant"
	case KindResult:
		return "result"
	case KindSystem:
		return "system"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Wire values of the "type" field.
const (
	typeAssistant = "assistant"
	typeResult    = "result"
	typeSystem    = "system"

	blockToolUse = "tool_use"
	blockText    = "text"
)

// ToolUse is the first tool_use block of an assistant message.
type ToolUse struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// InputString returns a string-valued field of the tool input.
// ok is false when the input is not an object, the key is missing or the
// value is not a string.
func (t *ToolUse) InputString(key string) (string, bool) {
	if t == nil || len(t.Input) == 0 {
		return "", false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(t.Input, &fields); err != nil {
		return "", false
	}
	return stringField(fields, key)
}

// Event is one decoded line of CLI output.
type Event struct {
	Kind    Kind
	Type    string // raw "type" value, empty when absent
	SubType string

	// SessionID is set when the line carries a string session_id, whatever
	// its kind.
	SessionID string

	// ToolUse is the first tool_use block of an assistant message, or nil.
	ToolUse *ToolUse

	// Text is the concatenation of the assistant message's text blocks.
	Text string

	// Result holds the final answer of a result event. HasResult separates
	// an empty answer from a missing one.
	Result    string
	HasResult bool
}

package claude

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Decode classifies one line of CLI output. It never fails: anything that
// is not a JSON object is KindMalformed, and every field is decoded on its
// own so a mistyped field reads as absent instead of spoiling the line.
func Decode(line []byte) Event {
	line = bytes.TrimSpace(line)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil || fields == nil {
		return Event{Kind: KindMalformed}
	}

	ev := Event{Kind: KindOther}
	ev.Type, _ = stringField(fields, "type")
	ev.SubType, _ = stringField(fields, "subtype")
	ev.SessionID, _ = stringField(fields, "session_id")

	switch ev.Type {
	case typeAssistant:
		ev.Kind = KindAssistant
		decodeMessage(fields["message"], &ev)
	case typeResult:
		ev.Kind = KindResult
		ev.Result, ev.HasResult = stringField(fields, "result")
	case typeSystem:
		ev.Kind = KindSystem
	}

	return ev
}

// decodeMessage fills ToolUse and Text from message.content.
func decodeMessage(raw json.RawMessage, ev *Event) {
	var message map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &message) != nil {
		return
	}

	var content []json.RawMessage
	if c, ok := message["content"]; !ok || json.Unmarshal(c, &content) != nil {
		return
	}

	var text strings.Builder
	for _, rawBlock := range content {
		var block map[string]json.RawMessage
		if json.Unmarshal(rawBlock, &block) != nil || block == nil {
			continue
		}

		blockType, _ := stringField(block, "type")
		switch blockType {
		case blockToolUse:
			if ev.ToolUse != nil {
				continue
			}
			tu := &ToolUse{Input: block["input"]}
			tu.ID, _ = stringField(block, "id")
			tu.Name, _ = stringField(block, "name")
			ev.ToolUse = tu
		case blockText:
			if s, ok := stringField(block, "text"); ok {
				text.WriteString(s)
			}
		}
	}
	ev.Text = text.String()
}

// stringField reports the string value stored under key.
func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

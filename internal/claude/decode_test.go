package claude

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDecode_Kinds(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Kind
	}{
		{"not json", `not json`, KindMalformed},
		{"empty", ``, KindMalformed},
		{"array", `[1,2]`, KindMalformed},
		{"null", `null`, KindMalformed},
		{"string", `"assistant"`, KindMalformed},
		{"truncated", `{"type":"assistant"`, KindMalformed},
		{"assistant", `{"type":"assistant"}`, KindAssistant},
		{"result", `{"type":"result","result":"x"}`, KindResult},
		{"system", `{"type":"system","subtype":"init"}`, KindSystem},
		{"user", `{"type":"user"}`, KindOther},
		{"no type", `{"session_id":"s"}`, KindOther},
		{"type not string", `{"type":7}`, KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Decode([]byte(tt.line)).Kind)
		})
	}
}

func TestDecode_SessionIDOnAnyKind(t *testing.T) {
	ev := Decode([]byte(`{"type":"system","subtype":"init","session_id":"abc123","cwd":"/tmp"}`))
	require.Equal(t, KindSystem, ev.Kind)
	require.Equal(t, "init", ev.SubType)
	require.Equal(t, "abc123", ev.SessionID)

	ev = Decode([]byte(`{"type":"something_new","session_id":"xyz"}`))
	require.Equal(t, KindOther, ev.Kind)
	require.Equal(t, "xyz", ev.SessionID)
}

func TestDecode_MistypedFieldsAreAbsent(t *testing.T) {
	ev := Decode([]byte(`{"type":"result","result":42,"session_id":["a"]}`))
	require.Equal(t, KindResult, ev.Kind)
	require.False(t, ev.HasResult)
	require.Empty(t, ev.Result)
	require.Empty(t, ev.SessionID)

	ev = Decode([]byte(`{"type":"assistant","message":"oops"}`))
	require.Equal(t, KindAssistant, ev.Kind)
	require.Nil(t, ev.ToolUse)

	ev = Decode([]byte(`{"type":"assistant","message":{"content":{"type":"tool_use"}}}`))
	require.Nil(t, ev.ToolUse)
}

func TestDecode_EmptyResultIsPresent(t *testing.T) {
	ev := Decode([]byte(`{"type":"result","result":""}`))
	require.True(t, ev.HasResult)
	require.Empty(t, ev.Result)
}

func TestDecode_AssistantContent(t *testing.T) {
	line := `{"type":"assistant","session_id":"s1","message":{"content":[` +
		`{"type":"text","text":"Let me look. "},` +
		`"junk",` +
		`{"type":"tool_use","id":"tu_1","name":"Read","input":{"file_path":"/a/b/c.txt"}},` +
		`{"type":"tool_use","id":"tu_2","name":"Bash","input":{"command":"ls"}},` +
		`{"type":"text","text":"Done."}]}}`

	ev := Decode([]byte(line))

	require.Equal(t, KindAssistant, ev.Kind)
	require.Equal(t, "s1", ev.SessionID)
	require.Equal(t, "Let me look. Done.", ev.Text)
	require.NotNil(t, ev.ToolUse)
	require.Equal(t, "tu_1", ev.ToolUse.ID)
	require.Equal(t, "Read", ev.ToolUse.Name)

	path, ok := ev.ToolUse.InputString("file_path")
	require.True(t, ok)
	require.Equal(t, "/a/b/c.txt", path)

	_, ok = ev.ToolUse.InputString("missing")
	require.False(t, ok)
}

func TestToolUse_InputStringNonObject(t *testing.T) {
	tu := &ToolUse{Name: "Bash", Input: json.RawMessage(`"ls"`)}
	_, ok := tu.InputString("command")
	require.False(t, ok)

	var nilTool *ToolUse
	_, ok = nilTool.InputString("command")
	require.False(t, ok)
}

func TestDecode_TrailingWhitespace(t *testing.T) {
	ev := Decode([]byte("{\"type\":\"result\",\"result\":\"ok\"}\r\n"))
	require.Equal(t, KindResult, ev.Kind)
	require.Equal(t, "ok", ev.Result)
}

func TestDecode_NeverPanics(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		line := rapid.SliceOf(rapid.Byte()).Draw(rt, "line")
		require.NotPanics(rt, func() { Decode(line) })
	})
}

func TestDecode_SessionIDRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		id := rapid.String().Draw(rt, "id")
		typ := rapid.SampledFrom([]string{"system", "assistant", "result", "user", ""}).Draw(rt, "type")

		line, err := json.Marshal(map[string]string{"type": typ, "session_id": id})
		require.NoError(rt, err)

		require.Equal(rt, id, Decode(line).SessionID)
	})
}

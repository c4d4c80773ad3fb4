package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/ccbridge/internal/bridge"
)

type stubDispatcher struct {
	got      bridge.Request
	resumed  string
	statuses []string
	resp     bridge.Response
	err      error
}

func (s *stubDispatcher) Dispatch(_ context.Context, store *bridge.SessionStore, req bridge.Request, sink bridge.Sink) (bridge.Response, error) {
	s.got = req
	if !req.StartFresh {
		s.resumed, _ = store.Current()
	}
	for _, st := range s.statuses {
		_ = sink.Send(bridge.StreamEvent{Event: bridge.EventStatus, Data: st})
	}
	_ = sink.Send(bridge.StreamEvent{Event: bridge.EventDone, Data: s.resp.Result})
	if s.err != nil {
		return bridge.Response{}, s.err
	}
	if id, ok := s.resp.Session(); ok {
		store.Set(id)
	}
	return s.resp, nil
}

func strPtr(s string) *string { return &s }

func TestAsk_PrintsResultAndStatuses(t *testing.T) {
	d := &stubDispatcher{
		statuses: []string{"Reading: main.go", "Searching files..."},
		resp:     bridge.Response{Result: "all good", SessionID: strPtr("s-42")},
	}
	var stdout, stderr bytes.Buffer

	err := ask(t.Context(), d, askOptions{workDir: "/repo"}, "is it good?", &stdout, &stderr)
	require.NoError(t, err)

	require.Equal(t, "all good\n", stdout.String())
	require.Equal(t, "Reading: main.go\nSearching files...\nsession: s-42\n", stderr.String())
	require.Equal(t, bridge.Request{Message: "is it good?", WorkDir: "/repo"}, d.got)
}

func TestAsk_ResumesSession(t *testing.T) {
	d := &stubDispatcher{}
	var stdout, stderr bytes.Buffer

	require.NoError(t, ask(t.Context(), d, askOptions{session: "prev"}, "hi", &stdout, &stderr))
	require.Equal(t, "prev", d.resumed)
}

func TestAsk_NewIgnoresSession(t *testing.T) {
	d := &stubDispatcher{}
	var stdout, stderr bytes.Buffer

	require.NoError(t, ask(t.Context(), d, askOptions{session: "prev", fresh: true}, "hi", &stdout, &stderr))
	require.True(t, d.got.StartFresh)
	require.Empty(t, d.resumed)
}

func TestAsk_JSON(t *testing.T) {
	d := &stubDispatcher{resp: bridge.Response{Result: "r", SessionID: strPtr("abc")}}
	var stdout, stderr bytes.Buffer

	require.NoError(t, ask(t.Context(), d, askOptions{json: true}, "hi", &stdout, &stderr))

	var got map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	require.Equal(t, map[string]any{"result": "r", "session_id": "abc"}, got)
}

func TestAsk_JSONNullSession(t *testing.T) {
	d := &stubDispatcher{resp: bridge.Response{Result: "r"}}
	var stdout, stderr bytes.Buffer

	require.NoError(t, ask(t.Context(), d, askOptions{json: true}, "hi", &stdout, &stderr))
	require.JSONEq(t, `{"result":"r","session_id":null}`, stdout.String())
}

func TestAsk_Quiet(t *testing.T) {
	d := &stubDispatcher{statuses: []string{"Reading: x"}, resp: bridge.Response{Result: "ok", SessionID: strPtr("s")}}
	var stdout, stderr bytes.Buffer

	require.NoError(t, ask(t.Context(), d, askOptions{quiet: true}, "hi", &stdout, &stderr))
	require.Equal(t, "ok\n", stdout.String())
	require.Empty(t, stderr.String())
}

func TestAsk_Error(t *testing.T) {
	boom := errors.New("Claude Code exited with status: 2")
	d := &stubDispatcher{err: boom}
	var stdout, stderr bytes.Buffer

	err := ask(t.Context(), d, askOptions{}, "hi", &stdout, &stderr)
	require.ErrorIs(t, err, boom)
	require.Empty(t, stdout.String())
}

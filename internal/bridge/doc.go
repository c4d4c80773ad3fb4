// Package bridge runs one exchange with the Claude Code CLI on behalf of a
// user interface.
//
// A Dispatcher spawns the CLI, forwards progress to a Sink as it arrives and
// returns the final answer. Conversation continuity lives in a SessionStore
// owned by the caller: each successful exchange records the session the CLI
// reported, and the next exchange resumes it unless asked to start fresh.
//
//	store := &bridge.SessionStore{}
//	resp, err := d.Dispatch(ctx, store, bridge.Request{Message: "hi"}, sink)
//
// Events reach the sink in the order the CLI printed them. A "done" event
// is sent last, after the process has exited successfully.
package bridge

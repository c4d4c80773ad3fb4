package bridge

// EventKind names a StreamEvent.
type EventKind string

const (
	// EventStatus carries a short progress line such as "Reading: main.go".
	EventStatus EventKind = "status"
	// EventChunk carries assistant text as it arrives.
	EventChunk EventKind = "chunk"
	// EventDone carries the final response text.
	EventDone EventKind = "done"
)

// StreamEvent is one progress record delivered to a Sink.
type StreamEvent struct {
	Event EventKind `json:"event"`
	Data  string    `json:"data"`
}

// Request is one message to send.
type Request struct {
	Message string

	// WorkDir is the directory the CLI runs in. Empty falls back to the
	// configured default, then the home directory, then ".".
	WorkDir string

	// StartFresh ignores the held session. The zero value continues it.
	StartFresh bool

	// StreamChunks forwards assistant text blocks as chunk events.
	StreamChunks bool
}

// Response is the outcome of a successful dispatch.
type Response struct {
	Result    string  `json:"result"`
	SessionID *string `json:"session_id"`
}

// Session returns the session identifier the CLI reported, if any.
func (r Response) Session() (string, bool) {
	if r.SessionID == nil {
		return "", false
	}
	return *r.SessionID, true
}

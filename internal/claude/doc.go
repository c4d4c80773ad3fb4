// Package claude drives the headless Claude Code CLI.
//
// It knows how to find the executable, build its argument list, start it
// with piped output, classify each stream-json line it prints and turn tool
// calls into short human-readable status strings. It holds no session state;
// callers decide which session to resume.
//
// # Stream format
//
// With --output-format stream-json --verbose the CLI writes one JSON object
// per line:
//
//	{"type":"system","subtype":"init","session_id":"abc123",...}
//	{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Read","input":{"file_path":"/a/b/c.txt"}}]},"session_id":"abc123"}
//	{"type":"result","subtype":"success","result":"done!","session_id":"abc123"}
//
// Decode never fails. Lines that are not JSON objects come back as
// KindMalformed and fields with an unexpected type are treated as absent.
package claude

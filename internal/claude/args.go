package claude

// Args describes one headless invocation.
type Args struct {
	Prompt    string
	SessionID string // resumed when non-empty
	Model     string // optional --model
}

// BuildArgs returns the CLI arguments for a streaming, non-interactive run:
//
//	[--resume <id>] -p <prompt> --output-format stream-json --verbose [--model <m>]
func BuildArgs(a Args) []string {
	args := make([]string, 0, 9)
	if a.SessionID != "" {
		args = append(args, "--resume", a.SessionID)
	}
	args = append(args, "-p", a.Prompt, "--output-format", "stream-json", "--verbose")
	if a.Model != "" {
		args = append(args, "--model", a.Model)
	}
	return args
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/ccbridge/internal/bridge"
	"github.com/zjrosen/ccbridge/internal/log"
)

var askCmd = &cobra.Command{
	Use:   "ask [flags] <message...>",
	Short: "Send one message to Claude Code and print the reply",
	Long: `Send one message to Claude Code and print the reply.

Progress ("Reading: main.go", "Running: go test") is written to stderr while
Claude works; the reply goes to stdout. Pass --session to continue an
earlier conversation; the session to use next is printed to stderr.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

type askOptions struct {
	workDir string
	session string
	fresh   bool
	json    bool
	quiet   bool
}

var askOpts askOptions

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVar(&askOpts.workDir, "cwd", "", "working directory for Claude Code")
	askCmd.Flags().StringVar(&askOpts.session, "session", "", "session id to resume")
	askCmd.Flags().BoolVar(&askOpts.fresh, "new", false, "start a new conversation even when --session is set")
	askCmd.Flags().BoolVar(&askOpts.json, "json", false, "print the response as JSON")
	askCmd.Flags().BoolVarP(&askOpts.quiet, "quiet", "q", false, "do not print progress to stderr")
}

// dispatcher is the part of bridge.Dispatcher ask needs.
type dispatcher interface {
	Dispatch(ctx context.Context, store *bridge.SessionStore, req bridge.Request, sink bridge.Sink) (bridge.Response, error)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cleanup, err := prepare("ccbridge-ask")
	if err != nil {
		return err
	}
	defer cleanup()

	provider, err := newTracingProvider(cfg, configPath)
	if err != nil {
		return err
	}
	defer shutdownTracing(provider)

	d := bridge.NewDispatcherFromConfig(cfg, provider.Tracer())
	return ask(cmd.Context(), d, askOpts, strings.Join(args, " "), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// ask runs one dispatch. Statuses go to stderr, the reply to stdout.
func ask(ctx context.Context, d dispatcher, opts askOptions, message string, stdout, stderr io.Writer) error {
	store := bridge.NewSessionStore(opts.session)

	sink := bridge.SinkFunc(func(ev bridge.StreamEvent) error {
		if opts.quiet || ev.Event != bridge.EventStatus {
			return nil
		}
		_, err := fmt.Fprintln(stderr, ev.Data)
		return err
	})

	resp, err := d.Dispatch(ctx, store, bridge.Request{
		Message:    message,
		WorkDir:    opts.workDir,
		StartFresh: opts.fresh,
	}, sink)
	if err != nil {
		log.ErrorErr(log.CatBridge, "ask failed", err)
		return err
	}

	if opts.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if _, err := fmt.Fprintln(stdout, resp.Result); err != nil {
		return err
	}
	if id, ok := store.Current(); ok && !opts.quiet {
		_, _ = fmt.Fprintf(stderr, "session: %s\n", id)
	}
	return nil
}

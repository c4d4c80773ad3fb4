package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/ccbridge/internal/bridge"
	"github.com/zjrosen/ccbridge/internal/claude"
	"github.com/zjrosen/ccbridge/internal/config"
)

// errNotInstalled makes doctor exit non-zero.
var errNotInstalled = errors.New("claude CLI is not installed or not runnable")

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the Claude Code CLI can be found and run",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// prober is the part of bridge.Prober doctor needs.
type prober interface {
	Check(ctx context.Context) claude.ProbeResult
}

func claudeFinder(c config.Config) claude.Finder {
	return claude.NewDefaultFinder(c.Claude.Executable)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cleanup, err := prepare("ccbridge-doctor")
	if err != nil {
		return err
	}
	defer cleanup()

	provider, err := newTracingProvider(cfg, configPath)
	if err != nil {
		return err
	}
	defer shutdownTracing(provider)

	// Always probe fresh; a cached answer is no use here.
	p := bridge.NewProber(claudeFinder(cfg), 0, provider.Tracer())
	return doctor(cmd.Context(), p, configPath, cmd.OutOrStdout())
}

func doctor(ctx context.Context, p prober, cfgPath string, w io.Writer) error {
	res := p.Check(ctx)

	if cfgPath != "" {
		_, _ = fmt.Fprintf(w, "config:  %s\n", cfgPath)
	}
	if !res.Installed {
		_, _ = fmt.Fprintln(w, "claude:  not found")
		if res.Path != "" {
			_, _ = fmt.Fprintf(w, "path:    %s\n", res.Path)
		}
		if res.Err != nil {
			_, _ = fmt.Fprintf(w, "error:   %v\n", res.Err)
		}
		return errNotInstalled
	}

	_, _ = fmt.Fprintln(w, "claude:  installed")
	_, _ = fmt.Fprintf(w, "path:    %s\n", res.Path)
	if res.Version != "" {
		_, _ = fmt.Fprintf(w, "version: %s\n", res.Version)
	}
	return nil
}

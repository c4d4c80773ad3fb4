package claude

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/zjrosen/ccbridge/internal/log"
)

// CommandFactoryFunc creates an exec.Cmd. Tests use it to substitute the
// executable without touching PATH.
type CommandFactoryFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// SpawnBuilder provides a fluent API for starting a CLI process with piped
// stdout and stderr.
type SpawnBuilder struct {
	ctx            context.Context
	timeout        time.Duration
	execPath       string
	args           []string
	workDir        string
	env            []string
	commandFactory CommandFactoryFunc
}

// NewSpawnBuilder creates a new SpawnBuilder bound to ctx. Cancelling ctx
// kills the process.
func NewSpawnBuilder(ctx context.Context) *SpawnBuilder {
	return &SpawnBuilder{ctx: ctx}
}

// WithExecutable sets the executable path and arguments.
func (b *SpawnBuilder) WithExecutable(path string, args []string) *SpawnBuilder {
	b.execPath = path
	b.args = args
	return b
}

// WithWorkDir sets the working directory for the process.
func (b *SpawnBuilder) WithWorkDir(dir string) *SpawnBuilder {
	b.workDir = dir
	return b
}

// WithTimeout sets the process timeout. If d is 0 or negative,
// a cancel-only context is created instead of a timeout context.
func (b *SpawnBuilder) WithTimeout(d time.Duration) *SpawnBuilder {
	b.timeout = d
	return b
}

// WithEnv sets additional "KEY=VALUE" variables appended to os.Environ().
func (b *SpawnBuilder) WithEnv(env []string) *SpawnBuilder {
	b.env = env
	return b
}

// WithCommandFactory sets a custom command factory.
func (b *SpawnBuilder) WithCommandFactory(fn CommandFactoryFunc) *SpawnBuilder {
	b.commandFactory = fn
	return b
}

// Build validates the configuration, creates the pipes and starts the
// process. On error every created resource is released.
func (b *SpawnBuilder) Build() (*Process, error) {
	if b.execPath == "" {
		return nil, fmt.Errorf("spawn builder: executable path is required")
	}

	var procCtx context.Context
	var cancel context.CancelFunc
	if b.timeout > 0 {
		procCtx, cancel = context.WithTimeout(b.ctx, b.timeout)
	} else {
		procCtx, cancel = context.WithCancel(b.ctx)
	}

	var stdout, stderr io.ReadCloser
	cleanup := func() {
		cancel()
		if stdout != nil {
			_ = stdout.Close()
		}
		if stderr != nil {
			_ = stderr.Close()
		}
	}

	var cmd *exec.Cmd
	if b.commandFactory != nil {
		cmd = b.commandFactory(procCtx, b.execPath, b.args...)
	} else {
		// #nosec G204 -- the executable comes from config or a path lookup
		cmd = exec.CommandContext(procCtx, b.execPath, b.args...)
	}
	cmd.Dir = b.workDir
	if len(b.env) > 0 {
		cmd.Env = append(os.Environ(), b.env...)
	}

	var err error
	stdout, err = cmd.StdoutPipe()
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("spawn builder: failed to create stdout pipe: %w", err)
	}
	stderr, err = cmd.StderrPipe()
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("spawn builder: failed to create stderr pipe: %w", err)
	}

	log.Debug(log.CatProc, "spawning process",
		"execPath", b.execPath,
		"workDir", b.workDir,
		"args", len(b.args))

	if err := cmd.Start(); err != nil {
		cleanup()
		return nil, fmt.Errorf("spawn builder: failed to start %s: %w", b.execPath, err)
	}

	log.Debug(log.CatProc, "process started", "pid", cmd.Process.Pid)

	p := newProcess(procCtx, cancel, cmd, stdout, stderr)
	p.startStderrDrain()
	return p, nil
}

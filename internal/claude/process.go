package claude

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/zjrosen/ccbridge/internal/log"
)

// Scanner limits. Assistant lines echo whole tool results, so the maximum
// is well above bufio's default.
const (
	initialLineBuffer = 64 * 1024
	maxLineSize       = 16 * 1024 * 1024
)

// maxStderrLines bounds how much stderr is kept for error messages.
const maxStderrLines = 50

// ErrTimeout is returned when a process exceeds its configured timeout.
var ErrTimeout = errors.New("claude process timed out")

// ExitError reports a process that ran but did not exit successfully.
type ExitError struct {
	// Status is the exit code, or the signal description when the process
	// was killed.
	Status string
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	msg := "Claude Code exited with status: " + e.Status
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

// Process is a started CLI process. Read stdout to EOF with Scan, then call
// Wait exactly once.
type Process struct {
	ctx    context.Context
	cancel context.CancelFunc
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser

	mu          sync.Mutex
	stderrLines []string
	wg          sync.WaitGroup
}

func newProcess(ctx context.Context, cancel context.CancelFunc, cmd *exec.Cmd, stdout, stderr io.ReadCloser) *Process {
	return &Process{
		ctx:    ctx,
		cancel: cancel,
		cmd:    cmd,
		stdout: stdout,
		stderr: stderr,
	}
}

// PID returns the OS process ID, or -1 if not running.
func (p *Process) PID() int {
	if p.cmd == nil || p.cmd.Process == nil {
		return -1
	}
	return p.cmd.Process.Pid
}

// Scan calls fn for every non-empty stdout line until EOF. The slice passed
// to fn is only valid for the duration of the call.
func (p *Process) Scan(fn func(line []byte)) error {
	scanner := bufio.NewScanner(p.stdout)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), maxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		fn(line)
	}
	if err := scanner.Err(); err != nil {
		log.Debug(log.CatProc, "stdout scanner error", "pid", p.PID(), "error", err)
		return fmt.Errorf("reading claude output: %w", err)
	}
	return nil
}

// Kill stops the process and closes our end of stdout so that any child
// still writing to it gets EPIPE. Wait must still be called to reap it.
func (p *Process) Kill() {
	p.cancel()
	_ = p.stdout.Close()
}

// Wait reaps the process. It returns nil on exit status zero, ErrTimeout
// when the timeout fired, the context error when the caller cancelled, and
// an *ExitError otherwise.
func (p *Process) Wait() error {
	defer p.cancel()

	// Drain stderr before cmd.Wait closes the pipe.
	p.wg.Wait()
	err := p.cmd.Wait()
	if err == nil {
		log.Debug(log.CatProc, "process exited", "pid", p.PID(), "status", 0)
		return nil
	}

	if ctxErr := p.ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			log.Debug(log.CatProc, "process timed out", "pid", p.PID())
			return ErrTimeout
		}
		log.Debug(log.CatProc, "process cancelled", "pid", p.PID())
		return fmt.Errorf("claude process cancelled: %w", ctxErr)
	}

	exitErr := &ExitError{Status: err.Error(), Err: err}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		if code := ee.ExitCode(); code >= 0 {
			exitErr.Status = strconv.Itoa(code)
		} else {
			exitErr.Status = ee.ProcessState.String()
		}
	}
	exitErr.Stderr = strings.Join(p.StderrLines(), "\n")

	log.Debug(log.CatProc, "process failed", "pid", p.PID(), "status", exitErr.Status)
	return exitErr
}

// StderrLines returns the captured stderr lines.
func (p *Process) StderrLines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.stderrLines))
	copy(out, p.stderrLines)
	return out
}

func (p *Process) startStderrDrain() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		scanner := bufio.NewScanner(p.stderr)
		for scanner.Scan() {
			line := scanner.Text()
			log.Debug(log.CatProc, "STDERR", "pid", p.PID(), "line", line)

			p.mu.Lock()
			if len(p.stderrLines) < maxStderrLines {
				p.stderrLines = append(p.stderrLines, line)
			}
			p.mu.Unlock()
		}
		if err := scanner.Err(); err != nil {
			log.Debug(log.CatProc, "stderr scanner error", "pid", p.PID(), "error", err)
			// Keep the pipe empty so the child never blocks on stderr.
			_, _ = io.Copy(io.Discard, p.stderr)
		}
	}()
}

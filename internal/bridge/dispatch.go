package bridge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/ccbridge/internal/claude"
	"github.com/zjrosen/ccbridge/internal/config"
	"github.com/zjrosen/ccbridge/internal/log"
	"github.com/zjrosen/ccbridge/internal/tracing"
)

// ErrSpawn prefixes every error caused by the CLI not starting.
var ErrSpawn = errors.New("failed to spawn Claude Code CLI. Make sure it's installed")

// Dispatcher runs exchanges with the CLI. It is safe for concurrent use;
// callers that share a SessionStore between concurrent dispatches get
// last-finisher-wins semantics.
type Dispatcher struct {
	finder         claude.Finder
	model          string
	timeout        time.Duration
	defaultWorkDir string
	env            []string
	homeDir        func() (string, error)
	commandFactory claude.CommandFactoryFunc
	tracer         trace.Tracer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithFinder sets how the executable is located.
func WithFinder(f claude.Finder) Option {
	return func(d *Dispatcher) { d.finder = f }
}

// WithModel passes --model on every invocation.
func WithModel(model string) Option {
	return func(d *Dispatcher) { d.model = model }
}

// WithTimeout bounds each invocation. Zero means no limit.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) { d.timeout = timeout }
}

// WithDefaultWorkDir is used when a Request has no WorkDir.
func WithDefaultWorkDir(dir string) Option {
	return func(d *Dispatcher) { d.defaultWorkDir = dir }
}

// WithEnv appends "KEY=VALUE" pairs to the CLI environment.
func WithEnv(env []string) Option {
	return func(d *Dispatcher) { d.env = env }
}

// WithHomeDir overrides home directory resolution.
func WithHomeDir(fn func() (string, error)) Option {
	return func(d *Dispatcher) { d.homeDir = fn }
}

// WithCommandFactory substitutes exec.CommandContext.
func WithCommandFactory(fn claude.CommandFactoryFunc) Option {
	return func(d *Dispatcher) { d.commandFactory = fn }
}

// WithTracer records a span per dispatch.
func WithTracer(t trace.Tracer) Option {
	return func(d *Dispatcher) { d.tracer = t }
}

// NewDispatcher creates a Dispatcher using the default finder unless
// overridden.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		finder:  claude.NewDefaultFinder(""),
		homeDir: os.UserHomeDir,
		tracer:  noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewDispatcherFromConfig builds a Dispatcher from the claude and chat
// config sections.
func NewDispatcherFromConfig(cfg config.Config, tracer trace.Tracer, opts ...Option) *Dispatcher {
	base := []Option{
		WithFinder(claude.NewDefaultFinder(cfg.Claude.Executable)),
		WithModel(cfg.Claude.Model),
		WithTimeout(cfg.Claude.Timeout),
		WithDefaultWorkDir(cfg.Chat.WorkDir),
	}
	if tracer != nil {
		base = append(base, WithTracer(tracer))
	}
	return NewDispatcher(append(base, opts...)...)
}

// ResolveWorkDir returns the directory a request with workDir would run in.
func (d *Dispatcher) ResolveWorkDir(workDir string) string {
	if workDir != "" {
		return workDir
	}
	if d.defaultWorkDir != "" {
		return d.defaultWorkDir
	}
	if home, err := d.homeDir(); err == nil && home != "" {
		return home
	}
	return "."
}

// Dispatch sends req.Message to the CLI and blocks until it exits.
//
// Progress goes to sink as it is printed. On success the session the CLI
// reported, if any, replaces the one held by store, a done event is sent
// and the response is returned. On failure store is left untouched and no
// done event is sent. Cancelling ctx kills the CLI.
func (d *Dispatcher) Dispatch(ctx context.Context, store *SessionStore, req Request, sink Sink) (Response, error) {
	if sink == nil {
		sink = Discard
	}

	workDir := d.ResolveWorkDir(req.WorkDir)

	var resumeID string
	if !req.StartFresh && store != nil {
		resumeID, _ = store.Current()
	}

	ctx, span := d.tracer.Start(ctx, tracing.SpanDispatch, trace.WithAttributes(
		attribute.String(tracing.AttrWorkDir, workDir),
		attribute.Bool(tracing.AttrResumed, resumeID != ""),
		attribute.String(tracing.AttrModel, d.model),
	))
	defer span.End()

	log.Info(log.CatBridge, "dispatch started",
		"workDir", workDir, "resume", resumeID, "chars", len(req.Message))

	path, err := d.finder.Find()
	if err != nil {
		return d.fail(span, fmt.Errorf("%w: %w", ErrSpawn, err))
	}

	proc, err := claude.NewSpawnBuilder(ctx).
		WithExecutable(path, claude.BuildArgs(claude.Args{
			Prompt:    req.Message,
			SessionID: resumeID,
			Model:     d.model,
		})).
		WithWorkDir(workDir).
		WithTimeout(d.timeout).
		WithEnv(d.env).
		WithCommandFactory(d.commandFactory).
		Build()
	if err != nil {
		return d.fail(span, fmt.Errorf("%w: %w", ErrSpawn, err))
	}
	span.AddEvent(tracing.EventSpawned, trace.WithAttributes(attribute.Int("pid", proc.PID())))

	var (
		result    string
		observed  string
		statuses  int
		malformed int
	)
	readErr := proc.Scan(func(line []byte) {
		ev := claude.Decode(line)
		if ev.Kind == claude.KindMalformed {
			malformed++
			log.Debug(log.CatBridge, "ignoring malformed line", "line", truncate(line, 200))
			return
		}

		if ev.SessionID != "" && ev.SessionID != observed {
			observed = ev.SessionID
			span.AddEvent(tracing.EventSessionObserved,
				trace.WithAttributes(attribute.String(tracing.AttrSessionID, observed)))
		}

		if status, ok := claude.ExtractStatus(ev); ok {
			statuses++
			span.AddEvent(tracing.EventStatus, trace.WithAttributes(attribute.String("status", status)))
			d.send(sink, StreamEvent{Event: EventStatus, Data: status})
		}

		if req.StreamChunks && ev.Kind == claude.KindAssistant && ev.Text != "" {
			d.send(sink, StreamEvent{Event: EventChunk, Data: ev.Text})
		}

		if ev.Kind == claude.KindResult && ev.HasResult {
			result = ev.Result
		}
	})

	span.SetAttributes(
		attribute.Int(tracing.AttrStatusCount, statuses),
		attribute.Int(tracing.AttrMalformed, malformed),
	)

	if readErr != nil {
		proc.Kill()
		_ = proc.Wait()
		return d.fail(span, readErr)
	}

	if err := proc.Wait(); err != nil {
		var exitErr *claude.ExitError
		if errors.As(err, &exitErr) {
			span.SetAttributes(attribute.String(tracing.AttrExitStatus, exitErr.Status))
		}
		return d.fail(span, err)
	}

	resp := Response{Result: result}
	if observed != "" {
		if store != nil {
			store.Set(observed)
		}
		resp.SessionID = &observed
		span.SetAttributes(attribute.String(tracing.AttrSessionID, observed))
	}

	d.send(sink, StreamEvent{Event: EventDone, Data: result})

	span.SetAttributes(attribute.Int(tracing.AttrResultLen, len(result)))
	span.SetStatus(codes.Ok, "")
	log.Info(log.CatBridge, "dispatch finished",
		"session", observed, "statuses", statuses, "malformed", malformed, "resultChars", len(result))

	return resp, nil
}

func (d *Dispatcher) send(sink Sink, ev StreamEvent) {
	if err := sink.Send(ev); err != nil {
		log.Debug(log.CatBridge, "sink send failed", "event", ev.Event, "error", err)
	}
}

func (d *Dispatcher) fail(span trace.Span, err error) (Response, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	log.ErrorErr(log.CatBridge, "dispatch failed", err)
	return Response{}, err
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

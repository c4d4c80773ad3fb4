package bridge

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/ccbridge/internal/cachemanager"
	"github.com/zjrosen/ccbridge/internal/claude"
	"github.com/zjrosen/ccbridge/internal/tracing"
)

const probeCacheKey = "claude"

// Prober answers "is the CLI installed" and remembers the answer for a
// while so the UI can ask freely.
type Prober struct {
	finder claude.Finder
	ttl    time.Duration
	tracer trace.Tracer
	cache  *cachemanager.ReadThroughCache[string, claude.ProbeResult, claude.Finder]
}

// NewProber caches results for ttl. A ttl of zero or less disables caching.
// tracer may be nil.
func NewProber(finder claude.Finder, ttl time.Duration, tracer trace.Tracer) *Prober {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	store := cachemanager.NewInMemoryCacheManager[string, claude.ProbeResult]("probe", ttl, cachemanager.DefaultCleanupInterval)
	return &Prober{
		finder: finder,
		ttl:    ttl,
		tracer: tracer,
		cache:  cachemanager.NewReadThroughCache[string, claude.ProbeResult, claude.Finder](store, load, ttl <= 0),
	}
}

func load(ctx context.Context, finder claude.Finder) (claude.ProbeResult, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Bool(tracing.AttrProbeCacheHit, false))
	return claude.Probe(ctx, finder), nil
}

// Check returns the cached probe result, running the probe on a miss.
func (p *Prober) Check(ctx context.Context) claude.ProbeResult {
	ctx, span := p.tracer.Start(ctx, tracing.SpanProbe)
	defer span.End()
	span.SetAttributes(attribute.Bool(tracing.AttrProbeCacheHit, true))

	// The loader never fails.
	res, _ := p.cache.Get(ctx, probeCacheKey, p.finder, p.ttl)

	span.SetAttributes(
		attribute.Bool(tracing.AttrInstalled, res.Installed),
		attribute.String(tracing.AttrExecutable, res.Path),
		attribute.String(tracing.AttrVersion, res.Version),
	)
	return res
}

// Installed reports whether the CLI ran successfully with --version.
func (p *Prober) Installed(ctx context.Context) bool {
	return p.Check(ctx).Installed
}

// Refresh drops the cached answer and probes again.
func (p *Prober) Refresh(ctx context.Context) claude.ProbeResult {
	p.cache.Invalidate(ctx, probeCacheKey)
	return p.Check(ctx)
}

package tracing

// Span names.
const (
	SpanDispatch = "claude.dispatch"
	SpanProbe    = "claude.probe"
)

// Span attribute keys.
const (
	AttrWorkDir       = "claude.work_dir"
	AttrResumed       = "claude.resumed"
	AttrModel         = "claude.model"
	AttrSessionID     = "claude.session_id"
	AttrStatusCount   = "claude.status_count"
	AttrMalformed     = "claude.malformed_lines"
	AttrResultLen     = "claude.result_length"
	AttrExitStatus    = "claude.exit_status"
	AttrInstalled     = "claude.installed"
	AttrExecutable    = "claude.executable"
	AttrVersion       = "claude.version"
	AttrProbeCacheHit = "claude.probe.cache_hit"
)

// Span event names.
const (
	EventSpawned         = "process.spawned"
	EventStatus          = "status.emitted"
	EventSessionObserved = "session.observed"
)

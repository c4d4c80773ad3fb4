// Package app contains the chat window: a Bubble Tea model that sends each
// message through the bridge and shows progress while the CLI works.
package app

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/ccbridge/internal/bridge"
	"github.com/zjrosen/ccbridge/internal/claude"
	"github.com/zjrosen/ccbridge/internal/config"
	"github.com/zjrosen/ccbridge/internal/keys"
	"github.com/zjrosen/ccbridge/internal/log"
	"github.com/zjrosen/ccbridge/internal/pubsub"
	"github.com/zjrosen/ccbridge/internal/watcher"
)

const (
	thinkingStatus  = "Thinking..."
	noResponseText  = "No response received"
	errorPrefix     = "Error: "
	inputPaneHeight = 5 // 3 text lines + 2 border
	chromeHeight    = 2 // header + border
	footerHeight    = 2 // status row + help row
)

// spinnerFrames is the braille spinner shown next to the status line.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Dispatcher sends one message to the CLI. *bridge.Dispatcher implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, store *bridge.SessionStore, req bridge.Request, sink bridge.Sink) (bridge.Response, error)
}

// Prober reports whether the CLI is installed. *bridge.Prober implements it.
type Prober interface {
	Check(ctx context.Context) claude.ProbeResult
	Refresh(ctx context.Context) claude.ProbeResult
}

// Config holds the chat window's collaborators and settings.
type Config struct {
	Dispatcher Dispatcher
	Prober     Prober
	Store      *bridge.SessionStore

	// WorkDir is where the CLI runs. /cd changes it.
	WorkDir string
	// ConfigPath is where /cd persists the working directory. Empty skips
	// persisting.
	ConfigPath string

	ContinueSession bool
	StreamChunks    bool
	MarkdownStyle   string

	// DebugMode enables the log pane.
	DebugMode bool

	// ConfigEvents announces edits to the config file; Reload is called for
	// each one. Both must be set for live reload.
	ConfigEvents *pubsub.Broker[watcher.WatcherEvent]
	Reload       func() (config.ChatConfig, error)

	// Clock is the time source for testing. If nil, uses time.Now.
	Clock func() time.Time
}

// probeResultMsg carries the installation probe outcome.
type probeResultMsg struct {
	result claude.ProbeResult
}

// dispatchDoneMsg carries the outcome of one dispatch.
type dispatchDoneMsg struct {
	resp bridge.Response
	err  error
}

// Model is the chat window state.
type Model struct {
	cfg Config

	ctx    context.Context
	cancel context.CancelFunc

	broker         *pubsub.Broker[bridge.StreamEvent]
	streamListener *pubsub.ContinuousListener[bridge.StreamEvent]
	configListener *pubsub.ContinuousListener[watcher.WatcherEvent]
	logListener    *log.LogListener

	messages []Message
	draft    string // streamed assistant text for the in-flight dispatch

	// installed is nil until the probe answers.
	installed *bool
	probe     claude.ProbeResult

	loading bool
	status  string
	workDir string

	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	markdown *markdownRenderer
	logs     logPane

	width  int
	height int
	ready  bool
}

// New creates the chat window. The returned model owns a context that is
// cancelled on quit, which also kills an in-flight dispatch.
func New(cfg Config) Model {
	if cfg.Store == nil {
		cfg.Store = bridge.NewSessionStore("")
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	broker := pubsub.NewBroker[bridge.StreamEvent]()

	input := textarea.New()
	input.Placeholder = "Type a message..."
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetHeight(inputPaneHeight - 2)
	input.KeyMap.InsertNewline = keys.Chat.Newline
	input.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Spinner{Frames: spinnerFrames, FPS: 80 * time.Millisecond}),
		spinner.WithStyle(spinnerStyle),
	)

	m := Model{
		cfg:            cfg,
		ctx:            ctx,
		cancel:         cancel,
		broker:         broker,
		streamListener: pubsub.NewContinuousListener(ctx, broker),
		workDir:        cfg.WorkDir,
		input:          input,
		spinner:        sp,
	}
	if cfg.DebugMode {
		m.logListener = log.NewListener(ctx)
	}
	if cfg.ConfigEvents != nil && cfg.Reload != nil {
		m.configListener = pubsub.NewContinuousListener(ctx, cfg.ConfigEvents)
	}
	return m
}

// Init starts the probe and the event listeners.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.probeCmd(),
		m.streamListener.Listen(),
		textarea.Blink,
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.configListener != nil {
		cmds = append(cmds, m.configListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.setSize(msg.Width, msg.Height)
		return m, nil

	case probeResultMsg:
		installed := msg.result.Installed
		m.installed = &installed
		m.probe = msg.result
		log.Info(log.CatUI, "probe finished", "installed", installed, "path", msg.result.Path)
		return m.syncInput(), nil

	case pubsub.Event[bridge.StreamEvent]:
		m = m.handleStreamEvent(msg.Payload)
		return m, m.streamListener.Listen()

	case log.LogEvent:
		if m.logListener == nil {
			return m, nil
		}
		m.logs.append(msg.Payload)
		if m.logs.visible {
			m = m.refreshViewport()
		}
		return m, m.logListener.Listen()

	case pubsub.Event[watcher.WatcherEvent]:
		if m.configListener == nil {
			return m, nil
		}
		return m.handleConfigEvent(msg.Payload)

	case dispatchDoneMsg:
		return m.handleDispatchDone(msg), nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Chat.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, keys.Chat.ToggleLogs):
		if !m.cfg.DebugMode {
			break
		}
		m.logs.toggle()
		m = m.refreshViewport()
		return m, nil

	case key.Matches(msg, keys.Chat.ScrollUp):
		m.viewport.HalfPageUp()
		return m, nil

	case key.Matches(msg, keys.Chat.ScrollDown):
		m.viewport.HalfPageDown()
		return m, nil

	case key.Matches(msg, keys.Chat.Top):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, keys.Chat.Bottom):
		m.viewport.GotoBottom()
		return m, nil

	case key.Matches(msg, keys.Chat.Send):
		return m.submit()
	}

	if m.inputDisabled() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the trimmed input, or runs it as a command when it starts
// with a slash.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.inputDisabled() {
		return m, nil
	}
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.Reset()

	if cmd, ok := parseCommand(text); ok {
		return m.runCommand(cmd), nil
	}

	m.messages = append(m.messages, newMessage(RoleUser, text, m.cfg.Clock()))
	m.loading = true
	m.status = thinkingStatus
	m.draft = ""
	m = m.syncInput()
	m = m.refreshViewport()

	log.Debug(log.CatUI, "message submitted", "chars", len(text), "workDir", m.workDir)
	return m, tea.Batch(m.dispatchCmd(text), m.spinner.Tick)
}

// dispatchCmd runs one dispatch off the update loop.
func (m Model) dispatchCmd(text string) tea.Cmd {
	var (
		ctx        = m.ctx
		dispatcher = m.cfg.Dispatcher
		store      = m.cfg.Store
		sink       = bridge.NewBrokerSink(m.broker)
		req        = bridge.Request{
			Message:      text,
			WorkDir:      m.workDir,
			StartFresh:   !m.cfg.ContinueSession,
			StreamChunks: m.cfg.StreamChunks,
		}
	)
	return func() tea.Msg {
		resp, err := dispatcher.Dispatch(ctx, store, req, sink)
		return dispatchDoneMsg{resp: resp, err: err}
	}
}

func (m Model) probeCmd() tea.Cmd {
	ctx, prober := m.ctx, m.cfg.Prober
	return func() tea.Msg {
		if prober == nil {
			return probeResultMsg{}
		}
		return probeResultMsg{result: prober.Check(ctx)}
	}
}

// reprobeCmd bypasses the probe cache.
func (m Model) reprobeCmd() tea.Cmd {
	ctx, prober := m.ctx, m.cfg.Prober
	return func() tea.Msg {
		if prober == nil {
			return probeResultMsg{}
		}
		return probeResultMsg{result: prober.Refresh(ctx)}
	}
}

// handleConfigEvent applies the chat section of an edited config file and
// probes again in case the executable moved. The working directory is left
// alone; /cd owns it once the window is open.
func (m Model) handleConfigEvent(ev watcher.WatcherEvent) (tea.Model, tea.Cmd) {
	relisten := m.configListener.Listen()

	if ev.Type == watcher.WatcherError {
		log.Warn(log.CatConfig, "config watcher error", "error", ev.Error)
		return m, relisten
	}

	chat, err := m.cfg.Reload()
	if err != nil {
		log.Warn(log.CatConfig, "config reload failed", "path", ev.Path, "error", err)
		return m, relisten
	}

	m.cfg.ContinueSession = chat.ContinueSession
	m.cfg.StreamChunks = chat.StreamChunks
	if chat.MarkdownStyle != m.cfg.MarkdownStyle {
		m.cfg.MarkdownStyle = chat.MarkdownStyle
		m.markdown = nil
		if m.ready {
			m = m.setSize(m.width, m.height)
		}
	}
	log.Info(log.CatConfig, "config reloaded", "path", ev.Path,
		"continueSession", chat.ContinueSession, "streamChunks", chat.StreamChunks, "markdownStyle", chat.MarkdownStyle)

	return m, tea.Batch(relisten, m.reprobeCmd())
}

func (m Model) handleStreamEvent(ev bridge.StreamEvent) Model {
	if !m.loading {
		return m
	}
	switch ev.Event {
	case bridge.EventStatus:
		m.status = ev.Data
	case bridge.EventChunk:
		m.draft += ev.Data
		m = m.refreshViewport()
	}
	return m
}

func (m Model) handleDispatchDone(msg dispatchDoneMsg) Model {
	var content string
	switch {
	case msg.err != nil:
		log.ErrorErr(log.CatUI, "dispatch failed", msg.err)
		content = errorPrefix + msg.err.Error()
	case msg.resp.Result == "":
		content = noResponseText
	default:
		content = msg.resp.Result
	}

	m.messages = append(m.messages, newMessage(RoleAssistant, content, m.cfg.Clock()))
	m.loading = false
	m.status = ""
	m.draft = ""
	m = m.syncInput()
	return m.refreshViewport()
}

// inputDisabled mirrors the send button: off while a reply is pending or
// once the probe has said the CLI is missing.
func (m Model) inputDisabled() bool {
	return m.loading || (m.installed != nil && !*m.installed)
}

func (m Model) syncInput() Model {
	if m.inputDisabled() {
		m.input.Blur()
	} else {
		m.input.Focus()
	}
	return m
}

func (m Model) setSize(width, height int) Model {
	m.width, m.height = width, height

	vpHeight := max(height-chromeHeight-footerHeight-inputPaneHeight, 1)
	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.viewport.MouseWheelEnabled = true
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.input.SetWidth(max(width-2, 1))

	if m.markdown == nil || m.markdown.width != width {
		md, err := newMarkdownRenderer(width, m.cfg.MarkdownStyle)
		if err != nil {
			log.Warn(log.CatUI, "markdown renderer unavailable", "style", m.cfg.MarkdownStyle, "error", err)
		}
		m.markdown = md
	}
	return m.refreshViewport()
}

// refreshViewport re-renders the list and keeps the newest entry in view.
func (m Model) refreshViewport() Model {
	if !m.ready {
		return m
	}
	if m.logs.visible {
		m.viewport.SetContent(m.logs.render(m.viewport.Width))
	} else {
		m.viewport.SetContent(renderMessages(m.messages, m.draft, m.viewport.Width, m.viewport.Height, m.markdown))
	}
	m.viewport.GotoBottom()
	return m
}

// Messages returns the chat history.
func (m Model) Messages() []Message {
	return m.messages
}

// Loading reports whether a dispatch is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// Status returns the latest progress line of the in-flight dispatch.
func (m Model) Status() string {
	return m.status
}

// WorkDir returns the directory the next dispatch will run in.
func (m Model) WorkDir() string {
	return m.workDir
}

// Close releases the model's subscriptions and kills any in-flight
// dispatch.
func (m Model) Close() {
	m.cancel()
	m.broker.Close()
}

// Package config provides configuration types, defaults and persistence for
// ccbridge.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/ccbridge/internal/log"
	"github.com/zjrosen/ccbridge/internal/tracing"
)

// AppName names the config directory and the default trace service.
const AppName = "ccbridge"

// Config holds all configuration options for ccbridge.
type Config struct {
	Claude  ClaudeConfig   `mapstructure:"claude"`
	Chat    ChatConfig     `mapstructure:"chat"`
	Probe   ProbeConfig    `mapstructure:"probe"`
	Tracing tracing.Config `mapstructure:"tracing"`
}

// ClaudeConfig controls how the CLI is located and invoked.
type ClaudeConfig struct {
	Executable string        `mapstructure:"executable"` // explicit path; otherwise known paths then PATH
	Model      string        `mapstructure:"model"`      // passed as --model when set
	Timeout    time.Duration `mapstructure:"timeout"`    // 0 = no timeout
}

// ChatConfig holds conversation defaults.
type ChatConfig struct {
	WorkDir         string `mapstructure:"work_dir"`
	ContinueSession bool   `mapstructure:"continue_session"`
	StreamChunks    bool   `mapstructure:"stream_chunks"`
	MarkdownStyle   string `mapstructure:"markdown_style"` // "dark" (default), "light", "notty" or a glamour JSON style path
	AutoReload      bool   `mapstructure:"auto_reload"`    // apply config file edits while the chat window is open
}

// ProbeConfig controls the installation probe.
type ProbeConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.ServiceName = AppName
	return Config{
		Chat: ChatConfig{
			ContinueSession: true,
			MarkdownStyle:   "dark",
			AutoReload:      true,
		},
		Probe: ProbeConfig{
			CacheTTL: 30 * time.Second,
		},
		Tracing: tr,
	}
}

// DefaultConfigDir returns ~/.config/ccbridge, or "" without a home directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultConfigPath returns the user-level config file path.
func DefaultConfigPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// DefaultTracesFilePath returns traces/traces.jsonl inside configDir.
func DefaultTracesFilePath(configDir string) string {
	if configDir == "" {
		return ""
	}
	return filepath.Join(configDir, "traces", "traces.jsonl")
}

// ExpandHome replaces a leading "~" with the home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}

var markdownStyles = map[string]bool{
	"dark":  true,
	"light": true,
	"notty": true,
	"ascii": true,
}

// ValidateClaude checks the claude section.
func ValidateClaude(c ClaudeConfig) error {
	if c.Timeout < 0 {
		return fmt.Errorf("claude.timeout must not be negative, got %s", c.Timeout)
	}
	if strings.ContainsAny(c.Model, " \t\n") {
		return fmt.Errorf("claude.model must not contain whitespace, got %q", c.Model)
	}
	return nil
}

// ValidateChat checks the chat section.
func ValidateChat(c ChatConfig) error {
	if c.WorkDir != "" {
		info, err := os.Stat(ExpandHome(c.WorkDir))
		if err != nil {
			return fmt.Errorf("chat.work_dir %q: %w", c.WorkDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("chat.work_dir %q is not a directory", c.WorkDir)
		}
	}
	if c.MarkdownStyle != "" && !markdownStyles[c.MarkdownStyle] && !strings.HasSuffix(c.MarkdownStyle, ".json") {
		return fmt.Errorf("chat.markdown_style must be \"dark\", \"light\", \"notty\", \"ascii\" or a .json style file, got %q", c.MarkdownStyle)
	}
	return nil
}

// ValidateProbe checks the probe section.
func ValidateProbe(p ProbeConfig) error {
	if p.CacheTTL < 0 {
		return fmt.Errorf("probe.cache_ttl must not be negative, got %s", p.CacheTTL)
	}
	return nil
}

// ValidateTracing checks tracing configuration. Empty values use defaults.
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	switch t.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
	}

	if t.Enabled && t.Exporter == tracing.ExporterOTLP && t.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// Validate checks every section and reports all problems together.
func Validate(c Config) error {
	return errors.Join(
		ValidateClaude(c.Claude),
		ValidateChat(c.Chat),
		ValidateProbe(c.Probe),
		ValidateTracing(c.Tracing),
	)
}

// DefaultConfigTemplate returns the default config as YAML with comments.
func DefaultConfigTemplate() string {
	return `# ccbridge configuration

claude:
  # executable: ~/.claude/local/claude  # default: ~/.claude/local, ~/.claude, then PATH
  # model: sonnet                       # passed as --model when set
  timeout: 0s                           # 0 = wait as long as the CLI runs

chat:
  # work_dir: ~/code/project   # default working directory (default: home directory)
  continue_session: true       # resume the last session on each message
  stream_chunks: false         # show assistant text as it arrives
  markdown_style: dark         # "dark", "light", "notty", "ascii" or a glamour .json file
  auto_reload: true            # pick up edits to this file while the chat is open

probe:
  cache_ttl: 30s               # how long "is claude installed" answers are reused

# Tracing writes one span per dispatch and probe.
tracing:
  enabled: false
  exporter: file               # none | file | stdout | otlp
  # file_path: ~/.config/ccbridge/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
  service_name: ccbridge
`
}

// WriteDefaultConfig creates configPath with the default template,
// creating the parent directory if needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "created default config", "path", configPath)
	return nil
}

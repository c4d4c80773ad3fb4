package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// SetDefaults registers every default on v so that keys missing from the
// config file still unmarshal to Defaults().
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("claude.executable", d.Claude.Executable)
	v.SetDefault("claude.model", d.Claude.Model)
	v.SetDefault("claude.timeout", d.Claude.Timeout)
	v.SetDefault("chat.work_dir", d.Chat.WorkDir)
	v.SetDefault("chat.continue_session", d.Chat.ContinueSession)
	v.SetDefault("chat.stream_chunks", d.Chat.StreamChunks)
	v.SetDefault("chat.markdown_style", d.Chat.MarkdownStyle)
	v.SetDefault("chat.auto_reload", d.Chat.AutoReload)
	v.SetDefault("probe.cache_ttl", d.Probe.CacheTTL)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// Unmarshal decodes v into a Config and expands "~" in path settings.
func Unmarshal(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Claude.Executable = ExpandHome(cfg.Claude.Executable)
	cfg.Chat.WorkDir = ExpandHome(cfg.Chat.WorkDir)
	cfg.Tracing.FilePath = ExpandHome(cfg.Tracing.FilePath)
	return cfg, nil
}

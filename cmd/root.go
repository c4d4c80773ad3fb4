package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/ccbridge/internal/app"
	"github.com/zjrosen/ccbridge/internal/bridge"
	"github.com/zjrosen/ccbridge/internal/config"
	"github.com/zjrosen/ccbridge/internal/log"
	"github.com/zjrosen/ccbridge/internal/tracing"
	"github.com/zjrosen/ccbridge/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in the input field.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is checked before the user config directory.
const localConfigPath = ".ccbridge/config.yaml"

var (
	version    = "dev"
	cfgFile    string
	debugFlag  bool
	cfg        config.Config
	configPath string
	configErr  error
)

var rootCmd = &cobra.Command{
	Use:   "ccbridge",
	Short: "Chat with Claude Code from the terminal",
	Long: `ccbridge runs the Claude Code CLI headlessly, shows what it is doing while it
works and keeps the conversation going across messages.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/ccbridge/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (also CCBRIDGE_DEBUG=1)")
	rootCmd.PersistentFlags().String("claude", "",
		"path to the claude executable")
	rootCmd.PersistentFlags().String("model", "",
		"model passed to claude --model")
	rootCmd.Flags().String("cwd", "",
		"working directory for Claude Code (overrides chat.work_dir)")

	// Bind flags to viper
	_ = viper.BindPFlag("claude.executable", rootCmd.PersistentFlags().Lookup("claude"))
	_ = viper.BindPFlag("claude.model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("chat.work_dir", rootCmd.Flags().Lookup("cwd"))
}

func initConfig() {
	home, _ := os.UserHomeDir()
	userDir := ""
	if home != "" {
		userDir = filepath.Join(home, ".config", config.AppName)
	}
	cfg, configPath, configErr = loadConfig(viper.GetViper(), cfgFile, localConfigPath, userDir)
}

// loadConfig reads the config into v and decodes it.
//
// Lookup order:
//  1. explicit (--config)
//  2. local (.ccbridge/config.yaml in the current directory)
//  3. config.yaml in userDir
//
// When nothing is found a default file is written to userDir. The returned
// path is where the config lives, or where it should be saved.
func loadConfig(v *viper.Viper, explicit, local, userDir string) (config.Config, string, error) {
	config.SetDefaults(v)

	switch {
	case explicit != "":
		v.SetConfigFile(explicit)
	case fileExists(local):
		v.SetConfigFile(local)
	default:
		v.AddConfigPath(userDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	path := explicit
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Config{}, path, fmt.Errorf("reading config: %w", err)
		}
		// No config file found anywhere - create the default one
		path = filepath.Join(userDir, "config.yaml")
		if writeErr := config.WriteDefaultConfig(path); writeErr == nil {
			v.SetConfigFile(path)
			_ = v.ReadInConfig()
		}
		// If write fails, just continue with defaults
	}
	if used := v.ConfigFileUsed(); used != "" {
		path = used
	}

	c, err := config.Unmarshal(v)
	if err != nil {
		return config.Config{}, path, err
	}
	return c, path, nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// prepare validates the loaded config and starts logging. The returned
// cleanup closes the log file.
func prepare(prefix string) (func(), error) {
	if configErr != nil {
		return nil, configErr
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return initLogging(prefix)
}

// initLogging enables file logging for --debug or CCBRIDGE_DEBUG. The log
// path comes from CCBRIDGE_LOG, defaulting to debug.log.
func initLogging(prefix string) (func(), error) {
	if !debugFlag && os.Getenv("CCBRIDGE_DEBUG") == "" {
		return func() {}, nil
	}

	logPath := os.Getenv("CCBRIDGE_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}

	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "ccbridge starting", "version", version, "config", configPath, "logPath", logPath)
	return cleanup, nil
}

// debugEnabled reports whether logging was requested.
func debugEnabled() bool {
	return debugFlag || os.Getenv("CCBRIDGE_DEBUG") != ""
}

// newTracingProvider builds the provider, putting file traces next to the
// config file unless tracing.file_path says otherwise.
func newTracingProvider(c config.Config, cfgPath string) (*tracing.Provider, error) {
	tc := c.Tracing
	if tc.Enabled && tc.Exporter == tracing.ExporterFile && tc.FilePath == "" {
		dir := config.DefaultConfigDir()
		if cfgPath != "" {
			dir = filepath.Dir(cfgPath)
		}
		tc.FilePath = config.DefaultTracesFilePath(dir)
	}

	provider, err := tracing.NewProvider(tc)
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}
	if provider.Enabled() {
		log.Info(log.CatTrace, "tracing enabled", "exporter", tc.Exporter, "path", tc.FilePath)
	}
	return provider, nil
}

func shutdownTracing(p *tracing.Provider) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = p.Shutdown(ctx)
}

func runApp(cmd *cobra.Command, _ []string) error {
	cleanup, err := prepare("ccbridge")
	if err != nil {
		return err
	}
	defer cleanup()

	provider, err := newTracingProvider(cfg, configPath)
	if err != nil {
		return err
	}
	defer shutdownTracing(provider)

	dispatcher := bridge.NewDispatcherFromConfig(cfg, provider.Tracer())
	prober := bridge.NewProber(
		claudeFinder(cfg),
		cfg.Probe.CacheTTL,
		provider.Tracer(),
	)

	appCfg := app.Config{
		Dispatcher:      dispatcher,
		Prober:          prober,
		Store:           bridge.NewSessionStore(""),
		WorkDir:         dispatcher.ResolveWorkDir(cfg.Chat.WorkDir),
		ConfigPath:      configPath,
		ContinueSession: cfg.Chat.ContinueSession,
		StreamChunks:    cfg.Chat.StreamChunks,
		MarkdownStyle:   cfg.Chat.MarkdownStyle,
		DebugMode:       debugEnabled(),
	}

	if cfg.Chat.AutoReload && fileExists(configPath) {
		w, err := watcher.New(watcher.DefaultConfig(configPath))
		if err != nil {
			log.Warn(log.CatConfig, "config watcher unavailable", "path", configPath, "error", err)
		} else if err := w.Start(); err != nil {
			log.Warn(log.CatConfig, "config watcher failed to start", "path", configPath, "error", err)
			_ = w.Stop()
		} else {
			defer func() { _ = w.Stop() }()
			appCfg.ConfigEvents = w.Broker()
			appCfg.Reload = func() (config.ChatConfig, error) { return reloadChat(configPath) }
		}
	}

	model := app.New(appCfg)
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// reloadChat re-reads path from scratch so flag overrides bound to the global
// viper do not mask the edit.
func reloadChat(path string) (config.ChatConfig, error) {
	v := viper.New()
	config.SetDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return config.ChatConfig{}, fmt.Errorf("reading config: %w", err)
	}
	c, err := config.Unmarshal(v)
	if err != nil {
		return config.ChatConfig{}, err
	}
	if err := config.ValidateChat(c.Chat); err != nil {
		return config.ChatConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return c.Chat, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zjrosen/ccbridge/internal/config"
	"github.com/zjrosen/ccbridge/internal/log"
)

// command is a parsed slash command.
type command struct {
	name string
	arg  string
}

const helpText = `Commands:
  /new        start a new conversation
  /cd <dir>   run Claude in <dir> from now on
  /cd         show the working directory
  /help       show this help`

// parseCommand recognises the chat window's own commands. Anything else,
// including other slash-prefixed text, is sent to the CLI unchanged.
func parseCommand(text string) (command, bool) {
	if !strings.HasPrefix(text, "/") {
		return command{}, false
	}
	name, arg, _ := strings.Cut(text, " ")
	switch name {
	case "/new", "/cd", "/help":
		return command{name: name, arg: strings.TrimSpace(arg)}, true
	}
	return command{}, false
}

func (m Model) runCommand(cmd command) Model {
	log.Debug(log.CatUI, "command", "name", cmd.name, "arg", cmd.arg)

	switch cmd.name {
	case "/new":
		m.cfg.Store.Clear()
		m.messages = nil
		m = m.note("Started a new conversation")
	case "/cd":
		m = m.changeDir(cmd.arg)
	case "/help":
		m = m.note(helpText)
	}
	return m.refreshViewport()
}

func (m Model) changeDir(arg string) Model {
	if arg == "" {
		if m.workDir == "" {
			return m.note("Working directory: (default)")
		}
		return m.note("Working directory: " + m.workDir)
	}

	dir, err := resolveDir(arg, m.workDir)
	if err != nil {
		return m.note(errorPrefix + err.Error())
	}
	m.workDir = dir

	if m.cfg.ConfigPath != "" {
		if err := config.SaveWorkDir(m.cfg.ConfigPath, dir); err != nil {
			log.ErrorErr(log.CatUI, "saving work dir", err, "path", m.cfg.ConfigPath)
			return m.note(fmt.Sprintf("Working directory: %s (not saved: %v)", dir, err))
		}
	}
	return m.note("Working directory: " + dir)
}

// resolveDir expands ~ and makes arg absolute relative to base, then checks
// that it names a directory.
func resolveDir(arg, base string) (string, error) {
	dir := config.ExpandHome(arg)
	if !filepath.IsAbs(dir) && base != "" {
		dir = filepath.Join(base, dir)
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("cannot use %s: %w", arg, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", arg)
	}
	return dir, nil
}

func (m Model) note(text string) Model {
	m.messages = append(m.messages, newMessage(RoleNote, text, m.cfg.Clock()))
	return m
}

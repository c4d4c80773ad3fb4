package claude

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/zjrosen/ccbridge/internal/log"
)

// ErrNotFound is returned when no claude executable can be located.
var ErrNotFound = errors.New("claude executable not found")

// DefaultName is the executable name looked up on PATH.
const DefaultName = "claude"

// defaultKnownPaths are checked, in order, before falling back to PATH.
// The installer's local mode puts the binary under ~/.claude/local.
var defaultKnownPaths = []string{
	"~/.claude/local/{name}",
	"~/.claude/{name}",
}

// Finder locates an executable.
type Finder interface {
	Find() (string, error)
}

// ExecutableFinder resolves an executable from an explicit path, a list of
// well-known install locations and finally PATH.
type ExecutableFinder struct {
	name       string
	explicit   string
	knownPaths []string
	homeDir    func() (string, error)
}

// FinderOption configures an ExecutableFinder.
type FinderOption func(*ExecutableFinder)

// WithKnownPaths sets the locations checked before PATH. "~" expands to the
// home directory and "{name}" to the executable name (with .exe on Windows).
func WithKnownPaths(paths ...string) FinderOption {
	return func(f *ExecutableFinder) {
		f.knownPaths = paths
	}
}

// WithExplicitPath pins the executable. A bare name is looked up on PATH;
// anything containing a separator must exist as given.
func WithExplicitPath(path string) FinderOption {
	return func(f *ExecutableFinder) {
		f.explicit = path
	}
}

// WithHomeDir overrides home directory resolution.
func WithHomeDir(fn func() (string, error)) FinderOption {
	return func(f *ExecutableFinder) {
		f.homeDir = fn
	}
}

// NewExecutableFinder creates a finder for name.
func NewExecutableFinder(name string, opts ...FinderOption) *ExecutableFinder {
	f := &ExecutableFinder{
		name:    name,
		homeDir: os.UserHomeDir,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewDefaultFinder returns the finder used for the claude CLI. explicit is
// the configured claude.executable value and may be empty.
func NewDefaultFinder(explicit string) *ExecutableFinder {
	return NewExecutableFinder(DefaultName,
		WithKnownPaths(defaultKnownPaths...),
		WithExplicitPath(explicit),
	)
}

// Find returns the path of the executable or an error wrapping ErrNotFound.
func (f *ExecutableFinder) Find() (string, error) {
	if f.explicit != "" {
		return f.findExplicit()
	}

	execName := f.execName()
	for _, pattern := range f.knownPaths {
		candidate, ok := f.expand(pattern, execName)
		if !ok {
			continue
		}
		if isExecutableFile(candidate) {
			log.Debug(log.CatProc, "found executable at known path", "name", f.name, "path", candidate)
			return candidate, nil
		}
	}

	path, err := exec.LookPath(f.name)
	if err == nil {
		log.Debug(log.CatProc, "found executable via PATH", "name", f.name, "path", path)
		return path, nil
	}

	return "", fmt.Errorf("%w: %s", ErrNotFound, f.name)
}

func (f *ExecutableFinder) findExplicit() (string, error) {
	path, ok := f.expand(f.explicit, f.execName())
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, f.explicit)
	}
	if !strings.ContainsRune(path, os.PathSeparator) && !strings.Contains(path, "/") {
		found, err := exec.LookPath(path)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return found, nil
	}
	if !isExecutableFile(path) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return path, nil
}

func (f *ExecutableFinder) execName() string {
	if runtime.GOOS == "windows" && !strings.HasSuffix(f.name, ".exe") {
		return f.name + ".exe"
	}
	return f.name
}

// expand resolves "~" and "{name}". ok is false when the pattern needs a
// home directory that cannot be determined.
func (f *ExecutableFinder) expand(pattern, execName string) (string, bool) {
	p := strings.ReplaceAll(pattern, "{name}", execName)
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := f.homeDir()
		if err != nil || home == "" {
			return "", false
		}
		p = filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	return filepath.Clean(p), true
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

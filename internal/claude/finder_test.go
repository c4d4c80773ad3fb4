package claude

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeExecutable(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
}

func TestExecutableFinder_KnownPathFirst(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	home := t.TempDir()
	local := filepath.Join(home, ".claude", "local", "claude")
	writeExecutable(t, local, "#!/bin/sh\necho local\n")
	writeExecutable(t, filepath.Join(home, ".claude", "claude"), "#!/bin/sh\necho other\n")

	f := NewExecutableFinder("claude",
		WithKnownPaths(defaultKnownPaths...),
		WithHomeDir(func() (string, error) { return home, nil }),
	)

	path, err := f.Find()
	require.NoError(t, err)
	require.Equal(t, local, path)
}

func TestExecutableFinder_SkipsNonExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits")
	}
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claude", "local"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".claude", "local", "claude"), []byte("x"), 0o644))
	fallback := filepath.Join(home, ".claude", "claude")
	writeExecutable(t, fallback, "#!/bin/sh\n")

	f := NewExecutableFinder("claude",
		WithKnownPaths(defaultKnownPaths...),
		WithHomeDir(func() (string, error) { return home, nil }),
	)

	path, err := f.Find()
	require.NoError(t, err)
	require.Equal(t, fallback, path)
}

func TestExecutableFinder_PathFallback(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	bin := t.TempDir()
	onPath := filepath.Join(bin, "claude")
	writeExecutable(t, onPath, "#!/bin/sh\n")
	t.Setenv("PATH", bin)

	f := NewExecutableFinder("claude",
		WithKnownPaths(defaultKnownPaths...),
		WithHomeDir(func() (string, error) { return "", errors.New("no home") }),
	)

	path, err := f.Find()
	require.NoError(t, err)
	require.Equal(t, onPath, path)
}

func TestExecutableFinder_NotFound(t *testing.T) {
	t.Setenv("PATH", "")

	f := NewExecutableFinder("claude",
		WithKnownPaths(defaultKnownPaths...),
		WithHomeDir(func() (string, error) { return t.TempDir(), nil }),
	)

	path, err := f.Find()
	require.ErrorIs(t, err, ErrNotFound)
	require.Empty(t, path)
}

func TestExecutableFinder_ExplicitPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	dir := t.TempDir()
	explicit := filepath.Join(dir, "my-claude")
	writeExecutable(t, explicit, "#!/bin/sh\n")

	path, err := NewDefaultFinder(explicit).Find()
	require.NoError(t, err)
	require.Equal(t, explicit, path)

	_, err = NewDefaultFinder(filepath.Join(dir, "missing")).Find()
	require.ErrorIs(t, err, ErrNotFound)
}

func TestExecutableFinder_ExplicitBareNameUsesPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	bin := t.TempDir()
	writeExecutable(t, filepath.Join(bin, "claude-nightly"), "#!/bin/sh\n")
	t.Setenv("PATH", bin)

	path, err := NewDefaultFinder("claude-nightly").Find()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(bin, "claude-nightly"), path)
}

func TestExecutableFinder_ExplicitTilde(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	home := t.TempDir()
	target := filepath.Join(home, "bin", "claude")
	writeExecutable(t, target, "#!/bin/sh\n")

	f := NewExecutableFinder("claude",
		WithExplicitPath("~/bin/claude"),
		WithHomeDir(func() (string, error) { return home, nil }),
	)

	path, err := f.Find()
	require.NoError(t, err)
	require.Equal(t, target, path)
}

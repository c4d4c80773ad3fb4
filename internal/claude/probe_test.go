package claude

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubFinder struct {
	path string
	err  error
}

func (s stubFinder) Find() (string, error) { return s.path, s.err }

func TestCheckInstalled_Success(t *testing.T) {
	skipOnWindows(t)
	path := fakeCLI(t, `[ "$1" = "--version" ] || exit 9
echo "1.0.42 (Claude Code)"
`)

	res := Probe(t.Context(), stubFinder{path: path})
	require.True(t, res.Installed)
	require.Equal(t, path, res.Path)
	require.Equal(t, "1.0.42 (Claude Code)", res.Version)
	require.NoError(t, res.Err)

	require.True(t, CheckInstalled(t.Context(), stubFinder{path: path}))
}

func TestCheckInstalled_NonZeroExit(t *testing.T) {
	skipOnWindows(t)
	path := fakeCLI(t, "exit 1\n")

	require.False(t, CheckInstalled(t.Context(), stubFinder{path: path}))
}

func TestCheckInstalled_NotFound(t *testing.T) {
	res := Probe(t.Context(), stubFinder{err: ErrNotFound})
	require.False(t, res.Installed)
	require.ErrorIs(t, res.Err, ErrNotFound)
}

func TestCheckInstalled_NotStartable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "claude")
	require.False(t, CheckInstalled(t.Context(), stubFinder{path: missing}))
}

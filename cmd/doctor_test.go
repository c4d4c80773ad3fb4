package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/ccbridge/internal/claude"
)

type stubProber struct {
	result claude.ProbeResult
}

func (s stubProber) Check(context.Context) claude.ProbeResult { return s.result }

func TestDoctor_Installed(t *testing.T) {
	var out bytes.Buffer
	p := stubProber{result: claude.ProbeResult{Installed: true, Path: "/usr/local/bin/claude", Version: "1.0.30 (Claude Code)"}}

	err := doctor(t.Context(), p, "/home/me/.config/ccbridge/config.yaml", &out)
	require.NoError(t, err)
	require.Equal(t, "config:  /home/me/.config/ccbridge/config.yaml\n"+
		"claude:  installed\n"+
		"path:    /usr/local/bin/claude\n"+
		"version: 1.0.30 (Claude Code)\n", out.String())
}

func TestDoctor_NotFound(t *testing.T) {
	var out bytes.Buffer
	p := stubProber{result: claude.ProbeResult{Err: claude.ErrNotFound}}

	err := doctor(t.Context(), p, "", &out)
	require.ErrorIs(t, err, errNotInstalled)
	require.Equal(t, "claude:  not found\nerror:   "+claude.ErrNotFound.Error()+"\n", out.String())
}

func TestDoctor_FoundButBroken(t *testing.T) {
	var out bytes.Buffer
	p := stubProber{result: claude.ProbeResult{Path: "/opt/claude", Err: errors.New("exit status 1")}}

	err := doctor(t.Context(), p, "", &out)
	require.ErrorIs(t, err, errNotInstalled)
	require.Contains(t, out.String(), "path:    /opt/claude\n")
	require.Contains(t, out.String(), "error:   exit status 1\n")
}

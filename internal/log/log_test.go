package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatEntry(t *testing.T) {
	ts := time.Date(2025, 12, 6, 10, 45, 0, 0, time.UTC)

	got := formatEntry(ts, LevelError, CatBridge, "dispatch failed", []any{"status", 1, "cwd", "/tmp"})

	require.Equal(t, "2025-12-06T10:45:00 [ERROR] [bridge] dispatch failed status=1 cwd=/tmp\n", got)
}

func TestFormatEntry_OddFields(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	got := formatEntry(ts, LevelDebug, CatProc, "line", []any{"a", 1, "orphan"})

	require.True(t, strings.HasSuffix(got, " a=1 orphan=<missing>\n"), got)
}

func TestLogger_MinLevelAndDisable(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(func() { defaultLogger = nil })

	SetMinLevel(LevelWarn)
	Debug(CatBridge, "hidden")
	Warn(CatBridge, "shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "[WARN] [bridge] shown")

	SetEnabled(false)
	Error(CatBridge, "muted")
	require.NotContains(t, buf.String(), "muted")
}

func TestErrorErr_IncludesError(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(func() { defaultLogger = nil })

	ErrorErr(CatProc, "wait failed", errors.New("exit status 2"), "pid", 42)
	ErrorErr(CatProc, "nil error", nil)

	out := buf.String()
	require.Contains(t, out, "wait failed pid=42 error=exit status 2")
	require.Contains(t, out, "nil error error=<nil>")
}

func TestLog_NoLoggerIsNoop(t *testing.T) {
	defaultLogger = nil
	require.NotPanics(t, func() {
		Info(CatUI, "nothing")
		SetEnabled(true)
		SetMinLevel(LevelDebug)
	})
	require.Nil(t, NewListener(t.Context()))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

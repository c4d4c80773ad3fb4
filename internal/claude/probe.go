package claude

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/zjrosen/ccbridge/internal/log"
)

// ProbeResult describes what a version probe found.
type ProbeResult struct {
	Installed bool
	Path      string
	Version   string
	Err       error // why Installed is false, nil otherwise
}

// Probe runs "<claude> --version". Installed is true iff the executable was
// found and exited with status zero.
func Probe(ctx context.Context, finder Finder) ProbeResult {
	path, err := finder.Find()
	if err != nil {
		log.Debug(log.CatProbe, "claude not found", "error", err)
		return ProbeResult{Err: err}
	}

	var stdout bytes.Buffer
	// #nosec G204 -- path comes from the finder
	cmd := exec.CommandContext(ctx, path, "--version")
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		log.Debug(log.CatProbe, "version probe failed", "path", path, "error", err)
		return ProbeResult{Path: path, Err: err}
	}

	version := strings.TrimSpace(stdout.String())
	log.Debug(log.CatProbe, "version probe succeeded", "path", path, "version", version)
	return ProbeResult{Installed: true, Path: path, Version: version}
}

// CheckInstalled reports whether the claude CLI can be run. It never fails;
// a missing or broken executable is simply false.
func CheckInstalled(ctx context.Context, finder Finder) bool {
	return Probe(ctx, finder).Installed
}

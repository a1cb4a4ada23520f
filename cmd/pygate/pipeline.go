package main

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/vertti/pygate/pkg/cmdrun"
	"github.com/vertti/pygate/pkg/config"
	"github.com/vertti/pygate/pkg/envman"
	"github.com/vertti/pygate/pkg/gate"
	"github.com/vertti/pygate/pkg/history"
)

// execRunner and installerHTTP are swapped out in command tests.
// Nil means the production implementations.
var (
	execRunner    cmdrun.Runner
	installerHTTP envman.HTTPClient
)

// newPipeline resolves the configuration and assembles a pipeline for
// the given directories.
func newPipeline(console io.Writer, envDir, logDir, projectDir, configPath string) (*gate.Pipeline, error) {
	cfg, path, err := config.Resolve(projectDir, configPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		slog.Debug("using config file", "path", path)
	}

	return &gate.Pipeline{
		EnvDir:     envDir,
		LogDir:     logDir,
		ProjectDir: projectDir,
		Config:     cfg,
		Exec:       execRunner,
		HTTP:       installerHTTP,
		Console:    console,
	}, nil
}

// openHistory opens the run database inside the log folder. History is
// best-effort: an open failure disables recording for this invocation.
func openHistory(logDir string) (*history.Store, func()) {
	store, err := history.Open(filepath.Join(logDir, history.DefaultFileName))
	if err != nil {
		slog.Warn("run history disabled", "error", err)
		return nil, func() {}
	}
	return store, func() { _ = store.Close() }
}

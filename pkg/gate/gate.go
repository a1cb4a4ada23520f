// Package gate orchestrates a pygate run: provision the Python
// environment, execute the configured checks against the project
// folder, and record the outcome.
package gate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/vertti/pygate/pkg/check"
	"github.com/vertti/pygate/pkg/checkrun"
	"github.com/vertti/pygate/pkg/cmdrun"
	"github.com/vertti/pygate/pkg/config"
	"github.com/vertti/pygate/pkg/envman"
	"github.com/vertti/pygate/pkg/history"
	"github.com/vertti/pygate/pkg/output"
	"github.com/vertti/pygate/pkg/permcheck"
	"github.com/vertti/pygate/pkg/runlog"
)

// LockFileName is the lock inside the log folder that guards against
// two runs provisioning the same environment at once.
const LockFileName = ".pygate.lock"

// ErrRunActive is returned when another pygate process holds the lock.
var ErrRunActive = errors.New("another pygate run is active")

// Pipeline wires together everything a run needs. Nil fields fall back
// to production defaults, so tests can swap in doubles piecemeal.
type Pipeline struct {
	EnvDir     string
	LogDir     string
	ProjectDir string
	Config     config.Config
	Exec       cmdrun.Runner                  // nil means RealRunner
	HTTP       envman.HTTPClient              // nil means http.DefaultClient
	Console    io.Writer                      // nil means os.Stdout
	History    *history.Store                 // nil disables run recording
	Now        func() time.Time               // nil means time.Now
	Probe      func(dir string) (bool, error) // nil means permcheck.Probe
}

// Outcome describes a finished or short-circuited run.
type Outcome struct {
	RunID   string
	LogPath string
	Denied  bool
	Results []check.Result
}

// AllOK reports whether no check failed and the run was not denied.
func (o *Outcome) AllOK() bool {
	if o.Denied {
		return false
	}
	for _, r := range o.Results {
		if !r.OK() {
			return false
		}
	}
	return true
}

// Run executes the full pipeline: audit log, permission probe,
// environment provisioning, checks, history.
func (p *Pipeline) Run(ctx context.Context) (*Outcome, error) {
	return p.execute(ctx, true)
}

// Check skips provisioning and runs only the probe and the checks.
// The environment must already be set up.
func (p *Pipeline) Check(ctx context.Context) (*Outcome, error) {
	return p.execute(ctx, false)
}

// Setup provisions the environment without running any checks and
// without touching the log folder.
func (p *Pipeline) Setup(ctx context.Context) error {
	writable, err := p.probe()(p.ProjectDir)
	if err != nil {
		return fmt.Errorf("probing project folder: %w", err)
	}
	if !writable {
		fmt.Fprintf(p.console(), "Access to '%s' is denied.\n", p.ProjectDir)
		return nil
	}
	return p.provision(ctx)
}

func (p *Pipeline) execute(ctx context.Context, provision bool) (*Outcome, error) {
	start := p.now()

	unlock, err := p.acquireLock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	outcome := &Outcome{RunID: uuid.New().String()}

	log := runlog.New(p.LogDir, start, p.console())
	log.Create()
	outcome.LogPath = log.Path()

	slog.Info("run started", "run_id", outcome.RunID, "project", p.ProjectDir)

	writable, err := p.probe()(p.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("probing project folder: %w", err)
	}
	if !writable {
		denial := fmt.Sprintf("Access to '%s' is denied.", p.ProjectDir)
		fmt.Fprintln(p.console(), denial)
		log.AppendLine(denial)
		slog.Warn("project folder not writable", "dir", p.ProjectDir)
		outcome.Denied = true
		return outcome, nil
	}

	if provision {
		if err := p.provision(ctx); err != nil {
			return nil, err
		}
	}

	results, err := p.runChecks(ctx, log)
	outcome.Results = results
	if err != nil {
		return outcome, err
	}

	p.record(ctx, outcome, start)
	slog.Info("run finished", "run_id", outcome.RunID,
		"checks", len(outcome.Results), "passed", outcome.AllOK(),
		"duration_ms", p.now().Sub(start).Milliseconds())

	fmt.Fprintln(p.console(), output.CompletionMessage)
	return outcome, nil
}

// acquireLock takes the run lock, creating the log folder when needed.
// The returned func releases the lock.
func (p *Pipeline) acquireLock() (func(), error) {
	if err := os.MkdirAll(p.LogDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating log folder: %w", err)
	}

	lock := flock.New(filepath.Join(p.LogDir, LockFileName))
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring run lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w: lock held at %s", ErrRunActive, lock.Path())
	}
	return func() { _ = lock.Unlock() }, nil
}

func (p *Pipeline) provision(ctx context.Context) error {
	mgr := p.manager()

	if !mgr.IsInstalled() {
		if err := mgr.Install(ctx); err != nil {
			return err
		}
	}
	p.warnBelowMinVersion(ctx, mgr)

	if err := mgr.UseEnv(ctx, p.ProjectDir); err != nil {
		return err
	}

	installed, err := mgr.EnsureTools(ctx, p.ProjectDir, p.Config.Tools)
	if err != nil {
		return err
	}
	if len(installed) > 0 {
		slog.Info("installed missing tools", "tools", installed)
	}

	return mgr.InstallDeps(ctx, p.ProjectDir)
}

// warnBelowMinVersion logs when the manager is older than the
// configured minimum. The run continues either way.
func (p *Pipeline) warnBelowMinVersion(ctx context.Context, mgr *envman.Manager) {
	minVer, err := p.Config.Manager.Min()
	if err != nil || minVer == nil {
		return
	}
	got, err := mgr.Version(ctx)
	if err != nil {
		slog.Warn("could not determine manager version", "error", err)
		return
	}
	if got.LessThan(minVer) {
		slog.Warn("manager version below minimum",
			"version", got.String(), "minimum", minVer.String())
	}
}

func (p *Pipeline) runChecks(ctx context.Context, log *runlog.Log) ([]check.Result, error) {
	specs := make([]checkrun.Spec, 0, len(p.Config.Checks))
	for _, c := range p.Config.Checks {
		spec := checkrun.Spec{Name: c.Name, Argv: c.Command}
		if c.Assert != nil {
			spec.Assert = &checkrun.Assertion{Path: c.Assert.Path, Equal: c.Assert.Equals}
		}
		specs = append(specs, spec)
	}

	runner := checkrun.Runner{
		Dir:    p.ProjectDir,
		Exec:   p.runner(),
		Checks: specs,
		OnStart: func(s checkrun.Spec) {
			output.Banner(p.console(), s.Name)
		},
		OnResult: func(r check.Result) {
			log.AppendResult(r)
			output.PrintResult(p.console(), r)
		},
	}
	return runner.Run(ctx)
}

// record stores the run in history. Failures are logged, never fatal.
func (p *Pipeline) record(ctx context.Context, outcome *Outcome, start time.Time) {
	if p.History == nil {
		return
	}
	run := history.Run{
		ID:         outcome.RunID,
		Project:    p.ProjectDir,
		StartedAt:  start,
		DurationMS: p.now().Sub(start).Milliseconds(),
	}
	if err := p.History.RecordRun(ctx, run, outcome.Results); err != nil {
		slog.Warn("recording run history failed", "error", err)
	}
}

func (p *Pipeline) manager() *envman.Manager {
	return &envman.Manager{
		Command:      p.Config.Manager.Command,
		Python:       p.Config.Manager.Python,
		EnvDir:       p.EnvDir,
		InstallerURL: p.Config.Manager.InstallerURL,
		Exec:         p.runner(),
		HTTP:         p.HTTP,
		Console:      p.console(),
	}
}

func (p *Pipeline) runner() cmdrun.Runner {
	if p.Exec != nil {
		return p.Exec
	}
	return &cmdrun.RealRunner{}
}

func (p *Pipeline) console() io.Writer {
	if p.Console != nil {
		return p.Console
	}
	return os.Stdout
}

func (p *Pipeline) probe() func(string) (bool, error) {
	if p.Probe != nil {
		return p.Probe
	}
	return permcheck.Probe
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

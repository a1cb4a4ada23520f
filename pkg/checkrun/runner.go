// Package checkrun executes the configured check commands against a
// project and collects one result per check. A non-zero exit marks the
// check failed and the run moves on; anything that prevents a command
// from running at all aborts the run.
package checkrun

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/vertti/pygate/pkg/check"
	"github.com/vertti/pygate/pkg/cmdrun"
)

// Spec is one check to run.
type Spec struct {
	Name   string
	Argv   []string
	Assert *Assertion
}

// Assertion verifies a value inside the check's JSON stdout after the
// command exits zero.
type Assertion struct {
	Path  string
	Equal string
}

// Runner runs checks in order inside the project directory.
type Runner struct {
	Dir      string
	Exec     cmdrun.Runner
	Checks   []Spec
	OnStart  func(Spec)         // called before each check, e.g. to print a banner
	OnResult func(check.Result) // called after each check, e.g. to log output
}

// Run executes every check. Failed checks do not stop the run; the
// returned error is reserved for commands that could not run at all, in
// which case the results collected so far are returned alongside it.
func (r *Runner) Run(ctx context.Context) ([]check.Result, error) {
	results := make([]check.Result, 0, len(r.Checks))

	for _, spec := range r.Checks {
		if r.OnStart != nil {
			r.OnStart(spec)
		}

		result, err := r.runOne(ctx, spec)
		if err != nil {
			return results, fmt.Errorf("check %s: %w", spec.Name, err)
		}

		results = append(results, result)
		if r.OnResult != nil {
			r.OnResult(result)
		}
	}

	return results, nil
}

func (r *Runner) runOne(ctx context.Context, spec Spec) (check.Result, error) {
	if len(spec.Argv) == 0 {
		return check.Result{}, errors.New("empty command")
	}

	result := check.Result{Name: spec.Name}

	cmd := cmdrun.Cmd{Dir: r.Dir, Name: spec.Argv[0], Args: spec.Argv[1:]}
	start := time.Now()
	stdout, stderr, err := r.Exec.Run(ctx, cmd)
	result.Duration = time.Since(start)
	result.Stdout = stdout
	result.Stderr = stderr

	if err != nil {
		var exitErr *cmdrun.ExitError
		if !errors.As(err, &exitErr) {
			return check.Result{}, err
		}
		return result.Fail(fmt.Sprintf("exit status %d", exitErr.Code), err), nil
	}

	if spec.Assert != nil {
		if err := evalAssert(stdout, spec.Assert); err != nil {
			return result.Fail(err.Error(), err), nil
		}
		result.AddDetailf("%s: %s", spec.Assert.Path, spec.Assert.Equal)
	}

	result.Status = check.StatusOK
	return result, nil
}

func evalAssert(stdout string, a *Assertion) error {
	if !gjson.Valid(stdout) {
		return errors.New("stdout is not valid JSON")
	}
	value := gjson.Get(stdout, a.Path)
	if !value.Exists() {
		return fmt.Errorf("key %q not found", a.Path)
	}

	got := value.String()
	if value.Type == gjson.Null {
		got = "null"
	}
	if got != a.Equal {
		return fmt.Errorf("value %q does not equal %q", got, a.Equal)
	}
	return nil
}

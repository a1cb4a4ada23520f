// Package toolcheck verifies that a command line tool is installed and,
// optionally, recent enough.
package toolcheck

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/vertti/pygate/pkg/check"
	"github.com/vertti/pygate/pkg/cmdrun"
	"github.com/vertti/pygate/pkg/pyver"
)

// Check verifies that a command exists and can report a version.
type Check struct {
	Name        string          // command name to check
	VersionArgs []string        // args to get version (default: --version)
	Min         *semver.Version // minimum version required (inclusive)
	Exec        cmdrun.Runner   // injected for testing
}

// Run executes the tool check.
func (c *Check) Run(ctx context.Context) check.Result {
	result := check.Result{
		Name: fmt.Sprintf("cmd: %s", c.Name),
	}

	path, err := c.Exec.LookPath(c.Name)
	if err != nil {
		return result.Failf("not found in PATH: %v", err)
	}
	result.AddDetailf("path: %s", path)

	args := c.VersionArgs
	if len(args) == 0 {
		args = []string{"--version"}
	}

	stdout, stderr, err := c.Exec.Run(ctx, cmdrun.Cmd{Name: c.Name, Args: args})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return result.Failf("version command timed out")
		}
		result.AddDetailf("version command failed: %v", err)
		if stderr != "" {
			result.AddDetailf("stderr: %s", stderr)
		}
		result.Status = check.StatusFail
		result.Err = err
		return result
	}

	versionOutput := stdout
	if versionOutput == "" {
		versionOutput = stderr
	}

	if c.Min == nil {
		if versionOutput != "" {
			result.AddDetailf("version: %s", strings.TrimSpace(versionOutput))
		}
		result.Status = check.StatusOK
		return result
	}

	parsed, err := pyver.Extract(versionOutput)
	if err != nil {
		return result.Failf("could not parse version from output: %v", err)
	}
	result.AddDetailf("version: %s", parsed)

	// Minimum is inclusive: version >= min passes.
	if parsed.LessThan(c.Min) {
		return result.Fail(
			fmt.Sprintf("version %s < minimum %s", parsed, c.Min),
			fmt.Errorf("version %s below minimum %s", parsed, c.Min),
		)
	}

	result.Status = check.StatusOK
	return result
}

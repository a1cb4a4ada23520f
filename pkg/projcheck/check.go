// Package projcheck verifies that a path looks like a Python project the
// checks can run against.
package projcheck

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vertti/pygate/pkg/check"
)

// Check verifies that the project directory exists and carries a
// pyproject.toml.
type Check struct {
	Dir string     // project directory
	FS  FileSystem // injected for testing
}

// Run executes the project check.
func (c *Check) Run(ctx context.Context) check.Result {
	result := check.Result{
		Name: fmt.Sprintf("project: %s", c.Dir),
	}

	info, err := c.FS.Stat(c.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return result.Fail("not found", err)
		}
		return result.Failf("stat failed: %v", err)
	}
	if !info.IsDir() {
		return result.Fail("not a directory", fmt.Errorf("%s is not a directory", c.Dir))
	}

	pyproject := filepath.Join(c.Dir, "pyproject.toml")
	if _, err := c.FS.Stat(pyproject); err != nil {
		if os.IsNotExist(err) {
			return result.Fail("pyproject.toml not found", err)
		}
		return result.Failf("stat failed: %v", err)
	}
	result.AddDetail("pyproject.toml: present")

	result.Status = check.StatusOK
	return result
}

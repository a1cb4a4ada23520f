package permcheck

import (
	"context"
	"fmt"

	"github.com/vertti/pygate/pkg/check"
)

// Check verifies that a directory grants write access.
type Check struct {
	Dir string // directory to probe
}

// Run executes the write-permission check.
func (c *Check) Run(ctx context.Context) check.Result {
	result := check.Result{
		Name: fmt.Sprintf("write: %s", c.Dir),
	}

	ok, err := Probe(c.Dir)
	if err != nil {
		return result.Failf("probe failed: %v", err)
	}
	if !ok {
		return result.Failf("access to '%s' is denied", c.Dir)
	}

	result.Status = check.StatusOK
	return result
}

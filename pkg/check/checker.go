package check

import "context"

// Checker is implemented by all check types.
// Each check validates a specific aspect of the project environment
// and returns a Result indicating success or failure.
//
// Implementations:
//   - toolcheck.Check: verifies a command exists, optionally at a minimum version
//   - permcheck.Check: verifies a directory is writable
//   - projcheck.Check: verifies the project layout
type Checker interface {
	Run(ctx context.Context) Result
}

//go:build windows

package exec

import "errors"

// ErrExecNotSupported indicates entrypoint mode is not available on Windows.
var ErrExecNotSupported = errors.New("entrypoint exec is not supported on Windows")

// Exec is not supported on Windows, which has no syscall that replaces
// the current process.
func (e *RealExecutor) Exec(name string, args []string) error {
	return ErrExecNotSupported
}

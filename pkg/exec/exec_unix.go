//go:build unix

package exec

import (
	"syscall"
)

// execFunc is swapped out in tests; syscall.Exec never returns on success.
var execFunc = syscall.Exec

// Exec replaces the current process with the specified command.
func (e *RealExecutor) Exec(name string, args []string) error {
	binary, err := lookPath(name)
	if err != nil {
		return err
	}

	// argv[0] must be the program name by convention.
	argv := append([]string{name}, args...)
	// #nosec G204 -- the command to exec is chosen by the user on the CLI.
	return execFunc(binary, argv, environ())
}

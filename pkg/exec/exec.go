// Package exec replaces the current process with another command.
// It backs entrypoint mode: once every check passes, pygate hands the
// process over to the guarded command instead of spawning a child.
package exec

import (
	"os"
	"os/exec"
)

// Executor hands the current process over to another command.
type Executor interface {
	// Exec replaces the current process with name and args.
	// On Unix this uses syscall.Exec and does not return on success.
	// On Windows it returns an error.
	Exec(name string, args []string) error
}

// RealExecutor is the production implementation.
type RealExecutor struct{}

// MockExecutor records the command it was asked to exec.
type MockExecutor struct {
	ExecFunc func(name string, args []string) error
	Name     string
	Args     []string
}

func (m *MockExecutor) Exec(name string, args []string) error {
	m.Name = name
	m.Args = args
	if m.ExecFunc != nil {
		return m.ExecFunc(name, args)
	}
	return nil
}

func lookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func environ() []string {
	return os.Environ()
}

// Package cmdrun abstracts external command execution so that callers can be
// tested without spawning real processes. Commands always run with an explicit
// working directory; the process working directory is never changed.
package cmdrun

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

// Cmd describes one command invocation.
type Cmd struct {
	Dir  string   // working directory, empty means the caller's
	Name string   // executable name, resolved via PATH
	Args []string // arguments, without the executable
	Env  []string // extra KEY=VALUE entries appended to the environment
}

// Argv returns the full command line including the executable.
func (c Cmd) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// Runner abstracts command execution for testability.
type Runner interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, cmd Cmd) (stdout, stderr string, err error)
}

// RealRunner implements Runner using actual OS commands.
type RealRunner struct{}

// LookPath searches for an executable in PATH.
func (r *RealRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and returns its captured output. A non-zero exit is
// reported as *ExitError so callers can tell "ran and failed" apart from
// "could not run at all".
func (r *RealRunner) Run(ctx context.Context, c Cmd) (string, string, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			err = &ExitError{Code: exitErr.ExitCode(), cause: err}
		}
	}
	return outBuf.String(), errBuf.String(), err
}

// MockRunner is a test double for Runner. It records every invocation and
// delegates to the configured functions; unset functions report success.
type MockRunner struct {
	LookPathFunc func(file string) (string, error)
	RunFunc      func(c Cmd) (string, string, error)
	Calls        []Cmd
}

// LookPath calls the mock function when set.
func (m *MockRunner) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

// Run records the invocation and calls the mock function when set.
func (m *MockRunner) Run(_ context.Context, c Cmd) (string, string, error) {
	m.Calls = append(m.Calls, c)
	if m.RunFunc != nil {
		return m.RunFunc(c)
	}
	return "", "", nil
}

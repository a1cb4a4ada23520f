package cmdrun

import "fmt"

// ExitError reports a command that ran to completion with a non-zero exit
// code. Test doubles construct it directly; RealRunner wraps exec.ExitError.
type ExitError struct {
	Code  int
	cause error
}

func (e *ExitError) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.cause
}

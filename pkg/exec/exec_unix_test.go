//go:build unix

package exec

import (
	"errors"
	"strings"
	"testing"
)

func swapExecFunc(t *testing.T, fn func(string, []string, []string) error) {
	t.Helper()
	orig := execFunc
	execFunc = fn
	t.Cleanup(func() { execFunc = orig })
}

func TestRealExecutorResolvesAndExecs(t *testing.T) {
	var gotBinary string
	var gotArgv []string
	var gotEnv []string
	swapExecFunc(t, func(binary string, argv []string, env []string) error {
		gotBinary = binary
		gotArgv = argv
		gotEnv = env
		return nil
	})

	e := &RealExecutor{}
	if err := e.Exec("sh", []string{"-c", "true"}); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}

	if !strings.HasPrefix(gotBinary, "/") {
		t.Errorf("binary = %q, want absolute path", gotBinary)
	}
	if len(gotArgv) != 3 || gotArgv[0] != "sh" || gotArgv[1] != "-c" || gotArgv[2] != "true" {
		t.Errorf("argv = %v, want ['sh', '-c', 'true']", gotArgv)
	}
	if len(gotEnv) == 0 {
		t.Error("expected environment to be passed through")
	}
}

func TestRealExecutorNoArgs(t *testing.T) {
	var gotArgv []string
	swapExecFunc(t, func(binary string, argv []string, env []string) error {
		gotArgv = argv
		return nil
	})

	e := &RealExecutor{}
	if err := e.Exec("sh", nil); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}

	if len(gotArgv) != 1 || gotArgv[0] != "sh" {
		t.Errorf("argv = %v, want ['sh']", gotArgv)
	}
}

func TestRealExecutorPropagatesError(t *testing.T) {
	wantErr := errors.New("exec failed")
	swapExecFunc(t, func(binary string, argv []string, env []string) error {
		return wantErr
	})

	e := &RealExecutor{}
	if err := e.Exec("sh", nil); !errors.Is(err, wantErr) {
		t.Errorf("Exec() error = %v, want %v", err, wantErr)
	}
}

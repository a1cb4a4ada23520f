package cmdrun

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
)

func TestRealRunner_Run(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on sh")
	}

	r := &RealRunner{}
	stdout, stderr, err := r.Run(context.Background(), Cmd{Name: "sh", Args: []string{"-c", "echo out; echo err >&2"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(stdout, "out") {
		t.Errorf("stdout = %q, want to contain 'out'", stdout)
	}
	if !strings.Contains(stderr, "err") {
		t.Errorf("stderr = %q, want to contain 'err'", stderr)
	}
}

func TestRealRunner_Run_WorkingDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on pwd")
	}

	dir := t.TempDir()
	r := &RealRunner{}
	stdout, _, err := r.Run(context.Background(), Cmd{Dir: dir, Name: "pwd"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(stdout, dir) {
		t.Errorf("stdout = %q, want to contain %q", stdout, dir)
	}
}

func TestRealRunner_Run_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on sh")
	}

	r := &RealRunner{}
	_, _, err := r.Run(context.Background(), Cmd{Name: "sh", Args: []string{"-c", "exit 3"}})

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *ExitError", err)
	}
	if exitErr.Code != 3 {
		t.Errorf("Code = %d, want 3", exitErr.Code)
	}
}

func TestRealRunner_Run_BinaryNotFound(t *testing.T) {
	r := &RealRunner{}
	_, _, err := r.Run(context.Background(), Cmd{Name: "nonexistent-binary-xyz-12345"})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		t.Errorf("error = %v, want a non-ExitError for a missing binary", err)
	}
}

func TestRealRunner_LookPath(t *testing.T) {
	r := &RealRunner{}
	if _, err := r.LookPath("sh"); err != nil {
		t.Skipf("sh not found in PATH, skipping: %v", err)
	}
	if _, err := r.LookPath("nonexistent-binary-xyz-12345"); err == nil {
		t.Error("LookPath(nonexistent) error = nil, want error")
	}
}

func TestMockRunner_RecordsCalls(t *testing.T) {
	mock := &MockRunner{
		RunFunc: func(c Cmd) (string, string, error) {
			if c.Name == "poetry" && len(c.Args) > 0 && c.Args[0] == "show" {
				return "", "not found", &ExitError{Code: 1}
			}
			return "ok", "", nil
		},
	}

	ctx := context.Background()
	stdout, _, err := mock.Run(ctx, Cmd{Dir: "/srv/app", Name: "ruff", Args: []string{"check", "."}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stdout != "ok" {
		t.Errorf("stdout = %q, want %q", stdout, "ok")
	}

	_, stderr, err := mock.Run(ctx, Cmd{Name: "poetry", Args: []string{"show", "black"}})
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Errorf("error = %v, want *ExitError with code 1", err)
	}
	if stderr != "not found" {
		t.Errorf("stderr = %q, want %q", stderr, "not found")
	}

	if len(mock.Calls) != 2 {
		t.Fatalf("len(Calls) = %d, want 2", len(mock.Calls))
	}
	if mock.Calls[0].Dir != "/srv/app" || mock.Calls[0].Name != "ruff" {
		t.Errorf("Calls[0] = %+v, want ruff in /srv/app", mock.Calls[0])
	}
}

func TestMockRunner_Defaults(t *testing.T) {
	mock := &MockRunner{}

	path, err := mock.LookPath("poetry")
	if err != nil {
		t.Fatalf("LookPath() error = %v", err)
	}
	if path != "/usr/bin/poetry" {
		t.Errorf("path = %q, want %q", path, "/usr/bin/poetry")
	}

	stdout, stderr, err := mock.Run(context.Background(), Cmd{Name: "mypy", Args: []string{"."}})
	if err != nil || stdout != "" || stderr != "" {
		t.Errorf("Run() = (%q, %q, %v), want empty success", stdout, stderr, err)
	}
}

func TestCmd_Argv(t *testing.T) {
	c := Cmd{Name: "bandit", Args: []string{"-r", "."}}
	argv := c.Argv()
	if len(argv) != 3 || argv[0] != "bandit" || argv[1] != "-r" || argv[2] != "." {
		t.Errorf("Argv() = %v, want [bandit -r .]", argv)
	}
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 2}
	if err.Error() != "exit status 2" {
		t.Errorf("Error() = %q, want %q", err.Error(), "exit status 2")
	}

	cause := errors.New("wrapped")
	err = &ExitError{Code: 1, cause: cause}
	if err.Error() != "wrapped" {
		t.Errorf("Error() = %q, want %q", err.Error(), "wrapped")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

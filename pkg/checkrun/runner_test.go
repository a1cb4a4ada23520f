package checkrun

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vertti/pygate/pkg/check"
	"github.com/vertti/pygate/pkg/cmdrun"
)

func fiveChecks() []Spec {
	return []Spec{
		{Name: "Lint Checking", Argv: []string{"ruff", "check", "."}},
		{Name: "Type Checking", Argv: []string{"mypy", "."}},
		{Name: "Formatting with Black", Argv: []string{"black", "."}},
		{Name: "Security Check with Bandit", Argv: []string{"bandit", "-r", "."}},
		{Name: "Docstring Check with Pydocstyle", Argv: []string{"pydocstyle", "."}},
	}
}

func TestRun_AllChecksAttempted(t *testing.T) {
	mock := &cmdrun.MockRunner{
		RunFunc: func(c cmdrun.Cmd) (string, string, error) {
			switch c.Name {
			case "mypy":
				return "", "error: Incompatible types\n", &cmdrun.ExitError{Code: 1}
			case "bandit":
				return "", "Issue: [B602]\n", &cmdrun.ExitError{Code: 2}
			default:
				return "All checks passed!\n", "", nil
			}
		},
	}

	r := &Runner{Dir: "/srv/app", Exec: mock, Checks: fiveChecks()}
	results, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(results) != 5 {
		t.Fatalf("len(results) = %d, want 5", len(results))
	}
	wantOK := []bool{true, false, true, false, true}
	for i, want := range wantOK {
		if results[i].OK() != want {
			t.Errorf("results[%d] (%s) OK = %v, want %v", i, results[i].Name, results[i].OK(), want)
		}
	}

	if results[1].Stderr != "error: Incompatible types\n" {
		t.Errorf("results[1].Stderr = %q", results[1].Stderr)
	}
	if len(results[3].Details) == 0 || results[3].Details[0] != "exit status 2" {
		t.Errorf("results[3].Details = %v, want [exit status 2]", results[3].Details)
	}

	if len(mock.Calls) != 5 {
		t.Fatalf("len(Calls) = %d, want 5", len(mock.Calls))
	}
	for i, call := range mock.Calls {
		if call.Dir != "/srv/app" {
			t.Errorf("Calls[%d].Dir = %q, want /srv/app", i, call.Dir)
		}
	}
}

func TestRun_Callbacks(t *testing.T) {
	mock := &cmdrun.MockRunner{}

	var events []string
	r := &Runner{
		Dir:    "/srv/app",
		Exec:   mock,
		Checks: fiveChecks(),
		OnStart: func(s Spec) {
			events = append(events, "start:"+s.Name)
		},
		OnResult: func(res check.Result) {
			events = append(events, "result:"+res.Name)
		},
	}

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(events) != 10 {
		t.Fatalf("len(events) = %d, want 10", len(events))
	}
	if events[0] != "start:Lint Checking" || events[1] != "result:Lint Checking" {
		t.Errorf("events = %v, want start before result per check", events[:2])
	}
	if events[8] != "start:Docstring Check with Pydocstyle" {
		t.Errorf("events[8] = %q", events[8])
	}
}

func TestRun_AbortsWhenCommandCannotRun(t *testing.T) {
	mock := &cmdrun.MockRunner{
		RunFunc: func(c cmdrun.Cmd) (string, string, error) {
			if c.Name == "mypy" {
				return "", "", errors.New(`exec: "mypy": executable file not found in $PATH`)
			}
			return "", "", nil
		},
	}

	r := &Runner{Dir: "/srv/app", Exec: mock, Checks: fiveChecks()}
	results, err := r.Run(context.Background())
	if err == nil {
		t.Fatal("Run() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "Type Checking") {
		t.Errorf("error = %v, want check name in message", err)
	}
	if len(results) != 1 {
		t.Errorf("len(results) = %d, want 1 partial result", len(results))
	}
}

func TestRun_Assertion(t *testing.T) {
	spec := Spec{
		Name: "Coverage Gate",
		Argv: []string{"coverage", "report", "--format=json"},
		Assert: &Assertion{
			Path:  "totals.percent_covered_display",
			Equal: "100",
		},
	}

	tests := []struct {
		name       string
		stdout     string
		wantOK     bool
		wantDetail string
	}{
		{
			name:       "pass",
			stdout:     `{"totals":{"percent_covered_display":"100"}}`,
			wantOK:     true,
			wantDetail: "totals.percent_covered_display: 100",
		},
		{
			name:       "value mismatch",
			stdout:     `{"totals":{"percent_covered_display":"97"}}`,
			wantOK:     false,
			wantDetail: `value "97" does not equal "100"`,
		},
		{
			name:       "missing key",
			stdout:     `{"totals":{}}`,
			wantOK:     false,
			wantDetail: `key "totals.percent_covered_display" not found`,
		},
		{
			name:       "invalid JSON",
			stdout:     "Name    Stmts   Miss  Cover\n",
			wantOK:     false,
			wantDetail: "stdout is not valid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &cmdrun.MockRunner{
				RunFunc: func(c cmdrun.Cmd) (string, string, error) {
					return tt.stdout, "", nil
				},
			}
			r := &Runner{Dir: "/srv/app", Exec: mock, Checks: []Spec{spec}}

			results, err := r.Run(context.Background())
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if len(results) != 1 {
				t.Fatalf("len(results) = %d, want 1", len(results))
			}
			if results[0].OK() != tt.wantOK {
				t.Errorf("OK = %v, want %v", results[0].OK(), tt.wantOK)
			}
			if len(results[0].Details) == 0 || results[0].Details[0] != tt.wantDetail {
				t.Errorf("Details = %v, want [%s]", results[0].Details, tt.wantDetail)
			}
		})
	}
}

func TestRun_EmptyCommand(t *testing.T) {
	r := &Runner{
		Dir:    "/srv/app",
		Exec:   &cmdrun.MockRunner{},
		Checks: []Spec{{Name: "Broken"}},
	}

	_, err := r.Run(context.Background())
	if err == nil {
		t.Error("Run() error = nil, want error for empty command")
	}
}

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/vertti/pygate/pkg/check"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "logs", DefaultFileName))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func fiveResults() []check.Result {
	return []check.Result{
		{Name: "Lint Checking", Status: check.StatusOK, Duration: 120 * time.Millisecond},
		{Name: "Type Checking", Status: check.StatusFail, Duration: 340 * time.Millisecond},
		{Name: "Formatting with Black", Status: check.StatusOK, Duration: 80 * time.Millisecond},
		{Name: "Security Check with Bandit", Status: check.StatusFail, Duration: 200 * time.Millisecond},
		{Name: "Docstring Check with Pydocstyle", Status: check.StatusOK, Duration: 60 * time.Millisecond},
	}
}

func TestRecordRunAndRecentRuns(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	run := Run{
		ID:         "b3a2f1d0-0000-0000-0000-000000000001",
		Project:    "/srv/app",
		StartedAt:  time.Date(2024, 3, 9, 14, 5, 9, 0, time.UTC),
		DurationMS: 800,
	}
	if err := s.RecordRun(ctx, run, fiveResults()); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}

	runs, err := s.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}

	got := runs[0]
	if got.ID != run.ID || got.Project != "/srv/app" {
		t.Errorf("run = %+v", got)
	}
	if got.Passed != 3 || got.Failed != 2 {
		t.Errorf("Passed/Failed = %d/%d, want 3/2", got.Passed, got.Failed)
	}
	if got.DurationMS != 800 {
		t.Errorf("DurationMS = %d, want 800", got.DurationMS)
	}
	if !got.StartedAt.Equal(run.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, run.StartedAt)
	}
}

func TestRecentRuns_NewestFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := Run{
			ID:        string(rune('a' + i)),
			Project:   "/srv/app",
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.RecordRun(ctx, run, nil); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
	}

	runs, err := s.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].ID != "c" || runs[1].ID != "b" {
		t.Errorf("order = [%s %s], want [c b]", runs[0].ID, runs[1].ID)
	}
}

func TestRecentRuns_EmptyHistory(t *testing.T) {
	s := openStore(t)

	runs, err := s.RecentRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if runs == nil {
		t.Fatal("runs = nil, want empty slice")
	}
	if len(runs) != 0 {
		t.Errorf("len(runs) = %d, want 0", len(runs))
	}
}

func TestRunChecks_Ordered(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	run := Run{ID: "run-1", Project: "/srv/app", StartedAt: time.Now()}
	if err := s.RecordRun(ctx, run, fiveResults()); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}

	checks, err := s.RunChecks(ctx, "run-1")
	if err != nil {
		t.Fatalf("RunChecks() error = %v", err)
	}
	if len(checks) != 5 {
		t.Fatalf("len(checks) = %d, want 5", len(checks))
	}

	wantNames := []string{
		"Lint Checking",
		"Type Checking",
		"Formatting with Black",
		"Security Check with Bandit",
		"Docstring Check with Pydocstyle",
	}
	for i, name := range wantNames {
		if checks[i].Name != name {
			t.Errorf("checks[%d].Name = %q, want %q", i, checks[i].Name, name)
		}
	}
	if checks[0].Passed != true || checks[1].Passed != false {
		t.Errorf("passed flags wrong: %+v", checks[:2])
	}
	if checks[1].DurationMS != 340 {
		t.Errorf("checks[1].DurationMS = %d, want 340", checks[1].DurationMS)
	}
}

func TestRecordRun_Retention(t *testing.T) {
	s := openStore(t)
	s.retention = 2
	ctx := context.Background()

	base := time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		run := Run{
			ID:        string(rune('a' + i)),
			Project:   "/srv/app",
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.RecordRun(ctx, run, fiveResults()); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
	}

	runs, err := s.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2 after pruning", len(runs))
	}
	if runs[0].ID != "d" || runs[1].ID != "c" {
		t.Errorf("kept runs = [%s %s], want [d c]", runs[0].ID, runs[1].ID)
	}

	// Pruned runs lose their check rows too.
	checks, err := s.RunChecks(ctx, "a")
	if err != nil {
		t.Fatalf("RunChecks() error = %v", err)
	}
	if len(checks) != 0 {
		t.Errorf("len(checks) = %d for pruned run, want 0", len(checks))
	}
}

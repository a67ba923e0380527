package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--data", dataDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestGoalsAndDirectReports(t *testing.T) {
	t.Parallel()
	dataDir := t.TempDir()

	if _, err := execute(t, dataDir, "goals", "set", "Tuesday", "20"); err != nil {
		t.Fatalf("goals set: %v", err)
	}
	out, err := execute(t, dataDir, "goals", "show")
	if err != nil {
		t.Fatalf("goals show: %v", err)
	}
	if !strings.Contains(out, "tuesday\t20") {
		t.Fatalf("unexpected goals output: %q", out)
	}

	if _, err := execute(t, dataDir, "report", "100", "--direct", "--date", "2026-01-05T23:50:00Z"); err != nil {
		t.Fatalf("report: %v", err)
	}
	out, err = execute(t, dataDir, "report", "15", "--direct", "--date", "2026-01-06T00:10:00Z")
	if err != nil {
		t.Fatalf("report next day: %v", err)
	}
	if !strings.Contains(out, "today: 10.00 minutes") || !strings.Contains(out, "archived 2026-01-05: 105.00 minutes") {
		t.Fatalf("unexpected rollover output: %q", out)
	}

	out, err = execute(t, dataDir, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "2026-01-05\t105.00") {
		t.Fatalf("unexpected history: %q", out)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()
	source := t.TempDir()
	target := t.TempDir()
	file := filepath.Join(t.TempDir(), "typetrack.yaml")

	if _, err := execute(t, source, "notify", "set", "halfGoalCompletion"); err != nil {
		t.Fatalf("notify set: %v", err)
	}
	if _, err := execute(t, source, "export", file); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := execute(t, target, "import", file); err != nil {
		t.Fatalf("import: %v", err)
	}
	out, err := execute(t, target, "notify", "show")
	if err != nil {
		t.Fatalf("notify show: %v", err)
	}
	if !strings.HasPrefix(out, "halfGoalCompletion") {
		t.Fatalf("imported frequency lost: %q", out)
	}
}

func TestInvalidArguments(t *testing.T) {
	t.Parallel()
	dataDir := t.TempDir()
	if _, err := execute(t, dataDir, "goals", "set", "someday", "20"); err == nil {
		t.Fatalf("expected unknown weekday error")
	}
	if _, err := execute(t, dataDir, "report", "lots"); err == nil {
		t.Fatalf("expected invalid minutes error")
	}
	if _, err := execute(t, dataDir, "notify", "set", "hourly"); err == nil {
		t.Fatalf("expected invalid frequency error")
	}
}

package power

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestProcessSignalMatchesConfiguredName(t *testing.T) {
	procRoot := t.TempDir()
	writeComm(t, procRoot, "101", "steam")
	writeComm(t, procRoot, "102", "bash")

	signal := &processSignal{names: []string{"Steam"}, procRoot: procRoot}
	active, name := signal.Active()
	if !active || name != "Steam" {
		t.Fatalf("expected active Steam signal, got %v %q", active, name)
	}
}

func TestProcessSignalInactiveWithoutMatch(t *testing.T) {
	procRoot := t.TempDir()
	writeComm(t, procRoot, "103", "bash")

	signal := &processSignal{names: []string{"steam"}, procRoot: procRoot}
	if active, _ := signal.Active(); active {
		t.Fatal("expected inactive signal")
	}
}

func TestProcessSignalIgnoresNonPIDEntries(t *testing.T) {
	procRoot := t.TempDir()
	if err := os.MkdirAll(filepath.Join(procRoot, "sys"), 0o755); err != nil {
		t.Fatal(err)
	}
	signal := &processSignal{names: []string{"steam"}, procRoot: procRoot}
	if active, _ := signal.Active(); active {
		t.Fatal("expected inactive signal")
	}
}

func TestNewProcessSignalEmptyNames(t *testing.T) {
	signal := NewProcessSignal(nil)
	if active, _ := signal.Active(); active {
		t.Fatal("empty configuration must never report contention")
	}
}

func TestNoopInhibitor(t *testing.T) {
	inhibitor := NewInhibitor(false, nil)
	release, err := inhibitor.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	release()
	release() // second call must be safe
}

func TestSampleNeverNegative(t *testing.T) {
	m := Sample()
	if m.CPUPercent < 0 || m.CPUPercent > 100 {
		t.Fatalf("cpu percent out of range: %f", m.CPUPercent)
	}
	if m.MemoryUsedMB < 0 || m.MemoryTotalMB < 0 {
		t.Fatalf("negative memory sample: %#v", m)
	}
	if m.MemoryTotalMB > 0 && m.MemoryUsedMB > m.MemoryTotalMB {
		t.Fatalf("used exceeds total: %#v", m)
	}
}

func writeComm(t *testing.T, procRoot, pid, comm string) {
	t.Helper()
	dir := filepath.Join(procRoot, pid)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "comm"), []byte(comm+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

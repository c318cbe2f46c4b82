package power

import (
	"context"
	"log/slog"
	"os/exec"

	"conductor/internal/logging"
)

// ReleaseFunc undoes an acquired inhibition. Safe to call more than once.
type ReleaseFunc func()

// Inhibitor holds the machine out of sleep for the duration of a scope.
type Inhibitor interface {
	Acquire(ctx context.Context) (ReleaseFunc, error)
}

// NewInhibitor returns a sleep inhibitor appropriate for the host. When
// disabled or when no inhibition facility exists, acquisition succeeds
// as a no-op so callers never branch.
func NewInhibitor(enabled bool, logger *slog.Logger) Inhibitor {
	if !enabled {
		return noopInhibitor{}
	}
	if _, err := exec.LookPath("systemd-inhibit"); err != nil {
		if logger != nil {
			logger.Debug("systemd-inhibit not found, sleep prevention disabled")
		}
		return noopInhibitor{}
	}
	return &systemdInhibitor{logger: logger}
}

type noopInhibitor struct{}

func (noopInhibitor) Acquire(context.Context) (ReleaseFunc, error) {
	return func() {}, nil
}

// systemdInhibitor keeps a systemd-inhibit child alive for the scope of
// the inhibition. Killing the child releases the lock.
type systemdInhibitor struct {
	logger *slog.Logger
}

func (s *systemdInhibitor) Acquire(ctx context.Context) (ReleaseFunc, error) {
	cmd := exec.CommandContext(ctx,
		"systemd-inhibit",
		"--what=sleep:idle",
		"--who=conductor",
		"--why=processing ingestion jobs",
		"--mode=block",
		"sleep", "infinity",
	)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Debug("sleep inhibition acquired", logging.Int("pid", cmd.Process.Pid))
	}

	released := false
	release := func() {
		if released {
			return
		}
		released = true
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		if s.logger != nil {
			s.logger.Debug("sleep inhibition released")
		}
	}
	return release, nil
}

package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers classifying pipeline and collaborator failures. Wrap tags
// errors with one of these so the worker loop can pick the terminal job
// status without string matching.
var (
	// ErrValidation marks malformed submissions; rejected synchronously,
	// never queued.
	ErrValidation = errors.New("validation error")
	// ErrUnavailable marks an unreachable or timed-out collaborator.
	ErrUnavailable = errors.New("collaborator unavailable")
	// ErrTimeout marks a collaborator call that exceeded its deadline.
	ErrTimeout = errors.New("timeout")
	// ErrGateFailure marks a terminal quality-gate rejection.
	ErrGateFailure = errors.New("quality gate failure")
	// ErrDuplicate marks re-ingestion of already-ledgered content.
	ErrDuplicate = errors.New("duplicate content")
	// ErrNotFound marks a missing record.
	ErrNotFound = errors.New("not found")
	// ErrTransient marks any other unexpected failure.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later status classification. The marker should
// be one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsTerminalQuarantine reports whether an error represents a gate or
// duplicate rejection that must never be retried automatically.
func IsTerminalQuarantine(err error) bool {
	return errors.Is(err, ErrGateFailure) || errors.Is(err, ErrDuplicate)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

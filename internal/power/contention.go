package power

import (
	"os"
	"path/filepath"
	"strings"
)

// Signal reports whether a configured foreground process is competing
// for the machine, and which one.
type Signal interface {
	Active() (bool, string)
}

// NewProcessSignal watches for any of the named processes in the process
// table. With no names configured the signal is never active.
func NewProcessSignal(names []string) Signal {
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return inactiveSignal{}
	}
	return &processSignal{names: cleaned, procRoot: "/proc"}
}

type inactiveSignal struct{}

func (inactiveSignal) Active() (bool, string) { return false, "" }

type processSignal struct {
	names    []string
	procRoot string
}

// Active scans /proc/<pid>/comm entries for a configured name. comm is
// truncated to 15 chars by the kernel, so matching is prefix-tolerant in
// that direction.
func (s *processSignal) Active() (bool, string) {
	entries, err := os.ReadDir(s.procRoot)
	if err != nil {
		return false, ""
	}
	for _, entry := range entries {
		if !entry.IsDir() || !isNumeric(entry.Name()) {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(s.procRoot, entry.Name(), "comm"))
		if err != nil {
			continue
		}
		comm := strings.TrimSpace(string(raw))
		for _, name := range s.names {
			if strings.EqualFold(comm, name) || (len(comm) == 15 && strings.HasPrefix(strings.ToLower(name), strings.ToLower(comm))) {
				return true, name
			}
		}
	}
	return false, ""
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

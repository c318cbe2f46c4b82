package jobstore

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

// Status represents the lifecycle of a job record.
type Status string

const (
	StatusQueued      Status = "queued"
	StatusProcessing  Status = "processing"
	StatusDone        Status = "done"
	StatusFailed      Status = "failed"
	StatusQuarantined Status = "quarantined"
)

var statusSet = map[Status]struct{}{
	StatusQueued:      {},
	StatusProcessing:  {},
	StatusDone:        {},
	StatusFailed:      {},
	StatusQuarantined: {},
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Band partitions the job priority scale onto separate queue lists.
type Band string

const (
	BandInteractive Band = "interactive"
	BandBatch       Band = "batch"
	BandDeadLetter  Band = "dead_letter"
)

// BandForPriority maps a 1-10 priority onto its queue band. Priorities above
// five are interactive, the rest batch.
func BandForPriority(priority int) Band {
	if priority > 5 {
		return BandInteractive
	}
	return BandBatch
}

// ParseBand converts a string into a known Band.
func ParseBand(value string) (Band, bool) {
	switch Band(strings.ToLower(strings.TrimSpace(value))) {
	case BandInteractive:
		return BandInteractive, true
	case BandBatch:
		return BandBatch, true
	case BandDeadLetter:
		return BandDeadLetter, true
	default:
		return "", false
	}
}

// Job is the unit of work distributed through the store. Records are created
// by the submission gateway, mutated only by the worker currently holding
// them, and expire after the retention window rather than being deleted.
type Job struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Payload     map[string]string `json:"payload"`
	Priority    int               `json:"priority"`
	Status      Status            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at,omitzero"`
	EstimatedMS int64             `json:"estimated_ms,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// SourcePath returns the payload path, the minimum every job carries.
func (j *Job) SourcePath() string {
	if j == nil || j.Payload == nil {
		return ""
	}
	return j.Payload["path"]
}

// Band returns the queue band matching the job priority.
func (j *Job) Band() Band {
	return BandForPriority(j.Priority)
}

// DeterministicID derives a stable job id from caller input so id-less
// re-submissions of the same request collapse onto one record.
func DeterministicID(jobType string, payload map[string]string) string {
	h := sha256.New()
	h.Write([]byte(jobType))
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte{0})
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(payload[k]))
	}
	return "job-" + hex.EncodeToString(h.Sum(nil))[:16]
}

// EstimateDuration returns the expected processing time for a job type in
// milliseconds. Unknown types get the one-minute default.
func EstimateDuration(jobType string) int64 {
	switch jobType {
	case "transcribe":
		return 120_000
	case "embed":
		return 30_000
	case "ingest":
		return 45_000
	case "summarize":
		return 60_000
	default:
		return 60_000
	}
}

// WorkerRecord is a worker's TTL-bounded liveness report. Absence of the
// record implies the worker is offline; it is never explicitly deleted.
type WorkerRecord struct {
	Hostname      string  `json:"hostname"`
	Status        string  `json:"status"`
	ActiveJob     string  `json:"active_job,omitempty"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryUsedMB  int64   `json:"memory_used_mb"`
	MemoryTotalMB int64   `json:"memory_total_mb"`
	Timestamp     int64   `json:"timestamp"`
}

// Worker states reported through heartbeats. Paused states carry a reason
// suffix, e.g. PAUSED_CONTENTION (steam).
const (
	WorkerIdle         = "IDLE"
	WorkerBusy         = "BUSY"
	WorkerPausedPrefix = "PAUSED_"
)

// Command is a one-shot advisory instruction delivered through a worker's
// mailbox. At-most-once: undelivered commands expire.
type Command string

const (
	CommandContinue Command = "continue"
	CommandStart    Command = "start"
	CommandPause    Command = "pause"
	CommandStop     Command = "stop"
	CommandResume   Command = "resume"
)

// ParseCommand validates an operator-supplied command string.
func ParseCommand(value string) (Command, bool) {
	switch Command(strings.ToLower(strings.TrimSpace(value))) {
	case CommandStart:
		return CommandStart, true
	case CommandPause:
		return CommandPause, true
	case CommandStop:
		return CommandStop, true
	case CommandResume:
		return CommandResume, true
	default:
		return "", false
	}
}

package pipeline

import "conductor/internal/services/classifier"

// StageStatus describes how a pipeline stage concluded. Failures are
// values, not panics: every stage hands its successor an explicit
// outcome and the state machine decides what a failure means there.
type StageStatus int

const (
	StageOk StageStatus = iota
	StageDegraded
	StageFailed
)

func (s StageStatus) String() string {
	switch s {
	case StageOk:
		return "ok"
	case StageDegraded:
		return "degraded"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ExtractionOutcome is the extraction stage result. A degraded outcome
// carries whatever text survived the fallback chain, possibly none.
type ExtractionOutcome struct {
	Status  StageStatus
	Text    string
	Source  string
	Warning string
}

// ClassificationOutcome is the classification stage result. Degraded
// outcomes carry the default classification so gating still runs and
// records why the file cannot be archived.
type ClassificationOutcome struct {
	Status         StageStatus
	Classification classifier.Classification
	Warning        string
}

// State names a position in the per-file state machine. Transitions are
// strictly forward.
type State string

const (
	StateDiscovered  State = "DISCOVERED"
	StateExtracting  State = "EXTRACTING"
	StateClassifying State = "CLASSIFYING"
	StateGating      State = "GATING"
	StateIndexed     State = "INDEXED"
	StateQuarantined State = "QUARANTINED"
	StateFailed      State = "FAILED"
)

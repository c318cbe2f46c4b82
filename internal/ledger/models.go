package ledger

import "time"

// Status records the terminal disposition of a processed file.
type Status string

const (
	StatusIndexed     Status = "indexed"
	StatusQuarantined Status = "quarantined"
	StatusFailed      Status = "failed"
)

// Entry is one row of the processing ledger. Every file that completes the
// pipeline leaves exactly one entry regardless of outcome; the content hash
// is unique so reprocessing the same bytes is detectable.
type Entry struct {
	ID               int64
	ContentHash      string
	SourcePath       string
	TargetPath       string
	Filename         string
	Category         string
	Status           Status
	QuarantineReason string
	Confidence       float64
	Summary          string
	ProcessedAt      time.Time
}

// Stats aggregates ledger counts for status reporting.
type Stats struct {
	Indexed     int64
	Quarantined int64
	Failed      int64
}

// Total returns the number of ledger entries across all dispositions.
func (s Stats) Total() int64 {
	return s.Indexed + s.Quarantined + s.Failed
}

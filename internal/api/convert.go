package api

import (
	"time"

	"conductor/internal/jobstore"
	"conductor/internal/ledger"
)

const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// FromJob converts a job record into its API representation.
func FromJob(job *jobstore.Job) JobView {
	if job == nil {
		return JobView{}
	}
	view := JobView{
		ID:          job.ID,
		Type:        job.Type,
		Payload:     job.Payload,
		Priority:    job.Priority,
		Band:        string(job.Band()),
		Status:      string(job.Status),
		EstimatedMS: job.EstimatedMS,
		Error:       job.Error,
	}
	if !job.CreatedAt.IsZero() {
		view.CreatedAt = job.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !job.UpdatedAt.IsZero() {
		view.UpdatedAt = job.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return view
}

// FromJobs converts a slice of job records.
func FromJobs(jobs []*jobstore.Job) []JobView {
	if len(jobs) == 0 {
		return nil
	}
	views := make([]JobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, FromJob(job))
	}
	return views
}

// FromWorker converts a worker liveness record into its API representation.
func FromWorker(record *jobstore.WorkerRecord) WorkerView {
	if record == nil {
		return WorkerView{}
	}
	view := WorkerView{
		Hostname:      record.Hostname,
		Status:        record.Status,
		ActiveJob:     record.ActiveJob,
		CPUPercent:    record.CPUPercent,
		MemoryUsedMB:  record.MemoryUsedMB,
		MemoryTotalMB: record.MemoryTotalMB,
	}
	if record.Timestamp > 0 {
		view.LastSeen = time.Unix(record.Timestamp, 0).UTC().Format(dateTimeFormat)
	}
	return view
}

// FromWorkers converts a slice of worker records.
func FromWorkers(records []*jobstore.WorkerRecord) []WorkerView {
	if len(records) == 0 {
		return nil
	}
	views := make([]WorkerView, 0, len(records))
	for _, record := range records {
		views = append(views, FromWorker(record))
	}
	return views
}

// FromLedgerStats converts ledger aggregate counts.
func FromLedgerStats(stats ledger.Stats) LedgerStats {
	return LedgerStats{
		Indexed:     stats.Indexed,
		Quarantined: stats.Quarantined,
		Failed:      stats.Failed,
		Total:       stats.Total(),
	}
}

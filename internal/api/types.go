package api

// JobView describes a job record in a transport-friendly format.
type JobView struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Payload     map[string]string `json:"payload,omitempty"`
	Priority    int               `json:"priority"`
	Band        string            `json:"band"`
	Status      string            `json:"status"`
	CreatedAt   string            `json:"created_at,omitempty"`
	UpdatedAt   string            `json:"updated_at,omitempty"`
	EstimatedMS int64             `json:"estimated_ms,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// WorkerView describes a live worker record.
type WorkerView struct {
	Hostname      string  `json:"hostname"`
	Status        string  `json:"status"`
	ActiveJob     string  `json:"active_job,omitempty"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryUsedMB  int64   `json:"memory_used_mb"`
	MemoryTotalMB int64   `json:"memory_total_mb"`
	LastSeen      string  `json:"last_seen"`
}

// SubmitRequest is the body accepted by the job submission endpoint.
type SubmitRequest struct {
	ID       string            `json:"id,omitempty"`
	Type     string            `json:"type"`
	Payload  map[string]string `json:"payload"`
	Priority int               `json:"priority"`
}

// SubmitResponse reports the outcome of a submission.
type SubmitResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Position int    `json:"position"`
	Existing bool   `json:"existing,omitempty"`
}

// JobResponse wraps a single job record.
type JobResponse struct {
	Job JobView `json:"job"`
}

// JobListResponse wraps a collection of job records.
type JobListResponse struct {
	Jobs []JobView `json:"jobs"`
}

// QueueClearResponse reports how many queued entries were discarded.
type QueueClearResponse struct {
	Band        string `json:"band"`
	JobsRemoved int64  `json:"jobs_removed"`
}

// HeartbeatRequest carries a worker liveness report.
type HeartbeatRequest struct {
	Hostname      string  `json:"hostname"`
	Status        string  `json:"status"`
	ActiveJob     string  `json:"active_job,omitempty"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryUsedMB  int64   `json:"memory_used_mb"`
	MemoryTotalMB int64   `json:"memory_total_mb"`
}

// HeartbeatResponse returns the pending command for the reporting worker.
type HeartbeatResponse struct {
	Command string `json:"command"`
}

// CommandRequest asks the daemon to deliver a command to a worker.
type CommandRequest struct {
	Worker  string `json:"worker,omitempty"`
	Command string `json:"command"`
}

// CommandResponse confirms command delivery.
type CommandResponse struct {
	Status  string `json:"status"`
	Worker  string `json:"worker"`
	Command string `json:"command"`
}

// WorkerListResponse wraps the live worker records.
type WorkerListResponse struct {
	Workers []WorkerView `json:"workers"`
}

// LedgerStats summarizes processed-content counts by outcome.
type LedgerStats struct {
	Indexed     int64 `json:"indexed"`
	Quarantined int64 `json:"quarantined"`
	Failed      int64 `json:"failed"`
	Total       int64 `json:"total"`
}

// StatusResponse aggregates daemon runtime information for API consumers.
type StatusResponse struct {
	Running          bool         `json:"running"`
	PID              int          `json:"pid"`
	LockFilePath     string       `json:"lock_file_path"`
	InteractiveDepth int64        `json:"interactive_depth"`
	BatchDepth       int64        `json:"batch_depth"`
	Workers          []WorkerView `json:"workers"`
	Ledger           LedgerStats  `json:"ledger"`
}

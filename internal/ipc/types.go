package ipc

import "conductor/internal/api"

// StartRequest triggers daemon service startup.
type StartRequest struct{}

// StartResponse indicates whether the daemon was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops daemon services.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse mirrors the HTTP status payload for IPC callers.
type StatusResponse = api.StatusResponse

// JobView mirrors the HTTP API job DTO for internal IPC callers.
type JobView = api.JobView

// WorkerView mirrors the HTTP API worker DTO.
type WorkerView = api.WorkerView

// SubmitRequest enqueues a job through the daemon.
type SubmitRequest = api.SubmitRequest

// SubmitResponse reports submission outcome.
type SubmitResponse = api.SubmitResponse

// JobListRequest fetches the most recent jobs.
type JobListRequest struct {
	Limit int `json:"limit"`
}

// JobListResponse contains job records.
type JobListResponse struct {
	Jobs []JobView `json:"jobs"`
}

// JobDescribeRequest fetches a single job by id.
type JobDescribeRequest struct {
	ID string `json:"id"`
}

// JobDescribeResponse contains a single job record.
type JobDescribeResponse struct {
	Job JobView `json:"job"`
}

// QueueClearRequest discards queued entries from one band.
type QueueClearRequest struct {
	Band string `json:"band"`
}

// QueueClearResponse reports number of removed entries.
type QueueClearResponse struct {
	Band    string `json:"band"`
	Removed int64  `json:"removed"`
}

// WorkerListRequest fetches live worker records.
type WorkerListRequest struct{}

// WorkerListResponse contains worker records.
type WorkerListResponse struct {
	Workers []WorkerView `json:"workers"`
}

// WorkerCommandRequest delivers a command to a worker mailbox. An empty
// worker targets one arbitrary live worker.
type WorkerCommandRequest struct {
	Worker  string `json:"worker"`
	Command string `json:"command"`
}

// WorkerCommandResponse confirms delivery.
type WorkerCommandResponse struct {
	Worker  string `json:"worker"`
	Command string `json:"command"`
}

// TestNotificationRequest triggers a notification delivery check.
type TestNotificationRequest struct{}

// TestNotificationResponse reports the notification outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}

// Package worker runs the scheduler loop of a worker node: heartbeat,
// contention check, blocking pop, pipeline run, repeat. One job at a
// time per process; competing workers coordinate only through the job
// store. Pauses are advisory and re-evaluated every iteration, and a
// stop command is honored between jobs, never mid-job.
package worker

// Package jobstore persists jobs, queue lists, worker liveness records, and
// command mailboxes in a shared Redis instance.
//
// Queue semantics: each priority band is a Redis list, appended at the tail
// and drained from the head, so order within a band is FIFO. PopNext issues
// one BLPOP across both bands with the interactive list first, which is the
// single cross-band ordering guarantee and the only mutual exclusion any
// worker needs. Every key carries a TTL; job records outlive their queue
// entries and remain the source of truth for status.
package jobstore

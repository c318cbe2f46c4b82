package jobstore

// Redis key layout. Jobs and worker state share one logical database; every
// key is TTL-bounded so the store never needs explicit garbage collection.

const (
	queueInteractiveKey = "queue:interactive"
	queueBatchKey       = "queue:batch"
	queueDeadLetterKey  = "queue:dead_letter"

	systemWorkerStatusKey = "system:worker_status"

	jobKeyPrefix    = "job:"
	workerKeyPrefix = "worker:"
	commandSuffix   = ":command"
	failureKeyPref  = "failures:"
)

func jobKey(id string) string { return jobKeyPrefix + id }

func workerKey(hostname string) string { return workerKeyPrefix + hostname }

func commandKey(hostname string) string { return workerKeyPrefix + hostname + commandSuffix }

func failureKey(contentHash string) string { return failureKeyPref + contentHash }

func queueKey(band Band) string {
	switch band {
	case BandInteractive:
		return queueInteractiveKey
	case BandDeadLetter:
		return queueDeadLetterKey
	default:
		return queueBatchKey
	}
}

// popOrder is the priority-ordered list of queues a worker drains: whenever
// both lists are non-empty the next job always comes from the interactive
// list.
var popOrder = []string{queueInteractiveKey, queueBatchKey}

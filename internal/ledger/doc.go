// Package ledger persists the permanent record of every file the pipeline
// has processed. The unique content hash column is how reprocessing of
// identical bytes is detected, independent of filename or location.
package ledger

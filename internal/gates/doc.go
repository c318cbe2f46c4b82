// Package gates implements the quality checks that stand between a
// classified file and the archive. The engine runs a fixed sequence of
// independent checks and aggregates them into a single routing decision;
// the first error finding in evaluation order names the quarantine reason
// and bucket, with the duplicate-content check evaluated before anything
// else so identical content always routes to the duplicates bucket.
package gates

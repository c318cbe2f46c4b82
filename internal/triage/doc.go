// Package triage decides how urgently a discovered file should be
// processed and when a repeatedly failing one should stop being retried.
// Scoring weighs recency, format, filename keywords, and size; failure
// accounting is keyed by content hash so a renamed file cannot dodge the
// dead-letter threshold.
package triage

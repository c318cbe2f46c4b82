// Package pipeline drives a submitted file through extraction,
// classification, and quality gating to a terminal disposition. Stage
// failures are carried as explicit outcomes: extraction degrades through
// a fallback chain to empty text, classification degrades to the default
// category, and only truly unexpected errors route a file to the
// processing-error quarantine. Every file ends up somewhere on disk with
// a ledger row saying why.
package pipeline

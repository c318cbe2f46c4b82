// Package extractor reaches the text extraction collaborators over HTTP.
// The primary service handles structured parsing; the secondary is a
// plainer fallback tried on any primary failure.
package extractor

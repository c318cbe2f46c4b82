// Package embedder feeds archived text into the embedding service and
// vector store. Indexing is strictly best-effort: a failure here never
// rolls back an archival decision.
package embedder

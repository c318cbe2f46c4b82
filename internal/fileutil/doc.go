// Package fileutil provides the filesystem primitives the pipeline moves
// files with: verified copies, cross-device-safe moves, content hashing,
// and extension-based MIME detection.
package fileutil

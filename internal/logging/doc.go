// Package logging wraps log/slog construction for the daemon, worker loop,
// and CLI.
//
// It maps config values onto handler options, fans output to stdout plus the
// log file, and exposes typed attribute helpers along with the shared field
// name constants every component logs under.
package logging

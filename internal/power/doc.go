// Package power wraps the platform-dependent capabilities the worker
// loop needs: keeping the host awake while processing, noticing when a
// configured foreground process is competing for the machine, and
// sampling host cpu/memory for heartbeats. Every capability degrades to
// a no-op on hosts without the underlying facility.
package power

// Package api defines the transport representations shared by the daemon's
// HTTP endpoints and the IPC surface, plus conversions from the internal
// job store and ledger types.
package api

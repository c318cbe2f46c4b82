// Package ipc implements local daemon control over a Unix domain socket
// using JSON-RPC. The CLI is the only intended consumer; remote clients
// go through the HTTP API instead.
package ipc

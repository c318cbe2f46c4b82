// Package daemon hosts the long-running conductor services: the HTTP
// submission gateway, the inbox monitor, and single-instance locking.
// Worker nodes talk to the job store directly; the daemon is the front
// door for clients and operators.
package daemon

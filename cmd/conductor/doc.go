// Command conductor is the operator CLI for the document ingestion
// pipeline. It talks to a running daemon over the local IPC socket and
// can launch the daemon itself via the hidden daemon subcommand.
package main

// Package notifications pushes pipeline outcomes to an ntfy topic.
// Archived, quarantined, and error events can be toggled independently;
// with no topic configured the service is a no-op.
package notifications

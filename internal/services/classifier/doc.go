// Package classifier reaches the document categorization collaborator
// over HTTP. The pipeline degrades to a default category when this
// service is unreachable, so the client reports unavailability with the
// shared sentinel rather than retrying internally.
package classifier

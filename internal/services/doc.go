// Package services defines the error taxonomy shared by collaborator
// clients and hosts the HTTP clients for the extraction, classification,
// and embedding services in its subpackages.
package services

// Package models contains data types and constants for the ChainDocs API.
package models

// Endpoints on a ChainDocs server, relative to its base URL
const (
	EndpointAsk    = "/ask"
	EndpointHealth = "/health"
)

// DefaultHost is the server a local ChainDocs deployment listens on
const DefaultHost = "http://localhost:8000"

// UserAgent identifies the client in request headers
const UserAgent = "chaindocs-cli/0.1"

// MaxResponseBytes caps how much of a response body is read
const MaxResponseBytes = 4 << 20

// DefaultHeaders returns the headers sent with every JSON request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   UserAgent,
	}
}

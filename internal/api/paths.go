// Package api provides the ChainDocs HTTP client.
package api

// GJSON paths for extracting values from ChainDocs responses.
const (
	PathAnswer  = "answer"
	PathSources = "sources"
	PathStatus  = "status"
	// PathDetail is where FastAPI puts the message of an HTTPException.
	PathDetail = "detail"
)

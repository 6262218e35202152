package models

// AskRequest is the body of POST /ask
type AskRequest struct {
	Query string `json:"query"`
}

// AskResponse is the body returned by POST /ask
type AskResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// HasSources reports whether the server cited any source
func (r *AskResponse) HasSources() bool {
	return r != nil && len(r.Sources) > 0
}

// HealthStatus is the body returned by GET /health
type HealthStatus struct {
	Status string `json:"status"`
}

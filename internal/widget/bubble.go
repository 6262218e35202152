package widget

import "github.com/diogo/chaindocs/internal/models"

// State tracks an assistant bubble from placeholder to final content
type State string

const (
	StatePending State = "pending"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

// Bubble is one rendered chat message.
// User content is the trimmed plain text that was submitted. Assistant
// content is sanitized HTML, or the inline error text when State is
// StateFailed.
type Bubble struct {
	ID      string
	Role    models.Role
	Content string
	State   State
	Sources []string
}

// IsUser reports whether the bubble holds a user message
func (b Bubble) IsUser() bool {
	return b.Role == models.RoleUser
}

// IsPending reports whether the bubble is an unresolved assistant placeholder
func (b Bubble) IsPending() bool {
	return b.State == StatePending
}

// Exchange names the placeholder created for one submission
type Exchange struct {
	ID    string
	Query string
}

// Reply is the outcome of FetchReply, applied to the conversation by Resolve
type Reply struct {
	ID      string
	Content string
	Sources []string
	Err     error
}

// Failed reports whether the exchange ended in an inline error
func (r Reply) Failed() bool {
	return r.Err != nil
}

package models

// Role identifies who authored a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a plain chat message as sent or received over the wire
type Message struct {
	Role    Role
	Content string
}

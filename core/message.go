package core

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleUser marks messages written by the human user.
	RoleUser Role = "user"
	// RoleAssistant marks messages produced by the model.
	RoleAssistant Role = "assistant"
	// RoleSystem marks instruction messages seeded by the host.
	RoleSystem Role = "system"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Message is a single conversation entry. Once appended to a Conversation it
// must be treated as immutable; the buffer is append-only and never reorders.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message stamped with the current UTC time.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now().UTC()}
}

// NewID generates a unique identifier used to correlate requests and
// orchestrator invocations in logs.
func NewID() string {
	return uuid.NewString()
}

package core

import "sync"

// Conversation is the ordered, append-only buffer of messages for the
// current session. It is safe for concurrent access.
//
// Contract:
//   - Append never reorders or edits existing entries
//   - Messages returns a defensive copy to avoid external mutation
//   - HasUserMessages ignores system instruction messages so an untouched
//     seeded conversation still counts as empty of real content.
type Conversation struct {
	mu       sync.RWMutex
	messages []Message
}

// NewConversation returns an empty buffer.
func NewConversation() *Conversation {
	return &Conversation{}
}

// NewConversationFromMessages builds a buffer pre-populated with history,
// copying the input slice so the caller can keep mutating its own.
func NewConversationFromMessages(msgs []Message) *Conversation {
	cp := make([]Message, len(msgs))
	copy(cp, msgs)
	return &Conversation{messages: cp}
}

// Append adds a message to the end of the buffer.
func (c *Conversation) Append(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

// Messages returns a copy of the full message slice in insertion order.
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cp := make([]Message, len(c.messages))
	copy(cp, c.messages)
	return cp
}

// Len returns the number of buffered messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// HasUserMessages reports whether the buffer holds any non-system message.
func (c *Conversation) HasUserMessages() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.messages {
		if m.Role != RoleSystem {
			return true
		}
	}
	return false
}

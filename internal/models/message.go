// Package models contains the data types shared across privateai.
package models

import "github.com/google/uuid"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is a single immutable turn in a session.
type Message struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// NewMessage creates a message with a fresh identifier.
func NewMessage(role Role, text string) Message {
	return Message{
		ID:   uuid.NewString(),
		Role: role,
		Text: text,
	}
}

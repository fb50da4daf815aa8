package models

import (
	"time"

	"github.com/google/uuid"
)

// PlaceholderTitle is the title a session carries until the
// summarization flow overwrites it.
const PlaceholderTitle = "New Chat"

// Session is one persisted conversation. Title is mutable (overwritten
// by title generation); CreatedAt is fixed at creation and used for
// chronological grouping; Messages is append-only and exclusively
// owned by the orchestrator.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	Messages  []Message `json:"messages"`
}

// NewSession creates an empty session with the placeholder title.
func NewSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		Title:     PlaceholderTitle,
		CreatedAt: time.Now(),
		Messages:  []Message{},
	}
}

// Clone returns a deep copy of the session. Snapshots handed to the
// store or to background jobs must never alias the live message slice.
func (s *Session) Clone() *Session {
	c := *s
	c.Messages = make([]Message, len(s.Messages))
	copy(c.Messages, s.Messages)
	return &c
}

// CloneSessions deep-copies a whole collection in order.
func CloneSessions(sessions []*Session) []*Session {
	out := make([]*Session, len(sessions))
	for i, s := range sessions {
		out[i] = s.Clone()
	}
	return out
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionState string

const (
	SessionIdle          SessionState = "idle"
	SessionAwaitingReply SessionState = "awaiting_reply"
)

// Session owns the chat transcript for one interactive usage period.
// It is torn down when the session ends or expires.
type Session struct {
	ID        uuid.UUID     `json:"id"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// Clone returns a copy whose transcript can be appended to without
// touching the original.
func (s *Session) Clone() *Session {
	c := *s
	c.Messages = make([]ChatMessage, len(s.Messages))
	copy(c.Messages, s.Messages)
	return &c
}

type StartSessionResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionInfo struct {
	SessionID    uuid.UUID    `json:"session_id"`
	State        SessionState `json:"state"`
	MessageCount int          `json:"message_count"`
	CreatedAt    time.Time    `json:"created_at"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

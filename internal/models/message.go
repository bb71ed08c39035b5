// ABOUTME: Message and session models for conversational memory
// ABOUTME: Messages are immutable once appended; order is monotonic by timestamp
package models

import (
	"errors"
	"strings"
	"time"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a session's append-only log.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a Message with validation.
func NewMessage(role Role, content string) (Message, error) {
	if role != RoleUser && role != RoleAssistant {
		return Message{}, errors.New("role must be user or assistant")
	}
	if strings.TrimSpace(content) == "" {
		return Message{}, errors.New("message content cannot be empty")
	}
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}, nil
}

// SessionKey identifies a conversation: one ordered message log per
// (user, session) pair.
type SessionKey struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// ChatMessage is one immutable transcript entry.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChatMessage stamps a message with a fresh ID and the package clock.
func NewChatMessage(role Role, text string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: Now(),
	}
}

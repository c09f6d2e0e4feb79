package domain

import "time"

// Interaction event types published to the event sink.
const (
	EventLevelCommitted = "level_committed"
	EventChatExchanged  = "chat_exchanged"
)

// InteractionEvent records a committed user action for downstream analytics.
type InteractionEvent struct {
	Type       string      `json:"type"`
	SessionID  string      `json:"session_id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Level      *FloodLevel `json:"level,omitempty"`
	Address    string      `json:"address,omitempty"`
	Mode       string      `json:"mode,omitempty"`
	UserText   string      `json:"user_text,omitempty"`
	BotText    string      `json:"bot_text,omitempty"`
	Outcome    string      `json:"outcome,omitempty"`
}

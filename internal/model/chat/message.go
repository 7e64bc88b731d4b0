package chat

import "time"

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in the conversation. Immutable once appended.
type Turn struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

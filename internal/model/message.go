package model

import "time"

const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Message is an audit row for one chat message in either direction.
type Message struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	Direction  string    `json:"direction"`
	Body       string    `json:"message_body"`
	MessageSID string    `json:"message_sid,omitempty"`
	Intent     string    `json:"intent,omitempty"`
	WorkflowID string    `json:"workflow_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

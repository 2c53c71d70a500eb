package model

import "time"

// Domain event types published to the message bus.
const (
	EventRegistrationCompleted = "registration.completed"
	EventRegistrationFailed    = "registration.failed"
	EventPaymentSettled        = "payment.settled"
	EventPaymentFailed         = "payment.failed"
	EventPaymentCancelled      = "payment.cancelled"
	EventPaymentTimedOut       = "payment.timed_out"
)

// Event is a domain notification. ID is stable across activity retries so
// consumers can deduplicate.
type Event struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	WorkflowID  string            `json:"workflow_id"`
	PhoneNumber string            `json:"phone_number"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

// Receipt is the archived proof of a settled payment.
type Receipt struct {
	TransactionID    string    `json:"transaction_id"`
	WorkflowID       string    `json:"workflow_id"`
	PhoneNumber      string    `json:"phone_number"`
	AmountCents      int64     `json:"amount_cents"`
	Recipient        string    `json:"recipient"`
	RecipientAddress string    `json:"recipient_address"`
	TxHash           string    `json:"tx_hash"`
	SettledAt        time.Time `json:"settled_at"`
}

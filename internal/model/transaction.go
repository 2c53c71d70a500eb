package model

import "time"

// Transaction status constants. Everything except TxPending is terminal.
const (
	TxPending   = "pending"
	TxConfirmed = "confirmed"
	TxCancelled = "cancelled"
	TxTimeout   = "timeout"
	TxFailed    = "failed"
)

const TransactionTypeSend = "send"

// Transaction is the durable record of one payment attempt.
type Transaction struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	WorkflowID       string     `json:"workflow_id"`
	TransactionType  string     `json:"transaction_type"`
	AmountCents      int64      `json:"amount_cents"`
	Recipient        string     `json:"recipient"`
	RecipientAddress string     `json:"recipient_address,omitempty"`
	Status           string     `json:"status"`
	TransferID       string     `json:"transfer_id,omitempty"`
	TxHash           string     `json:"tx_hash,omitempty"`
	Description      string     `json:"description,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`
}

// IsTerminalTxStatus reports whether a transaction status can no longer change.
func IsTerminalTxStatus(status string) bool {
	switch status {
	case TxConfirmed, TxCancelled, TxTimeout, TxFailed:
		return true
	}
	return false
}

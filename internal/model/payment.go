package model

// PaymentState is the position of a payment instance in its lifecycle.
type PaymentState string

const (
	PayRequested            PaymentState = "requested"
	PayBalanceChecked       PaymentState = "balance_checked"
	PayRecipientResolved    PaymentState = "recipient_resolved"
	PayAwaitingConfirmation PaymentState = "awaiting_confirmation"
	PayConfirmed            PaymentState = "confirmed"
	PayCancelled            PaymentState = "cancelled"
	PayConfirmationTimeout  PaymentState = "confirmation_timeout"
	PayTransferring         PaymentState = "transferring"
	PayTransferPending      PaymentState = "transfer_pending"
	PaySettled              PaymentState = "settled"
	PayTransferFailed       PaymentState = "transfer_failed"
	PayUserNotRegistered    PaymentState = "user_not_registered"
	PayInsufficientFunds    PaymentState = "insufficient_funds"
	PayInvalidRecipient     PaymentState = "invalid_recipient"
)

// Terminal reports whether no further transition is possible.
func (s PaymentState) Terminal() bool {
	switch s {
	case PayCancelled, PayConfirmationTimeout, PaySettled, PayTransferFailed,
		PayUserNotRegistered, PayInsufficientFunds, PayInvalidRecipient:
		return true
	}
	return false
}

type PaymentParams struct {
	PhoneNumber string `json:"phone_number"`
	AmountCents int64  `json:"amount_cents"`
	Recipient   string `json:"recipient"`
}

type PaymentResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id,omitempty"`
	TxHash        string `json:"tx_hash,omitempty"`
	AmountCents   int64  `json:"amount_cents"`
	Recipient     string `json:"recipient"`
	Error         string `json:"error,omitempty"`
}

// PaymentStatus is the read-only snapshot returned by the status query.
type PaymentStatus struct {
	State         PaymentState `json:"state"`
	TransactionID string       `json:"transaction_id,omitempty"`
	AmountCents   int64        `json:"amount_cents"`
	Recipient     string       `json:"recipient"`
	Confirmed     bool         `json:"confirmed"`
	Cancelled     bool         `json:"cancelled"`
	TxHash        string       `json:"tx_hash,omitempty"`
}

// Package wallet talks to custody providers that hold user funds.
package wallet

import (
	"context"
	"errors"
	"regexp"
)

var (
	ErrNotFound          = errors.New("wallet not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownRecipient  = errors.New("unknown recipient")
	// ErrRejected marks a request the provider refused permanently.
	ErrRejected = errors.New("rejected by provider")
)

// Transfer states, normalized across providers.
const (
	StatusPending   = "pending"
	StatusComplete  = "complete"
	StatusFailed    = "failed"
	StatusDenied    = "denied"
	StatusCancelled = "cancelled"
)

type Wallet struct {
	ID         string `json:"id"`
	Address    string `json:"address"`
	Blockchain string `json:"blockchain"`
}

type TransferRequest struct {
	WalletID    string
	Destination string
	AmountCents int64
	// IdempotencyKey makes repeated requests return the original transfer.
	IdempotencyKey string
}

type Transfer struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	TxHash string `json:"tx_hash,omitempty"`
}

// Provider is a custody backend. CreateWallet and Transfer must be
// idempotent on their idempotency key.
type Provider interface {
	CreateWallet(ctx context.Context, userID, idempotencyKey string) (*Wallet, error)
	Balance(ctx context.Context, walletID string) (int64, error)
	ResolveLabel(ctx context.Context, label string) (string, error)
	Transfer(ctx context.Context, req TransferRequest) (*Transfer, error)
	TransferStatus(ctx context.Context, transferID string) (*Transfer, error)
}

var addressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsAddress reports whether s is a hex chain address.
func IsAddress(s string) bool {
	return addressRe.MatchString(s)
}

// Settled reports whether a transfer status will no longer change.
func Settled(status string) bool {
	switch status {
	case StatusComplete, StatusFailed, StatusDenied, StatusCancelled:
		return true
	}
	return false
}

// IsPermanent reports whether err should not be retried.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrRejected) || errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrUnknownRecipient)
}

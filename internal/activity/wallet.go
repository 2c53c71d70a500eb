package activity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.temporal.io/sdk/temporal"

	"github.com/arcagent/arcagent/internal/model"
	"github.com/arcagent/arcagent/internal/wallet"
)

// Directory maps a registered user's phone number to their wallet address.
// *CoreDB satisfies this interface.
type Directory interface {
	WalletAddressByPhone(ctx context.Context, phone string) (string, error)
}

// Wallet contains activities that operate on the custody provider.
type Wallet struct {
	provider  wallet.Provider
	directory Directory
}

// NewWallet creates a new Wallet activity struct.
func NewWallet(provider wallet.Provider, directory Directory) *Wallet {
	return &Wallet{provider: provider, directory: directory}
}

// CreateWallet provisions a wallet for a user. Repeating the call with the
// same idempotency key returns the same wallet.
func (a *Wallet) CreateWallet(ctx context.Context, params CreateWalletParams) (*WalletResult, error) {
	w, err := a.provider.CreateWallet(ctx, params.UserID, params.IdempotencyKey)
	if err != nil {
		if wallet.IsPermanent(err) {
			return nil, temporal.NewNonRetryableApplicationError(
				"create wallet rejected", model.ErrTypeProvisionFailed, err)
		}
		return nil, fmt.Errorf("create wallet for %s: %w", params.UserID, err)
	}
	return &WalletResult{WalletID: w.ID, Address: w.Address, Blockchain: w.Blockchain}, nil
}

// GetBalance returns the spendable balance of a wallet in cents.
func (a *Wallet) GetBalance(ctx context.Context, walletID string) (int64, error) {
	cents, err := a.provider.Balance(ctx, walletID)
	if err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			return 0, temporal.NewNonRetryableApplicationError(
				fmt.Sprintf("wallet %s not found", walletID), model.ErrTypeClient, err)
		}
		return 0, fmt.Errorf("get balance of %s: %w", walletID, err)
	}
	return cents, nil
}

// ResolveRecipient turns a recipient label into a chain address. Addresses
// resolve to themselves, phone numbers go through the user directory and
// anything else is handed to the provider. An unknown recipient is a
// retryable error; the caller's retry policy bounds the attempts.
func (a *Wallet) ResolveRecipient(ctx context.Context, label string) (*ResolveRecipientResult, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, temporal.NewNonRetryableApplicationError(
			"empty recipient", model.ErrTypeInvalidRecipient, nil)
	}
	if wallet.IsAddress(label) {
		return &ResolveRecipientResult{Address: label}, nil
	}
	if strings.HasPrefix(label, "+") && a.directory != nil {
		addr, err := a.directory.WalletAddressByPhone(ctx, label)
		if err != nil {
			return nil, err
		}
		if addr == "" {
			return nil, fmt.Errorf("resolve %s: %w", label, wallet.ErrUnknownRecipient)
		}
		return &ResolveRecipientResult{Address: addr}, nil
	}

	addr, err := a.provider.ResolveLabel(ctx, label)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", label, err)
	}
	return &ResolveRecipientResult{Address: addr}, nil
}

// InitiateTransfer submits a transfer. The idempotency key makes a retried
// call return the original transfer instead of moving funds twice. Denials
// (insufficient funds, rejected request) are not retried.
func (a *Wallet) InitiateTransfer(ctx context.Context, params InitiateTransferParams) (*TransferResult, error) {
	t, err := a.provider.Transfer(ctx, wallet.TransferRequest{
		WalletID:       params.WalletID,
		Destination:    params.Destination,
		AmountCents:    params.AmountCents,
		IdempotencyKey: params.IdempotencyKey,
	})
	if err != nil {
		if wallet.IsPermanent(err) {
			return nil, temporal.NewNonRetryableApplicationError(
				"transfer denied: "+err.Error(), model.ErrTypeTransferDenied, err)
		}
		return nil, fmt.Errorf("initiate transfer %s: %w", params.IdempotencyKey, err)
	}
	return &TransferResult{TransferID: t.ID, Status: t.Status, TxHash: t.TxHash}, nil
}

// GetTransferStatus returns the provider's view of a transfer.
func (a *Wallet) GetTransferStatus(ctx context.Context, transferID string) (*TransferResult, error) {
	t, err := a.provider.TransferStatus(ctx, transferID)
	if err != nil {
		return nil, fmt.Errorf("get transfer status %s: %w", transferID, err)
	}
	return &TransferResult{TransferID: t.ID, Status: t.Status, TxHash: t.TxHash}, nil
}

// Package core routes requests from the API and the chat channel to
// workflow instances and read models.
package core

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/arcagent/arcagent/internal/activity"
	"github.com/arcagent/arcagent/internal/messaging"
	"github.com/arcagent/arcagent/internal/model"
	"github.com/arcagent/arcagent/internal/wallet"
)

var (
	// ErrNothingPending is returned when a signal targets an instance that
	// does not exist or has already finished.
	ErrNothingPending = errors.New("no pending workflow instance")
	// ErrNotFound is returned when a queried instance does not exist.
	ErrNotFound      = errors.New("workflow instance not found")
	ErrNotRegistered = errors.New("user is not registered")
	ErrInvalidInput  = errors.New("invalid input")
)

// Store is the read/write surface of the core database used outside
// workflows. *activity.CoreDB satisfies this interface.
type Store interface {
	GetUser(ctx context.Context, phone string) (*model.User, error)
	ListTransactions(ctx context.Context, phone string, limit int) ([]model.Transaction, error)
	LogMessage(ctx context.Context, params activity.LogMessageParams) (int64, error)
	VerifyUserPIN(ctx context.Context, params activity.VerifyUserPINParams) (*activity.VerifyUserPINResult, error)
}

// Options carries settings passed to new workflow instances.
type Options struct {
	TaskQueue       string
	AutoVerify      bool
	PINSetupBaseURL string
}

// StartResult describes the instance a start request mapped onto.
// AlreadyStarted is set when an instance with the same ID was running.
type StartResult struct {
	WorkflowID     string `json:"workflow_id"`
	RunID          string `json:"run_id,omitempty"`
	AlreadyStarted bool   `json:"already_started"`
}

type Services struct {
	Registration *RegistrationService
	Payment      *PaymentService
	Account      *AccountService
	Chat         *ChatService
}

// NewServices wires the router. rdb and provider may be nil; the features
// that need them then report an error.
func NewServices(
	tc temporalclient.Client,
	store Store,
	provider wallet.Provider,
	rdb redis.UniversalClient,
	sender messaging.Sender,
	catalog *messaging.Catalog,
	opts Options,
) *Services {
	reg := NewRegistrationService(tc, opts)
	pay := NewPaymentService(tc, rdb, opts)
	acct := NewAccountService(store, provider)
	return &Services{
		Registration: reg,
		Payment:      pay,
		Account:      acct,
		Chat:         NewChatService(store, reg, pay, acct, sender, catalog),
	}
}

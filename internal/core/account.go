package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/arcagent/arcagent/internal/activity"
	"github.com/arcagent/arcagent/internal/model"
	"github.com/arcagent/arcagent/internal/wallet"
)

// Balance is a user's wallet balance.
type Balance struct {
	PhoneNumber   string `json:"phone_number"`
	WalletAddress string `json:"wallet_address"`
	BalanceCents  int64  `json:"balance_cents"`
	Balance       string `json:"balance"`
}

type AccountService struct {
	store    Store
	provider wallet.Provider
}

func NewAccountService(store Store, provider wallet.Provider) *AccountService {
	return &AccountService{store: store, provider: provider}
}

func (s *AccountService) registeredUser(ctx context.Context, phone string) (*model.User, error) {
	if err := CheckPhone(phone); err != nil {
		return nil, err
	}
	u, err := s.store.GetUser(ctx, phone)
	if err != nil {
		return nil, err
	}
	if !u.Registered() {
		return nil, ErrNotRegistered
	}
	return u, nil
}

func (s *AccountService) Balance(ctx context.Context, phone string) (*Balance, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("no wallet provider configured")
	}
	u, err := s.registeredUser(ctx, phone)
	if err != nil {
		return nil, err
	}
	return s.balanceOf(ctx, u)
}

func (s *AccountService) balanceOf(ctx context.Context, u *model.User) (*Balance, error) {
	cents, err := s.provider.Balance(ctx, u.WalletID)
	if err != nil {
		return nil, fmt.Errorf("balance of %s: %w", u.ID, err)
	}
	return &Balance{
		PhoneNumber:   u.ID,
		WalletAddress: u.WalletAddress,
		BalanceCents:  cents,
		Balance:       model.FormatCents(cents),
	}, nil
}

// Transactions lists a user's most recent transactions, newest first.
func (s *AccountService) Transactions(ctx context.Context, phone string, limit int) ([]model.Transaction, error) {
	if _, err := s.registeredUser(ctx, phone); err != nil {
		return nil, err
	}
	return s.store.ListTransactions(ctx, phone, limit)
}

// Summary is a balance plus the most recent transactions.
type Summary struct {
	Balance *Balance            `json:"balance"`
	Recent  []model.Transaction `json:"recent"`
}

// Summary reads the balance and recent history concurrently.
func (s *AccountService) Summary(ctx context.Context, phone string, limit int) (*Summary, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("no wallet provider configured")
	}
	u, err := s.registeredUser(ctx, phone)
	if err != nil {
		return nil, err
	}

	var sum Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := s.balanceOf(gctx, u)
		if err != nil {
			return err
		}
		sum.Balance = b
		return nil
	})
	g.Go(func() error {
		txs, err := s.store.ListTransactions(gctx, phone, limit)
		if err != nil {
			return fmt.Errorf("transactions of %s: %w", phone, err)
		}
		sum.Recent = txs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if sum.Recent == nil {
		sum.Recent = []model.Transaction{}
	}
	return &sum, nil
}

// VerifyPIN checks a user's PIN. Only the format is checked here; a stored
// PIN set under an older policy still verifies.
func (s *AccountService) VerifyPIN(ctx context.Context, phone, pin string) (*activity.VerifyUserPINResult, error) {
	if err := CheckPhone(phone); err != nil {
		return nil, err
	}
	if err := validate.Var(pin, "required,len=6,numeric"); err != nil {
		return nil, fmt.Errorf("%w: PIN must be 6 digits", ErrInvalidInput)
	}
	return s.store.VerifyUserPIN(ctx, activity.VerifyUserPINParams{PhoneNumber: phone, PIN: pin})
}

package core

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/arcagent/arcagent/internal/activity"
	"github.com/arcagent/arcagent/internal/model"
	"github.com/arcagent/arcagent/internal/wallet"
)

const testPhone = "+14155550100"

// ---------- Mock Store ----------

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetUser(ctx context.Context, phone string) (*model.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockStore) ListTransactions(ctx context.Context, phone string, limit int) ([]model.Transaction, error) {
	args := m.Called(ctx, phone, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

func (m *mockStore) LogMessage(ctx context.Context, params activity.LogMessageParams) (int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) VerifyUserPIN(ctx context.Context, params activity.VerifyUserPINParams) (*activity.VerifyUserPINResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*activity.VerifyUserPINResult), args.Error(1)
}

// ---------- Mock Sender ----------

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, to, body string) (string, error) {
	args := m.Called(ctx, to, body)
	return args.String(0), args.Error(1)
}

// ---------- Mock Provider ----------

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) CreateWallet(ctx context.Context, userID, key string) (*wallet.Wallet, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *mockProvider) Balance(ctx context.Context, walletID string) (int64, error) {
	args := m.Called(ctx, walletID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProvider) ResolveLabel(ctx context.Context, label string) (string, error) {
	args := m.Called(ctx, label)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) Transfer(ctx context.Context, req wallet.TransferRequest) (*wallet.Transfer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Transfer), args.Error(1)
}

func (m *mockProvider) TransferStatus(ctx context.Context, id string) (*wallet.Transfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Transfer), args.Error(1)
}

// ---------- Query values ----------

// jsonValue implements converter.EncodedValue for query results.
type jsonValue struct {
	v any
}

func (j jsonValue) HasValue() bool { return j.v != nil }

func (j jsonValue) Get(valuePtr interface{}) error {
	b, err := json.Marshal(j.v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, valuePtr)
}

func registeredUser() *model.User {
	return &model.User{
		ID:                    testPhone,
		IsVerified:            true,
		WalletID:              "w-1",
		WalletAddress:         "0xabc",
		RegistrationCompleted: true,
		IsActive:              true,
	}
}

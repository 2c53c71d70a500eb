package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arcagent/arcagent/internal/model"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, ev model.Event) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *mockPublisher) Close() error { return nil }

type mockArchiver struct {
	mock.Mock
}

func (m *mockArchiver) Archive(ctx context.Context, r model.Receipt) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}

func TestEvents_PublishEvent(t *testing.T) {
	ctx := context.Background()
	pub := &mockPublisher{}
	a := NewEvents(pub)

	ev := model.Event{ID: "ev-1", Type: model.EventPaymentSettled, OccurredAt: time.Now()}
	pub.On("Publish", ctx, ev).Return(nil).Once()
	require.NoError(t, a.PublishEvent(ctx, ev))

	pub.On("Publish", ctx, ev).Return(errors.New("channel closed")).Once()
	err := a.PublishEvent(ctx, ev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish payment.settled")
}

func TestReceipts_ArchiveReceipt(t *testing.T) {
	ctx := context.Background()
	arch := &mockArchiver{}
	a := NewReceipts(arch)

	r := model.Receipt{TransactionID: "tx_1", PhoneNumber: testPhone}
	arch.On("Archive", ctx, r).Return("receipts/"+testPhone+"/tx_1.json", nil)

	key, err := a.ArchiveReceipt(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, "receipts/"+testPhone+"/tx_1.json", key)
}

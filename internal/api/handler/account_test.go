package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arcagent/arcagent/internal/activity"
	"github.com/arcagent/arcagent/internal/model"
)

func registeredUser() *model.User {
	return &model.User{ID: testPhone, IsVerified: true, WalletID: "w-1", WalletAddress: "0xabc",
		RegistrationCompleted: true, IsActive: true}
}

func TestAccountBalance(t *testing.T) {
	f := newFixture(t)
	h := NewAccount(f.svcs.Account)

	f.store.On("GetUser", mock.Anything, testPhone).Return(registeredUser(), nil)

	rec := httptest.NewRecorder()
	h.Balance(rec, withChiURLParam(newRequest(http.MethodGet, "/", nil), "phone", testPhone))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"phone_number":"+14155550100","wallet_address":"0xabc","balance_cents":4200,"balance":"42.00"}`,
		rec.Body.String())
}

func TestAccountBalance_NotRegistered(t *testing.T) {
	f := newFixture(t)
	h := NewAccount(f.svcs.Account)

	f.store.On("GetUser", mock.Anything, testPhone).Return(nil, nil)

	rec := httptest.NewRecorder()
	h.Balance(rec, withChiURLParam(newRequest(http.MethodGet, "/", nil), "phone", testPhone))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountBalance_BadPhone(t *testing.T) {
	h := NewAccount(nil)
	rec := httptest.NewRecorder()
	h.Balance(rec, withChiURLParam(newRequest(http.MethodGet, "/", nil), "phone", "john"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccountTransactions_LimitClamped(t *testing.T) {
	f := newFixture(t)
	h := NewAccount(f.svcs.Account)

	f.store.On("GetUser", mock.Anything, testPhone).Return(registeredUser(), nil)
	f.store.On("ListTransactions", mock.Anything, testPhone, maxTransactionLimit).
		Return([]model.Transaction{{ID: "tx-1", AmountCents: 2000, Status: model.TxConfirmed}}, nil)

	rec := httptest.NewRecorder()
	r := withChiURLParam(newRequest(http.MethodGet, "/?limit=1000", nil), "phone", testPhone)
	h.Transactions(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"tx-1"`)
	f.store.AssertExpectations(t)
}

func TestAccountSummary(t *testing.T) {
	f := newFixture(t)
	h := NewAccount(f.svcs.Account)

	f.store.On("GetUser", mock.Anything, testPhone).Return(registeredUser(), nil)
	f.store.On("ListTransactions", mock.Anything, testPhone, defaultTransactionLimit).
		Return([]model.Transaction{{ID: "tx-1", AmountCents: 2000, Status: model.TxConfirmed}}, nil)

	rec := httptest.NewRecorder()
	h.Summary(rec, withChiURLParam(newRequest(http.MethodGet, "/", nil), "phone", testPhone))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"balance":"42.00"`)
	assert.Contains(t, rec.Body.String(), `"id":"tx-1"`)
}

func TestAccountVerifyPIN(t *testing.T) {
	f := newFixture(t)
	h := NewAccount(f.svcs.Account)

	f.store.On("VerifyUserPIN", mock.Anything, activity.VerifyUserPINParams{PhoneNumber: testPhone, PIN: "482915"}).
		Return(&activity.VerifyUserPINResult{Reason: activity.PINReasonMismatch}, nil)

	rec := httptest.NewRecorder()
	h.VerifyPIN(rec, withChiURLParam(newRequest(http.MethodPost, "/", map[string]string{"pin": "482915"}), "phone", testPhone))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"verified":false,"reason":"invalid_pin"}`, rec.Body.String())
}

func TestAccountVerifyPIN_BadPIN(t *testing.T) {
	f := newFixture(t)
	h := NewAccount(f.svcs.Account)

	rec := httptest.NewRecorder()
	h.VerifyPIN(rec, withChiURLParam(newRequest(http.MethodPost, "/", map[string]string{"pin": "12ab"}), "phone", testPhone))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.store.AssertNotCalled(t, "VerifyUserPIN", mock.Anything, mock.Anything)
}

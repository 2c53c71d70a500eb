package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	temporalclient "go.temporal.io/sdk/client"
	temporalmocks "go.temporal.io/sdk/mocks"

	"github.com/arcagent/arcagent/internal/model"
)

func TestPaymentStart_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing amount", map[string]any{"phone_number": testPhone, "recipient": "john"}},
		{"bad phone", map[string]any{"phone_number": "john", "amount": 20, "recipient": "john"}},
		{"missing recipient", map[string]any{"phone_number": testPhone, "amount": 20}},
		{"three decimals", map[string]any{"phone_number": testPhone, "amount": 20.505, "recipient": "john"}},
		{"zero", map[string]any{"phone_number": testPhone, "amount": 0, "recipient": "john"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPayment(nil)
			rec := httptest.NewRecorder()
			h.Start(rec, newRequest(http.MethodPost, "/payments", tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestPaymentStart_IdempotencyKeyHeader(t *testing.T) {
	f := newFixture(t)
	h := NewPayment(f.svcs.Payment)
	wfID := "payment-" + testPhone + "-korder-42"

	run := &temporalmocks.WorkflowRun{}
	run.On("GetID").Return(wfID)
	run.On("GetRunID").Return("run-1")
	f.tc.On("ExecuteWorkflow", mock.Anything, mock.MatchedBy(func(o temporalclient.StartWorkflowOptions) bool {
		return o.ID == wfID
	}), model.PaymentWorkflowName, model.PaymentParams{
		PhoneNumber: testPhone,
		AmountCents: 2050,
		Recipient:   "john",
	}).Return(run, nil)

	r := newRequestRaw(http.MethodPost, "/payments", `{"phone_number":"+14155550100","amount":20.50,"recipient":"john"}`)
	r.Header.Set("Idempotency-Key", "order-42")
	rec := httptest.NewRecorder()
	h.Start(rec, r)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), wfID)
	f.tc.AssertExpectations(t)
}

func TestPaymentConfirm_Delivered(t *testing.T) {
	f := newFixture(t)
	h := NewPayment(f.svcs.Payment)

	f.tc.On("SignalWorkflow", mock.Anything, "payment-x", "", model.SignalConfirmPayment, nil).Return(nil)

	rec := httptest.NewRecorder()
	h.Confirm(rec, withChiURLParam(newRequest(http.MethodPost, "/", nil), "workflowID", "payment-x"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"delivered":true,"workflow_id":"payment-x"}`, rec.Body.String())
}

func TestPaymentCancel_AfterCompletion(t *testing.T) {
	f := newFixture(t)
	h := NewPayment(f.svcs.Payment)

	f.tc.On("SignalWorkflow", mock.Anything, "payment-x", "", model.SignalCancelPayment, nil).
		Return(serviceerror.NewNotFound("workflow execution already completed"))

	rec := httptest.NewRecorder()
	h.Cancel(rec, withChiURLParam(newRequest(http.MethodPost, "/", nil), "workflowID", "payment-x"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"delivered":false`)
}

func TestPaymentStatus(t *testing.T) {
	f := newFixture(t)
	h := NewPayment(f.svcs.Payment)

	f.tc.On("QueryWorkflow", mock.Anything, "payment-x", "", model.QueryStatus).
		Return(jsonValue{model.PaymentStatus{State: model.PayAwaitingConfirmation, AmountCents: 2000, Recipient: "john"}}, nil)

	rec := httptest.NewRecorder()
	h.Status(rec, withChiURLParam(newRequest(http.MethodGet, "/", nil), "workflowID", "payment-x"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"awaiting_confirmation"`)
}

func TestPaymentWatch_StreamsUntilTerminal(t *testing.T) {
	f := newFixture(t)
	h := NewPayment(f.svcs.Payment)
	h.watchInterval = 10 * time.Millisecond

	awaiting := model.PaymentStatus{State: model.PayAwaitingConfirmation, AmountCents: 2000, Recipient: "john"}
	settled := model.PaymentStatus{State: model.PaySettled, AmountCents: 2000, Recipient: "john", Confirmed: true, TxHash: "0xhash"}
	f.tc.On("QueryWorkflow", mock.Anything, "payment-x", "", model.QueryStatus).Return(jsonValue{awaiting}, nil).Twice()
	f.tc.On("QueryWorkflow", mock.Anything, "payment-x", "", model.QueryStatus).Return(jsonValue{settled}, nil)

	router := chi.NewRouter()
	router.Get("/payments/{workflowID}/watch", h.Watch)
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/payments/payment-x/watch", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	var first, second model.PaymentStatus
	require.NoError(t, wsjson.Read(ctx, conn, &first))
	assert.Equal(t, model.PayAwaitingConfirmation, first.State)
	require.NoError(t, wsjson.Read(ctx, conn, &second))
	assert.Equal(t, model.PaySettled, second.State)
	assert.Equal(t, "0xhash", second.TxHash)

	_, _, err = conn.Read(ctx)
	assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))
}

func TestPaymentWatch_UnknownWorkflow(t *testing.T) {
	f := newFixture(t)
	h := NewPayment(f.svcs.Payment)

	f.tc.On("QueryWorkflow", mock.Anything, "payment-missing", "", model.QueryStatus).
		Return(nil, serviceerror.NewNotFound("not found"))

	rec := httptest.NewRecorder()
	h.Watch(rec, withChiURLParam(newRequest(http.MethodGet, "/", nil), "workflowID", "payment-missing"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

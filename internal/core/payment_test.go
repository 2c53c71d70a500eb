package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	commonpb "go.temporal.io/api/common/v1"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	workflowpb "go.temporal.io/api/workflow/v1"
	"go.temporal.io/api/workflowservice/v1"
	temporalclient "go.temporal.io/sdk/client"
	temporalmocks "go.temporal.io/sdk/mocks"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/arcagent/arcagent/internal/model"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func expectPaymentStart(tc *temporalmocks.Client, ctx context.Context, wfID string) {
	wfRun := &temporalmocks.WorkflowRun{}
	wfRun.On("GetID").Return(wfID)
	wfRun.On("GetRunID").Return("run-" + wfID)
	tc.On("ExecuteWorkflow", ctx, mock.MatchedBy(func(o temporalclient.StartWorkflowOptions) bool {
		return o.ID == wfID && o.WorkflowIDReusePolicy == enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE
	}), model.PaymentWorkflowName, model.PaymentParams{
		PhoneNumber: testPhone,
		AmountCents: 2000,
		Recipient:   "+14155550101",
	}).Return(wfRun, nil).Once()
}

func runningPayment(wfID string, started time.Time) *workflowpb.WorkflowExecutionInfo {
	return &workflowpb.WorkflowExecutionInfo{
		Execution: &commonpb.WorkflowExecution{WorkflowId: wfID, RunId: "run-" + wfID},
		StartTime: timestamppb.New(started),
	}
}

// ---------- Start ----------

func TestPaymentService_Start_FreshInstancePerRequest(t *testing.T) {
	tc := &temporalmocks.Client{}
	svc := NewPaymentService(tc, newTestRedis(t), testOpts)
	ctx := context.Background()

	expectPaymentStart(tc, ctx, "payment-"+testPhone+"-1")
	expectPaymentStart(tc, ctx, "payment-"+testPhone+"-2")

	p := StartPaymentParams{Phone: testPhone, AmountCents: 2000, Recipient: "+14155550101"}
	first, err := svc.Start(ctx, p)
	require.NoError(t, err)
	second, err := svc.Start(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, "payment-"+testPhone+"-1", first.WorkflowID)
	assert.Equal(t, "payment-"+testPhone+"-2", second.WorkflowID)
	assert.NotEqual(t, first.WorkflowID, second.WorkflowID)
	tc.AssertExpectations(t)
}

func TestPaymentService_Start_IdempotencyKey(t *testing.T) {
	tc := &temporalmocks.Client{}
	svc := NewPaymentService(tc, nil, testOpts)
	ctx := context.Background()

	wfID := "payment-" + testPhone + "-kabc-123"
	expectPaymentStart(tc, ctx, wfID)
	tc.On("ExecuteWorkflow", ctx, mock.Anything, model.PaymentWorkflowName, mock.Anything).
		Return(nil, serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "", "run-"+wfID)).Once()

	p := StartPaymentParams{Phone: testPhone, AmountCents: 2000, Recipient: "+14155550101", IdempotencyKey: "abc-123"}
	first, err := svc.Start(ctx, p)
	require.NoError(t, err)
	again, err := svc.Start(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, wfID, first.WorkflowID)
	assert.False(t, first.AlreadyStarted)
	assert.Equal(t, wfID, again.WorkflowID)
	assert.True(t, again.AlreadyStarted)
}

func TestPaymentService_Start_Validation(t *testing.T) {
	tc := &temporalmocks.Client{}
	svc := NewPaymentService(tc, nil, testOpts)
	ctx := context.Background()

	tests := []struct {
		name string
		p    StartPaymentParams
	}{
		{"zero amount", StartPaymentParams{Phone: testPhone, Recipient: "john"}},
		{"negative amount", StartPaymentParams{Phone: testPhone, AmountCents: -5, Recipient: "john"}},
		{"no recipient", StartPaymentParams{Phone: testPhone, AmountCents: 100}},
		{"bad key", StartPaymentParams{Phone: testPhone, AmountCents: 100, Recipient: "john", IdempotencyKey: "has space"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Start(ctx, tt.p)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	tc.AssertNumberOfCalls(t, "ExecuteWorkflow", 0)
}

// ---------- Latest ----------

func TestPaymentService_Latest_PicksNewest(t *testing.T) {
	tc := &temporalmocks.Client{}
	svc := NewPaymentService(tc, nil, testOpts)
	ctx := context.Background()
	now := time.Now()

	tc.On("ListWorkflow", ctx, mock.MatchedBy(func(r *workflowservice.ListWorkflowExecutionsRequest) bool {
		return r.Query == "WorkflowType = 'PaymentWorkflow' AND ExecutionStatus = 'Running' AND WorkflowId STARTS_WITH 'payment-"+testPhone+"-'"
	})).Return(&workflowservice.ListWorkflowExecutionsResponse{
		Executions: []*workflowpb.WorkflowExecutionInfo{
			runningPayment("payment-"+testPhone+"-1", now.Add(-2*time.Minute)),
			runningPayment("payment-"+testPhone+"-3", now),
			runningPayment("payment-"+testPhone+"-2", now.Add(-time.Minute)),
		},
	}, nil)

	wfID, err := svc.Latest(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, "payment-"+testPhone+"-3", wfID)
}

func TestPaymentService_Latest_NothingRunning(t *testing.T) {
	tc := &temporalmocks.Client{}
	svc := NewPaymentService(tc, nil, testOpts)
	ctx := context.Background()

	tc.On("ListWorkflow", ctx, mock.Anything).Return(&workflowservice.ListWorkflowExecutionsResponse{}, nil)

	_, err := svc.Latest(ctx, testPhone)
	assert.ErrorIs(t, err, ErrNothingPending)
}

func TestPaymentService_Latest_RejectsQuerySyntaxInPhone(t *testing.T) {
	tc := &temporalmocks.Client{}
	svc := NewPaymentService(tc, nil, testOpts)

	_, err := svc.Latest(context.Background(), "x' OR WorkflowId STARTS_WITH 'payment")
	assert.ErrorIs(t, err, ErrInvalidInput)
	tc.AssertNumberOfCalls(t, "ListWorkflow", 0)
}

func TestPaymentService_Latest_IgnoresOtherPhones(t *testing.T) {
	tc := &temporalmocks.Client{}
	svc := NewPaymentService(tc, nil, testOpts)
	ctx := context.Background()
	now := time.Now()

	tc.On("ListWorkflow", ctx, mock.Anything).Return(&workflowservice.ListWorkflowExecutionsResponse{
		Executions: []*workflowpb.WorkflowExecutionInfo{
			runningPayment("payment-+14155550199-9", now),
			runningPayment("payment-"+testPhone+"-2", now.Add(-time.Minute)),
		},
	}, nil).Once()

	wfID, err := svc.Latest(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, "payment-"+testPhone+"-2", wfID)

	tc.On("ListWorkflow", ctx, mock.Anything).Return(&workflowservice.ListWorkflowExecutionsResponse{
		Executions: []*workflowpb.WorkflowExecutionInfo{runningPayment("payment-+14155550199-9", now)},
	}, nil).Once()

	_, err = svc.Latest(ctx, testPhone)
	assert.ErrorIs(t, err, ErrNothingPending)
}

func TestPaymentService_ConfirmFor(t *testing.T) {
	tc := &temporalmocks.Client{}
	svc := NewPaymentService(tc, nil, testOpts)
	ctx := context.Background()
	own := "payment-" + testPhone + "-5"

	tc.On("SignalWorkflow", ctx, own, "", model.SignalConfirmPayment, nil).Return(nil).Once()

	require.NoError(t, svc.ConfirmFor(ctx, testPhone, own))
	assert.ErrorIs(t, svc.ConfirmFor(ctx, testPhone, "payment-+14155550199-5"), ErrInvalidInput)
	assert.ErrorIs(t, svc.CancelFor(ctx, testPhone, model.RegistrationWorkflowID(testPhone)), ErrInvalidInput)
	tc.AssertNumberOfCalls(t, "SignalWorkflow", 1)
}

func TestPaymentService_ConfirmLatest(t *testing.T) {
	tc := &temporalmocks.Client{}
	svc := NewPaymentService(tc, nil, testOpts)
	ctx := context.Background()
	wfID := "payment-" + testPhone + "-7"

	tc.On("ListWorkflow", ctx, mock.Anything).Return(&workflowservice.ListWorkflowExecutionsResponse{
		Executions: []*workflowpb.WorkflowExecutionInfo{runningPayment(wfID, time.Now())},
	}, nil)
	tc.On("SignalWorkflow", ctx, wfID, "", model.SignalConfirmPayment, nil).Return(nil)

	got, err := svc.ConfirmLatest(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, wfID, got)
	tc.AssertExpectations(t)
}

func TestPaymentService_Cancel_FinishedInstance(t *testing.T) {
	tc := &temporalmocks.Client{}
	svc := NewPaymentService(tc, nil, testOpts)
	ctx := context.Background()

	tc.On("SignalWorkflow", ctx, "payment-x", "", model.SignalCancelPayment, nil).
		Return(serviceerror.NewNotFound("workflow execution already completed"))

	assert.ErrorIs(t, svc.Cancel(ctx, "payment-x"), ErrNothingPending)
}

func TestPaymentService_Confirm_TransportError(t *testing.T) {
	tc := &temporalmocks.Client{}
	svc := NewPaymentService(tc, nil, testOpts)
	ctx := context.Background()

	tc.On("SignalWorkflow", ctx, "payment-x", "", model.SignalConfirmPayment, nil).
		Return(errors.New("deadline exceeded"))

	err := svc.Confirm(ctx, "payment-x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNothingPending)
}

func TestPaymentService_Status(t *testing.T) {
	tc := &temporalmocks.Client{}
	svc := NewPaymentService(tc, nil, testOpts)
	ctx := context.Background()

	tc.On("QueryWorkflow", ctx, "payment-x", "", model.QueryStatus).Return(jsonValue{model.PaymentStatus{
		State:         model.PayAwaitingConfirmation,
		TransactionID: "tx-1",
		AmountCents:   2000,
		Recipient:     "john",
	}}, nil)

	st, err := svc.Status(ctx, "payment-x")
	require.NoError(t, err)
	assert.Equal(t, model.PayAwaitingConfirmation, st.State)
	assert.Equal(t, "tx-1", st.TransactionID)
	assert.Equal(t, int64(2000), st.AmountCents)
}

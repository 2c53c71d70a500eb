package core

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/workflowservice/v1"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/arcagent/arcagent/internal/model"
	"github.com/arcagent/arcagent/internal/platform"
)

// StartPaymentParams describes a payment request. IdempotencyKey, when set,
// maps repeated requests onto the same instance.
type StartPaymentParams struct {
	Phone          string
	AmountCents    int64
	Recipient      string
	IdempotencyKey string
}

type PaymentService struct {
	tc   temporalclient.Client
	rdb  redis.UniversalClient
	opts Options
}

func NewPaymentService(tc temporalclient.Client, rdb redis.UniversalClient, opts Options) *PaymentService {
	return &PaymentService{tc: tc, rdb: rdb, opts: opts}
}

func nonceKey(phone string) string { return "payment:nonce:" + phone }

var idempotencyKeyRe = regexp.MustCompile(`^[A-Za-z0-9_.:-]{1,64}$`)

// Start begins a payment instance. Every request gets a fresh instance
// unless it carries an idempotency key that was used before.
func (s *PaymentService) Start(ctx context.Context, p StartPaymentParams) (*StartResult, error) {
	if err := CheckPhone(p.Phone); err != nil {
		return nil, err
	}
	if p.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if p.Recipient == "" {
		return nil, fmt.Errorf("%w: recipient is required", ErrInvalidInput)
	}

	nonce, err := s.nonce(ctx, p)
	if err != nil {
		return nil, err
	}

	return startWorkflow(ctx, s.tc, temporalclient.StartWorkflowOptions{
		ID:                    model.PaymentWorkflowID(p.Phone, nonce),
		TaskQueue:             s.opts.TaskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}, model.PaymentWorkflowName, model.PaymentParams{
		PhoneNumber: p.Phone,
		AmountCents: p.AmountCents,
		Recipient:   p.Recipient,
	})
}

func (s *PaymentService) nonce(ctx context.Context, p StartPaymentParams) (string, error) {
	if p.IdempotencyKey != "" {
		if !idempotencyKeyRe.MatchString(p.IdempotencyKey) {
			return "", fmt.Errorf("%w: malformed idempotency key", ErrInvalidInput)
		}
		return "k" + p.IdempotencyKey, nil
	}
	if s.rdb == nil {
		return platform.NewShortID("r"), nil
	}
	n, err := s.rdb.Incr(ctx, nonceKey(p.Phone)).Result()
	if err != nil {
		return "", fmt.Errorf("allocate payment nonce: %w", err)
	}
	return strconv.FormatInt(n, 10), nil
}

func (s *PaymentService) Confirm(ctx context.Context, wfID string) error {
	return signalWorkflow(ctx, s.tc, wfID, model.SignalConfirmPayment, nil)
}

func (s *PaymentService) Cancel(ctx context.Context, wfID string) error {
	return signalWorkflow(ctx, s.tc, wfID, model.SignalCancelPayment, nil)
}

// ConfirmFor confirms wfID on behalf of phone. Instances of other phones
// are rejected with ErrInvalidInput.
func (s *PaymentService) ConfirmFor(ctx context.Context, phone, wfID string) error {
	if err := CheckPaymentOwner(phone, wfID); err != nil {
		return err
	}
	return s.Confirm(ctx, wfID)
}

// CancelFor cancels wfID on behalf of phone.
func (s *PaymentService) CancelFor(ctx context.Context, phone, wfID string) error {
	if err := CheckPaymentOwner(phone, wfID); err != nil {
		return err
	}
	return s.Cancel(ctx, wfID)
}

// ConfirmLatest confirms the most recently started running payment of a
// phone and returns its workflow ID.
func (s *PaymentService) ConfirmLatest(ctx context.Context, phone string) (string, error) {
	wfID, err := s.Latest(ctx, phone)
	if err != nil {
		return "", err
	}
	return wfID, s.Confirm(ctx, wfID)
}

// CancelLatest cancels the most recently started running payment of a phone.
func (s *PaymentService) CancelLatest(ctx context.Context, phone string) (string, error) {
	wfID, err := s.Latest(ctx, phone)
	if err != nil {
		return "", err
	}
	return wfID, s.Cancel(ctx, wfID)
}

// Latest returns the ID of the most recently started running payment of a
// phone, or ErrNothingPending.
func (s *PaymentService) Latest(ctx context.Context, phone string) (string, error) {
	if err := CheckPhone(phone); err != nil {
		return "", err
	}
	prefix := model.PaymentWorkflowPrefix(phone)
	query := fmt.Sprintf(
		"WorkflowType = '%s' AND ExecutionStatus = 'Running' AND WorkflowId STARTS_WITH '%s'",
		model.PaymentWorkflowName, prefix)

	resp, err := s.tc.ListWorkflow(ctx, &workflowservice.ListWorkflowExecutionsRequest{
		Query:    query,
		PageSize: 20,
	})
	if err != nil {
		return "", fmt.Errorf("list running payments of %s: %w", phone, err)
	}

	var latestID string
	var latestStart int64
	for _, ex := range resp.GetExecutions() {
		if !strings.HasPrefix(ex.GetExecution().GetWorkflowId(), prefix) {
			continue
		}
		start := ex.GetStartTime().AsTime().UnixNano()
		if latestID == "" || start > latestStart {
			latestID, latestStart = ex.GetExecution().GetWorkflowId(), start
		}
	}
	if latestID == "" {
		return "", ErrNothingPending
	}
	return latestID, nil
}

func (s *PaymentService) Status(ctx context.Context, wfID string) (*model.PaymentStatus, error) {
	var st model.PaymentStatus
	if err := queryWorkflow(ctx, s.tc, wfID, model.QueryStatus, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

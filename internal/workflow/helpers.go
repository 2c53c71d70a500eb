package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/arcagent/arcagent/internal/activity"
	"github.com/arcagent/arcagent/internal/model"
)

func activityCtx(ctx workflow.Context, timeout time.Duration, attempts int32) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:    attempts,
			InitialInterval:    time.Second,
			MaximumInterval:    30 * time.Second,
			BackoffCoefficient: 2.0,
		},
	})
}

// dbCtx is used for core database activities.
func dbCtx(ctx workflow.Context) workflow.Context {
	return activityCtx(ctx, 10*time.Second, 3)
}

func noticeCtx(ctx workflow.Context) workflow.Context {
	return activityCtx(ctx, 30*time.Second, 3)
}

// walletWriteCtx is used for wallet creation and transfers, which wait on the
// provider's custody backend.
func walletWriteCtx(ctx workflow.Context) workflow.Context {
	return activityCtx(ctx, 60*time.Second, 3)
}

func walletReadCtx(ctx workflow.Context) workflow.Context {
	return activityCtx(ctx, 30*time.Second, 3)
}

func eventCtx(ctx workflow.Context) workflow.Context {
	return activityCtx(ctx, 15*time.Second, 5)
}

func receiptCtx(ctx workflow.Context) workflow.Context {
	return activityCtx(ctx, 30*time.Second, 5)
}

// sendNotice delivers a chat notice. It is best-effort: failures are logged
// and never change the outcome of the calling workflow.
func sendNotice(ctx workflow.Context, phone string, kind model.NoticeKind, data model.NoticeData) {
	err := workflow.ExecuteActivity(noticeCtx(ctx), "SendNotice", activity.SendNoticeParams{
		PhoneNumber: phone,
		Kind:        kind,
		Data:        data,
		WorkflowID:  workflow.GetInfo(ctx).WorkflowExecution.ID,
	}).Get(ctx, nil)
	if err != nil {
		workflow.GetLogger(ctx).Warn("failed to send notice", "kind", kind, "error", err)
	}
}

func sendError(ctx workflow.Context, phone, errorKind string) {
	sendNotice(ctx, phone, model.NoticeError, model.NoticeData{ErrorKind: errorKind})
}

// publishEvent publishes a domain event, best-effort. The event ID is derived
// from the workflow ID and type so retried or replayed publishes carry the
// same ID.
func publishEvent(ctx workflow.Context, eventType, phone string, attrs map[string]string) {
	wfID := workflow.GetInfo(ctx).WorkflowExecution.ID
	err := workflow.ExecuteActivity(eventCtx(ctx), "PublishEvent", model.Event{
		ID:          wfID + "/" + eventType,
		Type:        eventType,
		WorkflowID:  wfID,
		PhoneNumber: phone,
		Attributes:  attrs,
		OccurredAt:  workflow.Now(ctx).UTC(),
	}).Get(ctx, nil)
	if err != nil {
		workflow.GetLogger(ctx).Warn("failed to publish event", "type", eventType, "error", err)
	}
}

// newTimerCtx returns a cancellable timer. The caller cancels it once the
// wait is over so an unused timer does not linger in history.
func newTimerCtx(ctx workflow.Context, d time.Duration) (workflow.Future, workflow.CancelFunc) {
	timerCtx, cancel := workflow.WithCancel(ctx)
	return workflow.NewTimer(timerCtx, d), cancel
}

package core

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/api/serviceerror"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/arcagent/arcagent/internal/metrics"
)

// startWorkflow starts an instance with compare-and-create semantics: if an
// instance with the same ID is already running, no new one is created and
// the existing ID is returned with AlreadyStarted set.
func startWorkflow(
	ctx context.Context,
	tc temporalclient.Client,
	opts temporalclient.StartWorkflowOptions,
	workflowName string,
	arg any,
) (*StartResult, error) {
	opts.WorkflowExecutionErrorWhenAlreadyStarted = true

	run, err := tc.ExecuteWorkflow(ctx, opts, workflowName, arg)
	if err != nil {
		var already *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &already) {
			metrics.WorkflowStartsTotal.WithLabelValues(workflowName, "already_started").Inc()
			return &StartResult{WorkflowID: opts.ID, RunID: already.RunId, AlreadyStarted: true}, nil
		}
		metrics.WorkflowStartsTotal.WithLabelValues(workflowName, "error").Inc()
		return nil, fmt.Errorf("start %s %s: %w", workflowName, opts.ID, err)
	}

	metrics.WorkflowStartsTotal.WithLabelValues(workflowName, "started").Inc()
	return &StartResult{WorkflowID: run.GetID(), RunID: run.GetRunID()}, nil
}

// signalWorkflow delivers a signal to the current run of wfID. A missing or
// closed instance yields ErrNothingPending.
func signalWorkflow(ctx context.Context, tc temporalclient.Client, wfID, signal string, arg any) error {
	err := tc.SignalWorkflow(ctx, wfID, "", signal, arg)
	if err != nil {
		var nf *serviceerror.NotFound
		if errors.As(err, &nf) {
			metrics.SignalsTotal.WithLabelValues(signal, "nothing_pending").Inc()
			return ErrNothingPending
		}
		metrics.SignalsTotal.WithLabelValues(signal, "error").Inc()
		return fmt.Errorf("signal %s to %s: %w", signal, wfID, err)
	}
	metrics.SignalsTotal.WithLabelValues(signal, "delivered").Inc()
	return nil
}

// queryWorkflow runs a read-only query against the latest run of wfID,
// open or closed, and decodes the answer into out.
func queryWorkflow(ctx context.Context, tc temporalclient.Client, wfID, query string, out any) error {
	val, err := tc.QueryWorkflow(ctx, wfID, "", query)
	if err != nil {
		var nf *serviceerror.NotFound
		if errors.As(err, &nf) {
			return ErrNotFound
		}
		return fmt.Errorf("query %s on %s: %w", query, wfID, err)
	}
	if err := val.Get(out); err != nil {
		return fmt.Errorf("decode %s result: %w", query, err)
	}
	return nil
}

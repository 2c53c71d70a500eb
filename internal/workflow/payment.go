package workflow

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/arcagent/arcagent/internal/activity"
	"github.com/arcagent/arcagent/internal/model"
	"github.com/arcagent/arcagent/internal/platform"
	"github.com/arcagent/arcagent/internal/wallet"
)

const (
	ConfirmationTimeout = 2 * time.Minute
	StatusPollInterval  = 5 * time.Second
	MaxStatusPolls      = 10
)

type paymentEvent string

const (
	payEvNotRegistered     paymentEvent = "not_registered"
	payEvBalanceChecked    paymentEvent = "balance_checked"
	payEvInsufficientFunds paymentEvent = "insufficient_funds"
	payEvRecipientResolved paymentEvent = "recipient_resolved"
	payEvInvalidRecipient  paymentEvent = "invalid_recipient"
	payEvAwaitConfirmation paymentEvent = "await_confirmation"
	payEvTransferring      paymentEvent = "transferring"
	payEvTransferPending   paymentEvent = "transfer_pending"
	payEvSettled           paymentEvent = "settled"
	payEvTransferFailed    paymentEvent = "transfer_failed"
)

var paymentTransitions = map[model.PaymentState]map[paymentEvent]model.PaymentState{
	model.PayRequested: {
		payEvNotRegistered:     model.PayUserNotRegistered,
		payEvBalanceChecked:    model.PayBalanceChecked,
		payEvInsufficientFunds: model.PayInsufficientFunds,
	},
	model.PayBalanceChecked: {
		payEvRecipientResolved: model.PayRecipientResolved,
		payEvInvalidRecipient:  model.PayInvalidRecipient,
	},
	model.PayRecipientResolved: {
		payEvAwaitConfirmation: model.PayAwaitingConfirmation,
	},
	model.PayConfirmed: {
		payEvTransferring:      model.PayTransferring,
		payEvInsufficientFunds: model.PayInsufficientFunds,
		payEvTransferFailed:    model.PayTransferFailed,
	},
	model.PayTransferring: {
		payEvTransferPending: model.PayTransferPending,
		payEvTransferFailed:  model.PayTransferFailed,
	},
	model.PayTransferPending: {
		payEvSettled:        model.PaySettled,
		payEvTransferFailed: model.PayTransferFailed,
	},
}

// paymentMachine holds the single authoritative payment state. Confirm and
// cancel signals only set flags while awaiting confirmation; decide resolves
// them into exactly one outcome.
type paymentMachine struct {
	state         model.PaymentState
	confirmed     bool
	cancelled     bool
	params        model.PaymentParams
	transactionID string
	txHash        string
}

func newPaymentMachine(params model.PaymentParams) *paymentMachine {
	return &paymentMachine{state: model.PayRequested, params: params}
}

func (m *paymentMachine) apply(ev paymentEvent) error {
	next, ok := paymentTransitions[m.state][ev]
	if !ok {
		return fmt.Errorf("payment: event %s not allowed in state %s", ev, m.state)
	}
	m.state = next
	return nil
}

// signal records a confirm or cancel signal. Signals outside the
// confirmation window are ignored.
func (m *paymentMachine) signal(name string) {
	if m.state != model.PayAwaitingConfirmation {
		return
	}
	switch name {
	case model.SignalConfirmPayment:
		m.confirmed = true
	case model.SignalCancelPayment:
		m.cancelled = true
	}
}

// decide resolves the confirmation window. Cancel wins over confirm; with
// neither signalled the window only closes on timeout. Returns false if the
// wait must continue.
func (m *paymentMachine) decide(timedOut bool) bool {
	if m.state != model.PayAwaitingConfirmation {
		return true
	}
	switch {
	case m.cancelled:
		m.state = model.PayCancelled
	case m.confirmed:
		m.state = model.PayConfirmed
	case timedOut:
		m.state = model.PayConfirmationTimeout
	default:
		return false
	}
	return true
}

func (m *paymentMachine) status() model.PaymentStatus {
	return model.PaymentStatus{
		State:         m.state,
		TransactionID: m.transactionID,
		AmountCents:   m.params.AmountCents,
		Recipient:     m.params.Recipient,
		Confirmed:     m.confirmed,
		Cancelled:     m.cancelled,
		TxHash:        m.txHash,
	}
}

// PaymentWorkflow moves money from a registered user's wallet to a
// recipient after explicit confirmation. Validation failures and user
// decisions end the workflow with an unsuccessful result; a failed or
// unresolvable transfer fails the workflow with a non-retryable error.
//
// Once the transaction row exists, every exit path writes exactly one
// terminal status to it.
func PaymentWorkflow(ctx workflow.Context, params model.PaymentParams) (*model.PaymentResult, error) {
	logger := workflow.GetLogger(ctx)
	phone := params.PhoneNumber
	wfID := workflow.GetInfo(ctx).WorkflowExecution.ID
	amount := model.FormatCents(params.AmountCents)

	m := newPaymentMachine(params)
	err := workflow.SetQueryHandler(ctx, model.QueryStatus, func() (model.PaymentStatus, error) {
		return m.status(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("register status query: %w", err)
	}

	result := &model.PaymentResult{AmountCents: params.AmountCents, Recipient: params.Recipient}

	var user *model.User
	if err := workflow.ExecuteActivity(dbCtx(ctx), "GetUser", phone).Get(ctx, &user); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.Registered() {
		if err := m.apply(payEvNotRegistered); err != nil {
			return nil, err
		}
		sendError(ctx, phone, model.ErrorNotRegistered)
		result.Error = model.ErrCodeUserNotRegistered
		return result, nil
	}

	var balance int64
	if err := workflow.ExecuteActivity(walletReadCtx(ctx), "GetBalance", user.WalletID).Get(ctx, &balance); err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	if balance < params.AmountCents {
		if err := m.apply(payEvInsufficientFunds); err != nil {
			return nil, err
		}
		sendError(ctx, phone, model.ErrorInsufficientFunds)
		result.Error = model.ErrCodeInsufficientFunds
		return result, nil
	}
	if err := m.apply(payEvBalanceChecked); err != nil {
		return nil, err
	}

	var resolved activity.ResolveRecipientResult
	if err := workflow.ExecuteActivity(walletReadCtx(ctx), "ResolveRecipient", params.Recipient).Get(ctx, &resolved); err != nil {
		if applyErr := m.apply(payEvInvalidRecipient); applyErr != nil {
			return nil, applyErr
		}
		sendError(ctx, phone, model.ErrorInvalidRecipient)
		return nil, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("recipient %q could not be resolved", params.Recipient), model.ErrTypeInvalidRecipient, err)
	}
	if err := m.apply(payEvRecipientResolved); err != nil {
		return nil, err
	}

	encoded := workflow.SideEffect(ctx, func(workflow.Context) interface{} {
		return platform.NewTransactionID()
	})
	if err := encoded.Get(&m.transactionID); err != nil {
		return nil, err
	}
	result.TransactionID = m.transactionID

	err = workflow.ExecuteActivity(dbCtx(ctx), "CreateTransaction", activity.CreateTransactionParams{
		ID:               m.transactionID,
		UserID:           phone,
		WorkflowID:       wfID,
		AmountCents:      params.AmountCents,
		Recipient:        params.Recipient,
		RecipientAddress: resolved.Address,
		Description:      fmt.Sprintf("Send $%s to %s", amount, params.Recipient),
	}).Get(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	sendNotice(ctx, phone, model.NoticeConfirmationRequest, model.NoticeData{Amount: amount, Recipient: params.Recipient})
	if err := m.apply(payEvAwaitConfirmation); err != nil {
		return nil, err
	}

	awaitConfirmation(ctx, m)

	switch m.state {
	case model.PayCancelled:
		finishTransaction(ctx, m.transactionID, model.TxCancelled, "")
		sendNotice(ctx, phone, model.NoticeCancelled, model.NoticeData{})
		publishEvent(ctx, model.EventPaymentCancelled, phone, paymentAttrs(m, resolved.Address))
		result.Error = model.ErrCodeCancelledByUser
		return result, nil
	case model.PayConfirmationTimeout:
		finishTransaction(ctx, m.transactionID, model.TxTimeout, "")
		sendError(ctx, phone, model.ErrorConfirmationTimeout)
		publishEvent(ctx, model.EventPaymentTimedOut, phone, paymentAttrs(m, resolved.Address))
		result.Error = model.ErrCodeConfirmationTimeout
		return result, nil
	}

	// Funds may have moved while waiting for confirmation.
	if err := workflow.ExecuteActivity(walletReadCtx(ctx), "GetBalance", user.WalletID).Get(ctx, &balance); err != nil {
		return nil, failTransfer(ctx, m, resolved.Address, model.ErrTypeTransferFailed, err)
	}
	if balance < params.AmountCents {
		if err := m.apply(payEvInsufficientFunds); err != nil {
			return nil, err
		}
		finishTransaction(ctx, m.transactionID, model.TxFailed, "")
		sendError(ctx, phone, model.ErrorInsufficientFunds)
		result.Error = model.ErrCodeInsufficientFunds
		return result, nil
	}

	if err := m.apply(payEvTransferring); err != nil {
		return nil, err
	}
	var transfer activity.TransferResult
	err = workflow.ExecuteActivity(walletWriteCtx(ctx), "InitiateTransfer", activity.InitiateTransferParams{
		WalletID:       user.WalletID,
		Destination:    resolved.Address,
		AmountCents:    params.AmountCents,
		IdempotencyKey: wfID + "/transfer",
	}).Get(ctx, &transfer)
	if err != nil {
		return nil, failTransfer(ctx, m, resolved.Address, model.ErrTypeTransferFailed, err)
	}

	err = workflow.ExecuteActivity(dbCtx(ctx), "RecordTransfer", activity.RecordTransferParams{
		TransactionID: m.transactionID,
		TransferID:    transfer.TransferID,
	}).Get(ctx, nil)
	if err != nil {
		logger.Warn("failed to record transfer id", "transfer_id", transfer.TransferID, "error", err)
	}
	if err := m.apply(payEvTransferPending); err != nil {
		return nil, err
	}

	status, hash := pollTransfer(ctx, transfer)
	switch {
	case status == wallet.StatusComplete && hash != "":
	case status == wallet.StatusComplete:
		// Complete without a hash is not proof of settlement.
		return nil, failTransfer(ctx, m, resolved.Address, model.ErrTypeTransferStatusUnknown,
			fmt.Errorf("transfer %s complete without tx hash after %d polls", transfer.TransferID, MaxStatusPolls))
	case wallet.Settled(status):
		return nil, failTransfer(ctx, m, resolved.Address, model.ErrTypeTransferFailed,
			fmt.Errorf("transfer %s ended with status %s", transfer.TransferID, status))
	default:
		return nil, failTransfer(ctx, m, resolved.Address, model.ErrTypeTransferStatusUnknown,
			fmt.Errorf("transfer %s still %s after %d polls", transfer.TransferID, status, MaxStatusPolls))
	}

	m.txHash = hash
	if err := m.apply(payEvSettled); err != nil {
		return nil, err
	}
	finishTransaction(ctx, m.transactionID, model.TxConfirmed, hash)

	settledAt := workflow.Now(ctx).UTC()
	sendNotice(ctx, phone, model.NoticeReceipt, model.NoticeData{
		Amount:    amount,
		Recipient: params.Recipient,
		TxHash:    hash,
		Timestamp: settledAt.Format("2006-01-02 15:04 UTC"),
	})
	err = workflow.ExecuteActivity(receiptCtx(ctx), "ArchiveReceipt", model.Receipt{
		TransactionID:    m.transactionID,
		WorkflowID:       wfID,
		PhoneNumber:      phone,
		AmountCents:      params.AmountCents,
		Recipient:        params.Recipient,
		RecipientAddress: resolved.Address,
		TxHash:           hash,
		SettledAt:        settledAt,
	}).Get(ctx, nil)
	if err != nil {
		logger.Warn("failed to archive receipt", "transaction_id", m.transactionID, "error", err)
	}
	publishEvent(ctx, model.EventPaymentSettled, phone, paymentAttrs(m, resolved.Address))

	result.Success = true
	result.TxHash = hash
	return result, nil
}

// awaitConfirmation runs the confirmation window. After each wake-up both
// signal channels are drained so that a cancel and a confirm delivered
// together resolve as cancelled.
func awaitConfirmation(ctx workflow.Context, m *paymentMachine) {
	confirmCh := workflow.GetSignalChannel(ctx, model.SignalConfirmPayment)
	cancelCh := workflow.GetSignalChannel(ctx, model.SignalCancelPayment)
	timer, cancel := newTimerCtx(ctx, ConfirmationTimeout)
	defer cancel()

	for {
		timedOut := false
		selector := workflow.NewSelector(ctx)
		selector.AddReceive(confirmCh, func(c workflow.ReceiveChannel, _ bool) {
			c.Receive(ctx, nil)
			m.signal(model.SignalConfirmPayment)
		})
		selector.AddReceive(cancelCh, func(c workflow.ReceiveChannel, _ bool) {
			c.Receive(ctx, nil)
			m.signal(model.SignalCancelPayment)
		})
		selector.AddFuture(timer, func(workflow.Future) { timedOut = true })
		selector.Select(ctx)

		for confirmCh.ReceiveAsync(nil) {
			m.signal(model.SignalConfirmPayment)
		}
		for cancelCh.ReceiveAsync(nil) {
			m.signal(model.SignalCancelPayment)
		}

		if m.decide(timedOut) {
			return
		}
	}
}

// pollTransfer polls the provider until the transfer completes with a hash,
// fails, or the poll budget is spent. Poll errors count against the budget.
func pollTransfer(ctx workflow.Context, t activity.TransferResult) (string, string) {
	status, hash := t.Status, t.TxHash
	for i := 0; i < MaxStatusPolls && !transferDone(status, hash); i++ {
		if err := workflow.Sleep(ctx, StatusPollInterval); err != nil {
			break
		}
		var st activity.TransferResult
		if err := workflow.ExecuteActivity(walletReadCtx(ctx), "GetTransferStatus", t.TransferID).Get(ctx, &st); err != nil {
			workflow.GetLogger(ctx).Warn("transfer status poll failed", "transfer_id", t.TransferID, "error", err)
			continue
		}
		status, hash = st.Status, st.TxHash
	}
	return status, hash
}

func transferDone(status, hash string) bool {
	if status == wallet.StatusComplete {
		return hash != ""
	}
	return wallet.Settled(status)
}

// failTransfer closes a confirmed payment whose transfer did not settle and
// returns the non-retryable workflow error.
func failTransfer(ctx workflow.Context, m *paymentMachine, address, errType string, cause error) error {
	if err := m.apply(payEvTransferFailed); err != nil {
		return err
	}
	finishTransaction(ctx, m.transactionID, model.TxFailed, "")
	sendError(ctx, m.params.PhoneNumber, model.ErrorTransferFailed)
	publishEvent(ctx, model.EventPaymentFailed, m.params.PhoneNumber, paymentAttrs(m, address))
	return temporal.NewNonRetryableApplicationError("transfer failed: "+cause.Error(), errType, cause)
}

// finishTransaction writes the terminal transaction status. A failure after
// retries is logged; the payment outcome stands.
func finishTransaction(ctx workflow.Context, id, status, hash string) {
	err := workflow.ExecuteActivity(dbCtx(ctx), "UpdateTransactionStatus", activity.UpdateTransactionStatusParams{
		ID:     id,
		Status: status,
		TxHash: hash,
	}).Get(ctx, nil)
	if err != nil {
		workflow.GetLogger(ctx).Error("failed to write terminal transaction status",
			"transaction_id", id, "status", status, "error", err)
	}
}

func paymentAttrs(m *paymentMachine, address string) map[string]string {
	attrs := map[string]string{
		"transaction_id":    m.transactionID,
		"amount_cents":      fmt.Sprintf("%d", m.params.AmountCents),
		"recipient":         m.params.Recipient,
		"recipient_address": address,
		"state":             string(m.state),
	}
	if m.txHash != "" {
		attrs["tx_hash"] = m.txHash
	}
	return attrs
}

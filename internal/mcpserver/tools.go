package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/arcagent/arcagent/internal/core"
	"github.com/arcagent/arcagent/internal/model"
)

type tools struct {
	svcs *core.Services
}

func phoneParam() mcp.ToolOption {
	return mcp.WithString("phone_number", mcp.Required(), mcp.Description("E.164 phone number, e.g. +14155550100"))
}

// build returns every tool bound to its handler.
func (t *tools) build(cfg *Config) []server.ServerTool {
	def := func(name, desc string, handler server.ToolHandlerFunc, params ...mcp.ToolOption) server.ServerTool {
		opts := append(cfg.toolOptions(name, desc), params...)
		return server.ServerTool{Tool: mcp.NewTool(name, opts...), Handler: handler}
	}

	return []server.ServerTool{
		def("start_registration", "Start registration for a phone number.", t.startRegistration, phoneParam()),
		def("registration_status", "Registration state for a phone number.", t.registrationStatus, phoneParam()),
		def("verify_code", "Forward a verification code.", t.verifyCode, phoneParam(),
			mcp.WithString("code", mcp.Required(), mcp.Description("6-digit verification code"))),
		def("send_payment", "Request a payment.", t.sendPayment, phoneParam(),
			mcp.WithString("amount", mcp.Required(), mcp.Description("Dollar amount, e.g. 20 or 20.50")),
			mcp.WithString("recipient", mcp.Required(), mcp.Description("Recipient name, phone number or 0x address")),
			mcp.WithString("idempotency_key", mcp.Description("Optional key; repeated calls with the same key map to one payment"))),
		def("confirm_payment", "Confirm a pending payment.", t.confirmPayment, phoneParam(),
			mcp.WithString("workflow_id", mcp.Description("Payment workflow ID; defaults to the latest pending payment"))),
		def("cancel_payment", "Cancel a pending payment.", t.cancelPayment, phoneParam(),
			mcp.WithString("workflow_id", mcp.Description("Payment workflow ID; defaults to the latest pending payment"))),
		def("payment_status", "Payment state.", t.paymentStatus,
			mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Payment workflow ID"))),
		def("get_balance", "Wallet balance.", t.getBalance, phoneParam()),
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

// errorResult reports a failed call to the agent. Only encoding failures
// become protocol errors.
func errorResult(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

type deliveredResult struct {
	Delivered  bool   `json:"delivered"`
	WorkflowID string `json:"workflow_id,omitempty"`
}

func signalResult(wfID string, err error) (*mcp.CallToolResult, error) {
	if errors.Is(err, core.ErrNothingPending) {
		return jsonResult(deliveredResult{Delivered: false, WorkflowID: wfID})
	}
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(deliveredResult{Delivered: true, WorkflowID: wfID})
}

func (t *tools) startRegistration(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	phone, err := req.RequireString("phone_number")
	if err != nil {
		return errorResult(err)
	}
	res, err := t.svcs.Registration.Start(ctx, phone)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(res)
}

func (t *tools) registrationStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	phone, err := req.RequireString("phone_number")
	if err != nil {
		return errorResult(err)
	}
	st, err := t.svcs.Registration.Status(ctx, phone)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(st)
}

func (t *tools) verifyCode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	phone, err := req.RequireString("phone_number")
	if err != nil {
		return errorResult(err)
	}
	code, err := req.RequireString("code")
	if err != nil {
		return errorResult(err)
	}
	err = t.svcs.Registration.VerifyCode(ctx, phone, code)
	return signalResult(model.RegistrationWorkflowID(phone), err)
}

func (t *tools) sendPayment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	phone, err := req.RequireString("phone_number")
	if err != nil {
		return errorResult(err)
	}
	amount, err := req.RequireString("amount")
	if err != nil {
		return errorResult(err)
	}
	recipient, err := req.RequireString("recipient")
	if err != nil {
		return errorResult(err)
	}
	cents, err := model.ParseAmount(amount)
	if err != nil {
		return errorResult(err)
	}

	res, err := t.svcs.Payment.Start(ctx, core.StartPaymentParams{
		Phone:          phone,
		AmountCents:    cents,
		Recipient:      recipient,
		IdempotencyKey: req.GetString("idempotency_key", ""),
	})
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(res)
}

func (t *tools) confirmPayment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	phone, err := req.RequireString("phone_number")
	if err != nil {
		return errorResult(err)
	}
	if wfID := req.GetString("workflow_id", ""); wfID != "" {
		return signalResult(wfID, t.svcs.Payment.ConfirmFor(ctx, phone, wfID))
	}
	wfID, err := t.svcs.Payment.ConfirmLatest(ctx, phone)
	return signalResult(wfID, err)
}

func (t *tools) cancelPayment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	phone, err := req.RequireString("phone_number")
	if err != nil {
		return errorResult(err)
	}
	if wfID := req.GetString("workflow_id", ""); wfID != "" {
		return signalResult(wfID, t.svcs.Payment.CancelFor(ctx, phone, wfID))
	}
	wfID, err := t.svcs.Payment.CancelLatest(ctx, phone)
	return signalResult(wfID, err)
}

func (t *tools) paymentStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	wfID, err := req.RequireString("workflow_id")
	if err != nil {
		return errorResult(err)
	}
	st, err := t.svcs.Payment.Status(ctx, wfID)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(st)
}

func (t *tools) getBalance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	phone, err := req.RequireString("phone_number")
	if err != nil {
		return errorResult(err)
	}
	b, err := t.svcs.Account.Balance(ctx, phone)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(b)
}

package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	temporalclient "go.temporal.io/sdk/client"
	temporalmocks "go.temporal.io/sdk/mocks"

	"github.com/arcagent/arcagent/internal/core"
	"github.com/arcagent/arcagent/internal/messaging"
	"github.com/arcagent/arcagent/internal/model"
)

const testPhone = "+14155550100"

func newTestServer(t *testing.T) (*Server, *temporalmocks.Client) {
	t.Helper()
	catalog, err := messaging.DefaultCatalog()
	require.NoError(t, err)
	logger := zerolog.New(io.Discard)

	tc := &temporalmocks.Client{}
	svcs := core.NewServices(tc, nil, nil, nil, messaging.NewLogSender(logger), catalog,
		core.Options{TaskQueue: "arcagent-tasks"})
	s, err := New(svcs, nil, logger)
	require.NoError(t, err)
	return s, tc
}

func call(t *testing.T, s *Server, name string, args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	for _, tool := range s.tools {
		if tool.Tool.Name != name {
			continue
		}
		res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
			Params: mcp.CallToolParams{Name: name, Arguments: args},
		})
		require.NoError(t, err)
		require.NotEmpty(t, res.Content)
		text, ok := res.Content[0].(mcp.TextContent)
		require.True(t, ok)
		return res, text.Text
	}
	t.Fatalf("tool %s not registered", name)
	return nil, ""
}

func TestNew_RegistersAllTools(t *testing.T) {
	s, _ := newTestServer(t)

	var names []string
	for _, tool := range s.tools {
		names = append(names, tool.Tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"start_registration", "registration_status", "verify_code", "send_payment",
		"confirm_payment", "cancel_payment", "payment_status", "get_balance",
	}, names)
}

func TestNew_AppliesConfiguredAnnotations(t *testing.T) {
	s, _ := newTestServer(t)

	for _, tool := range s.tools {
		switch tool.Tool.Name {
		case "get_balance":
			require.NotNil(t, tool.Tool.Annotations.ReadOnlyHint)
			assert.True(t, *tool.Tool.Annotations.ReadOnlyHint)
		case "confirm_payment":
			require.NotNil(t, tool.Tool.Annotations.DestructiveHint)
			assert.True(t, *tool.Tool.Annotations.DestructiveHint)
			assert.Contains(t, tool.Tool.Description, "latest pending payment")
		}
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := ParseConfig([]byte("tools: [not, a, map]"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
instructions: Use send_payment for transfers.
tools:
  get_balance:
    description: Wallet balance in USDC.
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Use send_payment for transfers.", cfg.Instructions)
	assert.Equal(t, "Wallet balance in USDC.", cfg.Tools["get_balance"].Description)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read mcp config")
}

func TestStartRegistration(t *testing.T) {
	s, tc := newTestServer(t)

	run := &temporalmocks.WorkflowRun{}
	run.On("GetID").Return("registration-" + testPhone)
	run.On("GetRunID").Return("run-1")
	tc.On("ExecuteWorkflow", mock.Anything, mock.Anything, model.RegistrationWorkflowName, mock.Anything).Return(run, nil)

	res, text := call(t, s, "start_registration", map[string]any{"phone_number": testPhone})
	assert.False(t, res.IsError)

	var out core.StartResult
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, "registration-"+testPhone, out.WorkflowID)
}

func TestStartRegistration_MissingPhone(t *testing.T) {
	s, _ := newTestServer(t)

	res, text := call(t, s, "start_registration", map[string]any{})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "phone_number")
}

func TestSendPayment_InvalidAmount(t *testing.T) {
	s, tc := newTestServer(t)

	res, _ := call(t, s, "send_payment", map[string]any{
		"phone_number": testPhone, "amount": "twenty", "recipient": "john",
	})
	assert.True(t, res.IsError)
	tc.AssertNumberOfCalls(t, "ExecuteWorkflow", 0)
}

func TestSendPayment_WithIdempotencyKey(t *testing.T) {
	s, tc := newTestServer(t)
	wfID := "payment-" + testPhone + "-kchat-9"

	run := &temporalmocks.WorkflowRun{}
	run.On("GetID").Return(wfID)
	run.On("GetRunID").Return("run-1")
	tc.On("ExecuteWorkflow", mock.Anything, mock.MatchedBy(func(o temporalclient.StartWorkflowOptions) bool {
		return o.ID == wfID
	}), model.PaymentWorkflowName, model.PaymentParams{
		PhoneNumber: testPhone, AmountCents: 1500, Recipient: "john",
	}).Return(run, nil)

	res, text := call(t, s, "send_payment", map[string]any{
		"phone_number": testPhone, "amount": "15", "recipient": "john", "idempotency_key": "chat-9",
	})
	assert.False(t, res.IsError)
	assert.Contains(t, text, wfID)
}

func TestConfirmPayment_ExplicitWorkflowNothingPending(t *testing.T) {
	s, tc := newTestServer(t)
	wfID := "payment-" + testPhone + "-4"

	tc.On("SignalWorkflow", mock.Anything, wfID, "", model.SignalConfirmPayment, nil).
		Return(serviceerror.NewNotFound("workflow execution already completed"))

	res, text := call(t, s, "confirm_payment", map[string]any{"phone_number": testPhone, "workflow_id": wfID})
	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"delivered":false,"workflow_id":"`+wfID+`"}`, text)
}

func TestConfirmPayment_ForeignWorkflowRejected(t *testing.T) {
	s, tc := newTestServer(t)

	res, text := call(t, s, "confirm_payment", map[string]any{
		"phone_number": testPhone, "workflow_id": "payment-+14155550199-1",
	})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "not a payment of")
	tc.AssertNumberOfCalls(t, "SignalWorkflow", 0)
}

func TestCancelPayment_ForeignWorkflowRejected(t *testing.T) {
	s, tc := newTestServer(t)

	res, _ := call(t, s, "cancel_payment", map[string]any{
		"phone_number": testPhone, "workflow_id": "registration-" + testPhone,
	})
	assert.True(t, res.IsError)
	tc.AssertNumberOfCalls(t, "SignalWorkflow", 0)
}

func TestTools_RejectNonE164Phone(t *testing.T) {
	s, tc := newTestServer(t)

	for _, name := range []string{"start_registration", "registration_status", "confirm_payment", "cancel_payment"} {
		t.Run(name, func(t *testing.T) {
			res, text := call(t, s, name, map[string]any{"phone_number": "x' OR WorkflowId STARTS_WITH 'payment"})
			assert.True(t, res.IsError)
			assert.Contains(t, text, "E.164")
		})
	}
	tc.AssertNumberOfCalls(t, "ExecuteWorkflow", 0)
	tc.AssertNumberOfCalls(t, "ListWorkflow", 0)
	tc.AssertNumberOfCalls(t, "SignalWorkflow", 0)
}

func TestPaymentStatus(t *testing.T) {
	s, tc := newTestServer(t)

	tc.On("QueryWorkflow", mock.Anything, "payment-x", "", model.QueryStatus).
		Return(nil, serviceerror.NewNotFound("not found"))

	res, text := call(t, s, "payment_status", map[string]any{"workflow_id": "payment-x"})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "not found")
}

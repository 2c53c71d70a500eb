package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	temporalmocks "go.temporal.io/sdk/mocks"

	"github.com/arcagent/arcagent/internal/activity"
	"github.com/arcagent/arcagent/internal/core"
	"github.com/arcagent/arcagent/internal/messaging"
	"github.com/arcagent/arcagent/internal/model"
	"github.com/arcagent/arcagent/internal/wallet"
)

const testPhone = "+14155550100"

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetUser(ctx context.Context, phone string) (*model.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockStore) ListTransactions(ctx context.Context, phone string, limit int) ([]model.Transaction, error) {
	args := m.Called(ctx, phone, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

func (m *mockStore) LogMessage(ctx context.Context, params activity.LogMessageParams) (int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) VerifyUserPIN(ctx context.Context, params activity.VerifyUserPINParams) (*activity.VerifyUserPINResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*activity.VerifyUserPINResult), args.Error(1)
}

type stubProvider struct {
	wallet.Provider
	balance int64
}

func (p *stubProvider) Balance(context.Context, string) (int64, error) { return p.balance, nil }

type jsonValue struct {
	v any
}

func (j jsonValue) HasValue() bool { return j.v != nil }

func (j jsonValue) Get(valuePtr interface{}) error {
	b, err := json.Marshal(j.v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, valuePtr)
}

type fixture struct {
	tc    *temporalmocks.Client
	store *mockStore
	svcs  *core.Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog, err := messaging.DefaultCatalog()
	require.NoError(t, err)

	f := &fixture{tc: &temporalmocks.Client{}, store: &mockStore{}}
	f.svcs = core.NewServices(f.tc, f.store, &stubProvider{balance: 4200}, nil,
		messaging.NewLogSender(testLogger()), catalog, core.Options{TaskQueue: "arcagent-tasks"})
	return f
}

// newRequest creates a new HTTP request with an optional JSON body.
func newRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// newRequestRaw creates a new HTTP request with a raw string body.
func newRequestRaw(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// withChiURLParam adds a chi URL parameter to the request context.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeErrorResponse parses the JSON error response body into a map.
func decodeErrorResponse(rec *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	return body
}

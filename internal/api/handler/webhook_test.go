package handler

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mw "github.com/arcagent/arcagent/internal/api/middleware"
	"github.com/arcagent/arcagent/internal/activity"
	"github.com/arcagent/arcagent/internal/messaging"
)

const (
	testAuthToken = "twilio-token"
	testPublicURL = "https://arcagent.example.com/webhooks/twilio/incoming"
)

func sign(form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s := testPublicURL
	for _, k := range keys {
		s += k + form.Get(k)
	}
	mac := hmac.New(sha1.New, []byte(testAuthToken))
	mac.Write([]byte(s))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func formRequest(form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/webhooks/twilio/incoming", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func newWebhookHandler(t *testing.T, f *fixture, limiter *mw.RateLimiter) *Webhook {
	t.Helper()
	catalog, err := messaging.DefaultCatalog()
	require.NoError(t, err)
	return NewWebhook(f.svcs.Chat, limiter, catalog, WebhookOptions{AuthToken: testAuthToken, PublicURL: testPublicURL})
}

func inboundForm(body, sid string) url.Values {
	return url.Values{"From": {"whatsapp:" + testPhone}, "Body": {body}, "MessageSid": {sid}}
}

func TestWebhook_InvalidSignature(t *testing.T) {
	f := newFixture(t)
	h := newWebhookHandler(t, f, nil)

	r := formRequest(inboundForm("hi", "SM1"))
	r.Header.Set("X-Twilio-Signature", "forged")
	rec := httptest.NewRecorder()
	h.Incoming(rec, r)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	f.store.AssertNumberOfCalls(t, "LogMessage", 0)
}

func TestWebhook_DuplicateDeliveryAcknowledged(t *testing.T) {
	f := newFixture(t)
	h := newWebhookHandler(t, f, nil)

	f.store.On("LogMessage", mock.Anything, mock.MatchedBy(func(p activity.LogMessageParams) bool {
		return p.MessageSID == "SM1"
	})).Return(int64(0), nil)

	form := inboundForm("balance", "SM1")
	r := formRequest(form)
	r.Header.Set("X-Twilio-Signature", sign(form))
	rec := httptest.NewRecorder()
	h.Incoming(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<Response></Response>")
}

func TestWebhook_RateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	f := newFixture(t)
	h := newWebhookHandler(t, f, mw.NewRateLimiter(rdb, "webhook", 1, time.Minute))

	f.store.On("LogMessage", mock.Anything, mock.Anything).Return(int64(0), nil)

	form := inboundForm("balance", "SM1")
	r := formRequest(form)
	r.Header.Set("X-Twilio-Signature", sign(form))
	h.Incoming(httptest.NewRecorder(), r)

	form = inboundForm("balance", "SM2")
	r = formRequest(form)
	r.Header.Set("X-Twilio-Signature", sign(form))
	rec := httptest.NewRecorder()
	h.Incoming(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many requests")
	f.store.AssertNumberOfCalls(t, "LogMessage", 1)
}

func TestWebhook_MissingFrom(t *testing.T) {
	f := newFixture(t)
	catalog, err := messaging.DefaultCatalog()
	require.NoError(t, err)
	h := NewWebhook(f.svcs.Chat, nil, catalog, WebhookOptions{})

	rec := httptest.NewRecorder()
	h.Incoming(rec, formRequest(url.Values{"Body": {"hi"}}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhook_NonE164Sender(t *testing.T) {
	f := newFixture(t)
	h := newWebhookHandler(t, f, nil)

	form := url.Values{"From": {"whatsapp:x' OR WorkflowId STARTS_WITH 'payment"}, "Body": {"confirm"}, "MessageSid": {"SM7"}}
	r := formRequest(form)
	r.Header.Set("X-Twilio-Signature", sign(form))
	rec := httptest.NewRecorder()
	h.Incoming(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "E.164")
	f.store.AssertNumberOfCalls(t, "LogMessage", 0)
	f.tc.AssertNumberOfCalls(t, "ListWorkflow", 0)
}

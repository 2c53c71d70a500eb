package messaging

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcagent/arcagent/internal/config"
)

func TestTwilioSend_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "tok", pass)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "whatsapp:+14155238886", r.PostForm.Get("From"))
		assert.Equal(t, "whatsapp:+15550001111", r.PostForm.Get("To"))
		assert.Equal(t, "hello", r.PostForm.Get("Body"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM42"}`))
	}))
	defer srv.Close()

	tw := NewTwilio(srv.URL+"/", "AC123", "tok", "+14155238886")
	sid, err := tw.Send(context.Background(), "+15550001111", "hello")
	require.NoError(t, err)
	assert.Equal(t, "SM42", sid)
}

func TestTwilioSend_ClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"invalid To"}`))
	}))
	defer srv.Close()

	tw := NewTwilio(srv.URL, "AC123", "tok", "whatsapp:+14155238886")
	_, err := tw.Send(context.Background(), "whatsapp:+1", "hello")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.True(t, se.Permanent())
}

func TestStatusError_Permanent(t *testing.T) {
	assert.False(t, (&StatusError{StatusCode: 429}).Permanent())
	assert.False(t, (&StatusError{StatusCode: 503}).Permanent())
	assert.True(t, (&StatusError{StatusCode: 404}).Permanent())
}

func TestValidateSignature(t *testing.T) {
	params := url.Values{}
	params.Set("From", "whatsapp:+15550001111")
	params.Set("Body", "hi")
	params.Set("MessageSid", "SM1")
	fullURL := "https://api.example.com/webhooks/twilio/incoming"

	mac := hmac.New(sha1.New, []byte("secret"))
	mac.Write([]byte(fullURL + "Bodyhi" + "Fromwhatsapp:+15550001111" + "MessageSidSM1"))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	assert.True(t, ValidateSignature("secret", fullURL, params, sig))
	assert.False(t, ValidateSignature("other", fullURL, params, sig))
	params.Set("Body", "tampered")
	assert.False(t, ValidateSignature("secret", fullURL, params, sig))
}

func TestLogSender(t *testing.T) {
	s := NewLogSender(zerolog.Nop())
	sid, err := s.Send(context.Background(), "+15550001111", "hello")
	require.NoError(t, err)
	assert.Regexp(t, `^LOG[a-z0-9]{12}$`, sid)
}

func TestAddressHelpers(t *testing.T) {
	assert.Equal(t, "whatsapp:+1555", WhatsAppAddress("+1555"))
	assert.Equal(t, "whatsapp:+1555", WhatsAppAddress("whatsapp:+1555"))
	assert.Equal(t, "+1555", PhoneFromAddress("whatsapp:+1555"))
}

func TestNewSender(t *testing.T) {
	s := NewSender(&config.Config{}, zerolog.Nop())
	assert.IsType(t, &LogSender{}, s)

	s = NewSender(&config.Config{
		TwilioAccountSID:     "AC123",
		TwilioAuthToken:      "token",
		TwilioWhatsAppNumber: "+14155550000",
		TwilioBaseURL:        "https://api.twilio.com",
	}, zerolog.Nop())
	assert.IsType(t, &Twilio{}, s)
}

// Package messaging delivers chat messages to users.
package messaging

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arcagent/arcagent/internal/config"
	"github.com/arcagent/arcagent/internal/platform"
)

// Sender delivers a text message and returns the provider message ID.
type Sender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("messaging provider returned %d: %s", e.StatusCode, e.Body)
}

// Permanent reports whether retrying the same request cannot succeed.
func (e *StatusError) Permanent() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != 429
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger.With().Str("component", "log-sender").Logger()}
}

func (s *LogSender) Send(_ context.Context, to, body string) (string, error) {
	sid := platform.NewShortID("LOG")
	s.logger.Info().Str("to", to).Str("sid", sid).Str("body", body).Msg("outbound message")
	return sid, nil
}

// WhatsAppAddress adds the whatsapp: channel prefix if missing.
func WhatsAppAddress(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

// PhoneFromAddress strips the channel prefix from a chat address.
func PhoneFromAddress(address string) string {
	return strings.TrimPrefix(address, "whatsapp:")
}

// NewSender returns a Twilio sender when Twilio is configured and a log
// sender otherwise.
func NewSender(cfg *config.Config, logger zerolog.Logger) Sender {
	if cfg.TwilioEnabled() {
		return NewTwilio(cfg.TwilioBaseURL, cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNumber)
	}
	return NewLogSender(logger)
}

package activity

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.temporal.io/sdk/temporal"

	"github.com/arcagent/arcagent/internal/messaging"
	"github.com/arcagent/arcagent/internal/model"
)

// MessageLog records outbound messages. *CoreDB satisfies this interface.
type MessageLog interface {
	LogMessage(ctx context.Context, params LogMessageParams) (int64, error)
}

// Notify contains activities that send chat notices to users.
type Notify struct {
	sender  messaging.Sender
	catalog *messaging.Catalog
	log     MessageLog
	logger  zerolog.Logger
}

// NewNotify creates a new Notify activity struct. log may be nil.
func NewNotify(sender messaging.Sender, catalog *messaging.Catalog, log MessageLog, logger zerolog.Logger) *Notify {
	return &Notify{
		sender:  sender,
		catalog: catalog,
		log:     log,
		logger:  logger.With().Str("component", "notify").Logger(),
	}
}

// SendNotice renders a notice from the catalog and delivers it.
//   - rendering failure → non-retryable error
//   - provider 4xx (except 429) → non-retryable error
//   - provider 5xx / network error → retryable error
func (a *Notify) SendNotice(ctx context.Context, params SendNoticeParams) (string, error) {
	body, err := a.catalog.Render(params.Kind, params.Data)
	if err != nil {
		return "", temporal.NewNonRetryableApplicationError("render notice", model.ErrTypeClient, err)
	}

	sid, err := a.sender.Send(ctx, messaging.WhatsAppAddress(params.PhoneNumber), body)
	if err != nil {
		var se *messaging.StatusError
		if errors.As(err, &se) && se.Permanent() {
			return "", temporal.NewNonRetryableApplicationError(
				fmt.Sprintf("send %s notice: provider returned %d", params.Kind, se.StatusCode),
				model.ErrTypeClient, err)
		}
		return "", fmt.Errorf("send %s notice to %s: %w", params.Kind, params.PhoneNumber, err)
	}

	if a.log != nil {
		// The message is already delivered; a failed audit write must not
		// cause a retry that sends it twice.
		if _, err := a.log.LogMessage(ctx, LogMessageParams{
			UserID:     params.PhoneNumber,
			Direction:  model.DirectionOutbound,
			Body:       body,
			MessageSID: sid,
			Intent:     string(params.Kind),
			WorkflowID: params.WorkflowID,
		}); err != nil {
			a.logger.Warn().Err(err).Str("sid", sid).Msg("failed to log outbound message")
		}
	}
	return sid, nil
}

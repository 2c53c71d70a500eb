package activity

import (
	"context"
	"fmt"

	"github.com/arcagent/arcagent/internal/events"
	"github.com/arcagent/arcagent/internal/model"
)

// Events contains activities that publish domain events.
type Events struct {
	publisher events.Publisher
}

// NewEvents creates a new Events activity struct.
func NewEvents(publisher events.Publisher) *Events {
	return &Events{publisher: publisher}
}

// PublishEvent publishes a domain event. The event ID is fixed by the caller
// so consumers can drop duplicates from retries.
func (a *Events) PublishEvent(ctx context.Context, ev model.Event) error {
	if err := a.publisher.Publish(ctx, ev); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

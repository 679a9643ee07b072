package service

import (
	"context"

	"github.com/motofleet/courier-rental/internal/events"
)

// publishEvent hands event to the dispatcher without letting it affect the caller.
func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	_ = dispatcher.Publish(ctx, event)
}

// Package queue carries vehicle registrations over a Redis stream so that
// notification work happens outside the request that registered the vehicle.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/motofleet/courier-rental/internal/events"
)

const (
	fieldEventID = "event_id"
	fieldPayload = "payload"
)

// StreamAdder is the subset of the Redis client the publisher needs.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// Publisher appends vehicle registrations to the stream.
type Publisher struct {
	client StreamAdder
	stream string
	logger *zap.Logger
}

// NewPublisher builds a publisher for stream.
func NewPublisher(client StreamAdder, stream string, logger *zap.Logger) *Publisher {
	return &Publisher{client: client, stream: stream, logger: logger}
}

// Register subscribes the publisher to vehicle registrations.
func (p *Publisher) Register(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventVehicleRegistered, p.HandleVehicleRegistered)
}

// HandleVehicleRegistered writes the event payload to the stream.
func (p *Publisher) HandleVehicleRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.VehicleRegisteredPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			fieldEventID: event.ID,
			fieldPayload: string(body),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	p.logger.Debug("vehicle registration queued", zap.String("vehicle_id", payload.VehicleID), zap.String("message_id", id))
	return nil
}

package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/motofleet/courier-rental/internal/config"
	"github.com/motofleet/courier-rental/internal/events"
)

// Notifier delivers a human readable message to an external channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   Notifier
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifier Notifier, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to rental events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRentalOpened, n.handleRentalOpened)
	n.dispatcher.Subscribe(events.EventRentalSettled, n.handleRentalSettled)
	n.dispatcher.Subscribe(events.EventRentalOverdue, n.handleRentalOverdue)
}

// VehicleRegistered notifies the webhook when a vehicle of the highlight year is registered.
func (n *NotificationService) VehicleRegistered(ctx context.Context, payload events.VehicleRegisteredPayload) error {
	n.logger.Info("VehicleRegistered",
		zap.String("vehicle_id", payload.VehicleID),
		zap.Int("year", payload.Year),
		zap.String("plate", payload.Plate))

	if n.cfg.HighlightYear == 0 || payload.Year != n.cfg.HighlightYear {
		return nil
	}
	n.send(ctx, fmt.Sprintf("vehicle %s (%s, plate %s) registered with model year %d",
		payload.VehicleID, payload.Model, payload.Plate, payload.Year))
	return nil
}

func (n *NotificationService) handleRentalOpened(ctx context.Context, event events.Event) error {
	n.logger.Info("RentalOpened", zap.String("rental_id", event.AggregateID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleRentalSettled(ctx context.Context, event events.Event) error {
	n.logger.Info("RentalSettled", zap.String("rental_id", event.AggregateID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleRentalOverdue(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RentalOverduePayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("RentalOverdue",
		zap.String("rental_id", event.AggregateID),
		zap.String("courier_id", payload.CourierID),
		zap.Int("days_overdue", payload.DaysOverdue))

	n.send(ctx, fmt.Sprintf("rental %s for vehicle %s is %d day(s) overdue (expected return %s)",
		event.AggregateID, payload.VehicleID, payload.DaysOverdue, payload.ExpectedReturn.Format("2006-01-02")))
	return nil
}

// send is best effort; failures are logged and swallowed.
func (n *NotificationService) send(ctx context.Context, message string) {
	if n.notifier == nil {
		return
	}
	if err := n.notifier.Notify(ctx, message); err != nil {
		n.logger.Warn("notification delivery failed", zap.String("message", message), zap.Error(err))
	}
}

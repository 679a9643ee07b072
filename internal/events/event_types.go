package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/motofleet/courier-rental/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventVehicleRegistered EventType = "vehicle_registered"
	EventRentalOpened      EventType = "rental_opened"
	EventRentalSettled     EventType = "rental_settled"
	EventRentalOverdue     EventType = "rental_overdue"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	AggregateID string      `json:"aggregate_id"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id.
func NewEvent(eventType EventType, aggregateID string, at time.Time, payload interface{}) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		Timestamp:   at.UTC(),
		Payload:     payload,
	}
}

// VehicleRegisteredPayload payload.
type VehicleRegisteredPayload struct {
	VehicleID string `json:"vehicle_id"`
	Year      int    `json:"year"`
	Model     string `json:"model"`
	Plate     string `json:"plate"`
}

// RentalOpenedPayload payload.
type RentalOpenedPayload struct {
	CourierID      string            `json:"courier_id"`
	VehicleID      string            `json:"vehicle_id"`
	Plan           domain.RentalPlan `json:"plan"`
	StartDate      time.Time         `json:"start_date"`
	ExpectedReturn time.Time         `json:"expected_return"`
	TotalValue     decimal.Decimal   `json:"total_value"`
}

// RentalSettledPayload payload.
type RentalSettledPayload struct {
	VehicleID  string                  `json:"vehicle_id"`
	ReturnDate time.Time               `json:"return_date"`
	Total      decimal.Decimal         `json:"total"`
	Penalty    decimal.Decimal         `json:"penalty"`
	Reason     domain.SettlementReason `json:"reason"`
}

// RentalOverduePayload payload.
type RentalOverduePayload struct {
	CourierID      string    `json:"courier_id"`
	VehicleID      string    `json:"vehicle_id"`
	ExpectedReturn time.Time `json:"expected_return"`
	DaysOverdue    int       `json:"days_overdue"`
}

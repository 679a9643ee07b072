package dto

import (
	"time"

	"github.com/motofleet/courier-rental/internal/domain"
)

// OpenRentalRequest payload.
type OpenRentalRequest struct {
	CourierID    string            `json:"courier_id"`
	VehicleID    string            `json:"vehicle_id"`
	PlannedStart Date              `json:"start_date"`
	PlannedEnd   Date              `json:"expected_end_date"`
	Plan         domain.RentalPlan `json:"plan"`
}

// ReturnRentalRequest payload.
type ReturnRentalRequest struct {
	ReturnDate Date `json:"return_date"`
}

// RentalResponse representation. Amounts are decimal strings with two places.
type RentalResponse struct {
	ID             string              `json:"id"`
	CourierID      string              `json:"courier_id"`
	VehicleID      string              `json:"vehicle_id"`
	Plan           domain.RentalPlan   `json:"plan"`
	Status         domain.RentalStatus `json:"status"`
	StartDate      time.Time           `json:"start_date"`
	ExpectedReturn time.Time           `json:"expected_return"`
	ReturnedAt     *time.Time          `json:"returned_at"`
	TotalValue     string              `json:"total_value"`
	CreatedAt      time.Time           `json:"created_at"`
}

// SettlementResponse representation.
type SettlementResponse struct {
	RentalID   string                  `json:"rental_id"`
	ReturnDate time.Time               `json:"return_date"`
	DailyRate  string                  `json:"daily_rate"`
	Penalty    string                  `json:"penalty"`
	Total      string                  `json:"total"`
	Reason     domain.SettlementReason `json:"reason"`
}

// PlanResponse describes one catalog entry.
type PlanResponse struct {
	Days               domain.RentalPlan `json:"days"`
	DailyRate          string            `json:"daily_rate"`
	EarlyReturnPenalty string            `json:"early_return_penalty"`
}

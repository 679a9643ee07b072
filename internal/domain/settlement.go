package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementReason explains how the amount due was reached.
type SettlementReason string

const (
	SettlementNoPenalty          SettlementReason = "NO_PENALTY"
	SettlementEarlyReturnPenalty SettlementReason = "EARLY_RETURN_PENALTY"
	SettlementLateReturnPenalty  SettlementReason = "LATE_RETURN_PENALTY"
)

// Settlement is the billing outcome of returning a rented vehicle.
type Settlement struct {
	RentalID   string
	ReturnDate time.Time
	DailyRate  decimal.Decimal
	Penalty    decimal.Decimal
	Total      decimal.Decimal
	Reason     SettlementReason
}

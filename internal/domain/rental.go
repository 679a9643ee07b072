package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RentalPlan is the contracted rental duration in days.
type RentalPlan int

const (
	Plan7Days  RentalPlan = 7
	Plan15Days RentalPlan = 15
	Plan30Days RentalPlan = 30
	Plan45Days RentalPlan = 45
	Plan50Days RentalPlan = 50
)

// RentalStatus is derived from the actual return date.
type RentalStatus string

const (
	RentalStatusOpen    RentalStatus = "OPEN"
	RentalStatusSettled RentalStatus = "SETTLED"
)

// Rental binds a courier to a vehicle under a plan.
type Rental struct {
	ID             string
	CourierID      string
	VehicleID      string
	Plan           RentalPlan
	StartDate      time.Time
	ExpectedReturn time.Time
	ReturnedAt     *time.Time
	TotalValue     decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Status reports Open until the rental has been settled.
func (r *Rental) Status() RentalStatus {
	if r.ReturnedAt != nil {
		return RentalStatusSettled
	}
	return RentalStatusOpen
}

// IsOpen is shorthand for Status() == RentalStatusOpen.
func (r *Rental) IsOpen() bool {
	return r.ReturnedAt == nil
}

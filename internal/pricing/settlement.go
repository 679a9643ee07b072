package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/motofleet/courier-rental/internal/domain"
)

// Quote computes the amount due when rental is returned at returnDate.
// It does not check whether the rental was already settled.
func Quote(rental *domain.Rental, returnDate time.Time) (domain.Settlement, error) {
	terms, err := Terms(rental.Plan)
	if err != nil {
		return domain.Settlement{}, err
	}

	rate := terms.DailyRate
	plannedDays := WholeDays(rental.StartDate, rental.ExpectedReturn)
	baseTotal := rate.Mul(decimal.NewFromInt(int64(plannedDays)))

	settlement := domain.Settlement{
		RentalID:   rental.ID,
		ReturnDate: returnDate,
		DailyRate:  rate,
		Penalty:    decimal.Zero,
		Total:      baseTotal,
		Reason:     domain.SettlementNoPenalty,
	}

	switch {
	case returnDate.Before(rental.ExpectedReturn):
		remaining := WholeDays(returnDate, rental.ExpectedReturn)
		unused := rate.Mul(decimal.NewFromInt(int64(remaining)))
		penalty := terms.EarlyReturnPenalty.Mul(unused)
		settlement.Penalty = penalty
		settlement.Total = baseTotal.Sub(unused).Add(penalty)
		if penalty.IsPositive() {
			settlement.Reason = domain.SettlementEarlyReturnPenalty
		}
	case returnDate.After(rental.ExpectedReturn):
		late := WholeDays(rental.ExpectedReturn, returnDate)
		penalty := LateReturnDailyFee.Mul(decimal.NewFromInt(int64(late)))
		settlement.Penalty = penalty
		settlement.Total = baseTotal.Add(penalty)
		// Less than a whole day late is still on time.
		if penalty.IsPositive() {
			settlement.Reason = domain.SettlementLateReturnPenalty
		}
	}

	return settlement, nil
}

package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/motofleet/courier-rental/internal/domain"
)

// LateReturnDailyFee is charged for every whole day past the expected return, regardless of plan.
var LateReturnDailyFee = decimal.NewFromInt(50)

// PlanTerms is the billing policy attached to a rental plan.
type PlanTerms struct {
	Plan      domain.RentalPlan
	DailyRate decimal.Decimal
	// EarlyReturnPenalty is the fraction of the unused days' value charged on early return.
	EarlyReturnPenalty decimal.Decimal
}

var catalog = map[domain.RentalPlan]PlanTerms{
	domain.Plan7Days:  {Plan: domain.Plan7Days, DailyRate: decimal.RequireFromString("30.00"), EarlyReturnPenalty: decimal.RequireFromString("0.20")},
	domain.Plan15Days: {Plan: domain.Plan15Days, DailyRate: decimal.RequireFromString("28.00"), EarlyReturnPenalty: decimal.RequireFromString("0.40")},
	domain.Plan30Days: {Plan: domain.Plan30Days, DailyRate: decimal.RequireFromString("22.00"), EarlyReturnPenalty: decimal.Zero},
	domain.Plan45Days: {Plan: domain.Plan45Days, DailyRate: decimal.RequireFromString("20.00"), EarlyReturnPenalty: decimal.Zero},
	domain.Plan50Days: {Plan: domain.Plan50Days, DailyRate: decimal.RequireFromString("18.00"), EarlyReturnPenalty: decimal.Zero},
}

// Terms returns the billing policy for plan.
func Terms(plan domain.RentalPlan) (PlanTerms, error) {
	terms, ok := catalog[plan]
	if !ok {
		return PlanTerms{}, fmt.Errorf("%w: %d", domain.ErrInvalidPlan, plan)
	}
	return terms, nil
}

// DailyRate returns the daily price for plan.
func DailyRate(plan domain.RentalPlan) (decimal.Decimal, error) {
	terms, err := Terms(plan)
	if err != nil {
		return decimal.Zero, err
	}
	return terms.DailyRate, nil
}

// Plans lists every plan in ascending duration order.
func Plans() []PlanTerms {
	out := make([]PlanTerms, 0, len(catalog))
	for _, terms := range catalog {
		out = append(out, terms)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Plan < out[j].Plan })
	return out
}

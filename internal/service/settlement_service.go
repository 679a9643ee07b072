package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/motofleet/courier-rental/internal/domain"
	"github.com/motofleet/courier-rental/internal/events"
	"github.com/motofleet/courier-rental/internal/pricing"
	"github.com/motofleet/courier-rental/internal/repository"
)

// SettlementService closes rentals when the vehicle comes back.
type SettlementService struct {
	rentals    repository.RentalRepository
	dispatcher events.Dispatcher
	clock      clockwork.Clock
	logger     *zap.Logger
}

// NewSettlementService constructs the service.
func NewSettlementService(rentals repository.RentalRepository, dispatcher events.Dispatcher, clock clockwork.Clock, logger *zap.Logger) *SettlementService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettlementService{
		rentals:    rentals,
		dispatcher: dispatcher,
		clock:      clock,
		logger:     logger,
	}
}

// Settle prices the return of rentalID at returnDate and marks the rental settled.
// The settlement is returned only once the settled state has been stored.
func (s *SettlementService) Settle(ctx context.Context, rentalID string, returnDate time.Time) (domain.Settlement, error) {
	rental, err := s.rentals.GetByID(ctx, strings.TrimSpace(rentalID))
	if err != nil {
		return domain.Settlement{}, err
	}
	if !rental.IsOpen() {
		return domain.Settlement{}, domain.ErrRentalAlreadySettled
	}
	if returnDate.Before(rental.StartDate) {
		return domain.Settlement{}, fmt.Errorf("%w: return date %s precedes rental start %s",
			domain.ErrInvalidDateRange, returnDate.Format(time.DateOnly), rental.StartDate.Format(time.DateOnly))
	}

	settlement, err := pricing.Quote(rental, returnDate)
	if err != nil {
		return domain.Settlement{}, err
	}

	settled := *rental
	settled.ReturnedAt = &returnDate
	settled.TotalValue = settlement.Total
	if err := s.rentals.Update(ctx, &settled); err != nil {
		return domain.Settlement{}, err
	}

	s.logger.Info("rental settled",
		zap.String("rental_id", settled.ID),
		zap.String("reason", string(settlement.Reason)),
		zap.String("penalty", settlement.Penalty.StringFixed(2)),
		zap.String("total", settlement.Total.StringFixed(2)))

	publishEvent(ctx, s.dispatcher, events.NewEvent(events.EventRentalSettled, settled.ID, s.clock.Now(), events.RentalSettledPayload{
		VehicleID:  settled.VehicleID,
		ReturnDate: returnDate,
		Total:      settlement.Total,
		Penalty:    settlement.Penalty,
		Reason:     settlement.Reason,
	}))
	return settlement, nil
}

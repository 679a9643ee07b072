package worker

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/motofleet/courier-rental/internal/events"
	"github.com/motofleet/courier-rental/internal/pricing"
	"github.com/motofleet/courier-rental/internal/repository"
)

// OverdueRentalsJob announces open rentals past their expected return.
type OverdueRentalsJob struct {
	rentals    repository.RentalRepository
	dispatcher events.Dispatcher
	clock      clockwork.Clock
	logger     *zap.Logger
	timeout    time.Duration
}

// NewOverdueRentalsJob builds the job.
func NewOverdueRentalsJob(rentals repository.RentalRepository, dispatcher events.Dispatcher, clock clockwork.Clock, logger *zap.Logger) *OverdueRentalsJob {
	return &OverdueRentalsJob{
		rentals:    rentals,
		dispatcher: dispatcher,
		clock:      clock,
		logger:     logger,
		timeout:    time.Minute,
	}
}

// Run publishes one rental_overdue event per overdue rental and returns how many it found.
func (j *OverdueRentalsJob) Run(ctx context.Context) (int, error) {
	now := j.clock.Now()
	overdue, err := j.rentals.ListOverdue(ctx, now)
	if err != nil {
		return 0, err
	}
	for _, rental := range overdue {
		_ = j.dispatcher.Publish(ctx, events.NewEvent(events.EventRentalOverdue, rental.ID, now, events.RentalOverduePayload{
			CourierID:      rental.CourierID,
			VehicleID:      rental.VehicleID,
			ExpectedReturn: rental.ExpectedReturn,
			DaysOverdue:    pricing.WholeDays(rental.ExpectedReturn, now),
		}))
	}
	return len(overdue), nil
}

// cronFunc adapts the job to cron's func() signature.
func (j *OverdueRentalsJob) cronFunc() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	count, err := j.Run(ctx)
	if err != nil {
		j.logger.Error("overdue rentals job failed", zap.Error(err))
		return
	}
	j.logger.Info("overdue rentals job finished", zap.Int("overdue", count))
}

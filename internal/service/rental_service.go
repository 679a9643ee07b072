package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/motofleet/courier-rental/internal/domain"
	"github.com/motofleet/courier-rental/internal/events"
	"github.com/motofleet/courier-rental/internal/pricing"
	"github.com/motofleet/courier-rental/internal/repository"
)

// MinimumLeadTime is how far in the future a rental may start at the earliest.
const MinimumLeadTime = 24 * time.Hour

// RentalService opens rentals and looks them up.
type RentalService struct {
	rentals    repository.RentalRepository
	vehicles   repository.VehicleRepository
	couriers   repository.CourierRepository
	dispatcher events.Dispatcher
	clock      clockwork.Clock
	logger     *zap.Logger
}

// RentalDependencies bundles collaborators for the rental service.
type RentalDependencies struct {
	RentalRepo  repository.RentalRepository
	VehicleRepo repository.VehicleRepository
	CourierRepo repository.CourierRepository
	Dispatcher  events.Dispatcher
	Clock       clockwork.Clock
	Logger      *zap.Logger
}

// OpenRentalInput describes a rental request.
type OpenRentalInput struct {
	CourierID    string
	VehicleID    string
	PlannedStart time.Time
	PlannedEnd   time.Time
	Plan         domain.RentalPlan
}

// NewRentalService constructs the service.
func NewRentalService(deps RentalDependencies) *RentalService {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RentalService{
		rentals:    deps.RentalRepo,
		vehicles:   deps.VehicleRepo,
		couriers:   deps.CourierRepo,
		dispatcher: deps.Dispatcher,
		clock:      clock,
		logger:     logger,
	}
}

// OpenRental creates an open rental for a vehicle that has none.
//
// The rental never starts earlier than MinimumLeadTime from now; when the
// requested start is sooner it is pushed forward and the billed days shrink
// accordingly. The total is the plan's daily rate times the whole days
// between the effective start and the planned end.
func (s *RentalService) OpenRental(ctx context.Context, input OpenRentalInput) (*domain.Rental, error) {
	terms, err := pricing.Terms(input.Plan)
	if err != nil {
		return nil, err
	}
	if !input.PlannedEnd.After(input.PlannedStart) {
		return nil, fmt.Errorf("%w: end %s is not after start %s", domain.ErrInvalidDateRange,
			input.PlannedEnd.Format(time.RFC3339), input.PlannedStart.Format(time.RFC3339))
	}

	start := input.PlannedStart
	if earliest := s.clock.Now().Add(MinimumLeadTime); start.Before(earliest) {
		start = earliest
	}
	days := pricing.WholeDays(start, input.PlannedEnd)
	if days < 0 {
		return nil, fmt.Errorf("%w: end %s is before the earliest start %s", domain.ErrInvalidDateRange,
			input.PlannedEnd.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	courierID := strings.TrimSpace(input.CourierID)
	vehicleID := strings.TrimSpace(input.VehicleID)
	if _, err := s.couriers.GetByID(ctx, courierID); err != nil {
		return nil, err
	}
	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.Active {
		return nil, domain.ErrVehicleNotFound
	}

	open, err := s.rentals.FindActiveByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, domain.ErrVehicleUnavailable
	}

	rental := &domain.Rental{
		CourierID:      courierID,
		VehicleID:      vehicleID,
		Plan:           input.Plan,
		StartDate:      start,
		ExpectedReturn: input.PlannedEnd,
		TotalValue:     terms.DailyRate.Mul(decimal.NewFromInt(int64(days))),
	}
	// the store re-checks availability atomically with the insert
	if err := s.rentals.Create(ctx, rental); err != nil {
		return nil, err
	}

	s.logger.Info("rental opened",
		zap.String("rental_id", rental.ID),
		zap.String("vehicle_id", rental.VehicleID),
		zap.Int("plan", int(rental.Plan)),
		zap.Int("days", days),
		zap.String("total", rental.TotalValue.StringFixed(2)))

	publishEvent(ctx, s.dispatcher, events.NewEvent(events.EventRentalOpened, rental.ID, s.clock.Now(), events.RentalOpenedPayload{
		CourierID:      rental.CourierID,
		VehicleID:      rental.VehicleID,
		Plan:           rental.Plan,
		StartDate:      rental.StartDate,
		ExpectedReturn: rental.ExpectedReturn,
		TotalValue:     rental.TotalValue,
	}))
	return rental, nil
}

// FindRental loads a rental by id.
func (s *RentalService) FindRental(ctx context.Context, id string) (*domain.Rental, error) {
	return s.rentals.GetByID(ctx, strings.TrimSpace(id))
}

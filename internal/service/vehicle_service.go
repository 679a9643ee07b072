package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/motofleet/courier-rental/internal/domain"
	"github.com/motofleet/courier-rental/internal/events"
	"github.com/motofleet/courier-rental/internal/repository"
)

// VehicleService manages the vehicle registry.
type VehicleService struct {
	vehicles   repository.VehicleRepository
	rentals    repository.RentalRepository
	dispatcher events.Dispatcher
	clock      clockwork.Clock
	logger     *zap.Logger
}

// VehicleDependencies bundles collaborators for the vehicle service.
type VehicleDependencies struct {
	VehicleRepo repository.VehicleRepository
	RentalRepo  repository.RentalRepository
	Dispatcher  events.Dispatcher
	Clock       clockwork.Clock
	Logger      *zap.Logger
}

// VehicleRegisterInput describes a new vehicle.
type VehicleRegisterInput struct {
	ID    string
	Year  int
	Model string
	Plate string
}

// NewVehicleService constructs the service.
func NewVehicleService(deps VehicleDependencies) *VehicleService {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VehicleService{
		vehicles:   deps.VehicleRepo,
		rentals:    deps.RentalRepo,
		dispatcher: deps.Dispatcher,
		clock:      clock,
		logger:     logger,
	}
}

// Register stores a new active vehicle and announces it.
func (s *VehicleService) Register(ctx context.Context, input VehicleRegisterInput) (*domain.Vehicle, error) {
	vehicle := &domain.Vehicle{
		ID:     strings.TrimSpace(input.ID),
		Year:   input.Year,
		Model:  strings.TrimSpace(input.Model),
		Plate:  normalizePlate(input.Plate),
		Active: true,
	}
	switch {
	case vehicle.ID == "":
		return nil, fmt.Errorf("%w: identifier is required", domain.ErrValidation)
	case vehicle.Plate == "":
		return nil, fmt.Errorf("%w: plate is required", domain.ErrValidation)
	case vehicle.Year <= 0:
		return nil, fmt.Errorf("%w: year must be positive", domain.ErrValidation)
	}
	if err := s.ensurePlateFree(ctx, vehicle.Plate, vehicle.ID); err != nil {
		return nil, err
	}

	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return nil, err
	}
	s.logger.Info("vehicle registered", zap.String("vehicle_id", vehicle.ID), zap.String("plate", vehicle.Plate))

	publishEvent(ctx, s.dispatcher, events.NewEvent(events.EventVehicleRegistered, vehicle.ID, s.clock.Now(), events.VehicleRegisteredPayload{
		VehicleID: vehicle.ID,
		Year:      vehicle.Year,
		Model:     vehicle.Model,
		Plate:     vehicle.Plate,
	}))
	return vehicle, nil
}

// VehicleListFilter describes listing filters.
type VehicleListFilter struct {
	Plate  string
	Limit  int
	Offset int
}

// List returns active vehicles, optionally only the one carrying filter.Plate.
func (s *VehicleService) List(ctx context.Context, filter VehicleListFilter) ([]domain.Vehicle, error) {
	query := repository.VehicleFilter{Limit: filter.Limit, Offset: filter.Offset}
	if p := normalizePlate(filter.Plate); p != "" {
		query.Plate = &p
	}
	return s.vehicles.List(ctx, query)
}

// Get loads an active vehicle.
func (s *VehicleService) Get(ctx context.Context, id string) (*domain.Vehicle, error) {
	vehicle, err := s.vehicles.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if !vehicle.Active {
		return nil, domain.ErrVehicleNotFound
	}
	return vehicle, nil
}

// UpdatePlate changes the plate of an active vehicle.
func (s *VehicleService) UpdatePlate(ctx context.Context, id, plate string) (*domain.Vehicle, error) {
	plate = normalizePlate(plate)
	if plate == "" {
		return nil, fmt.Errorf("%w: plate is required", domain.ErrValidation)
	}
	vehicle, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if vehicle.Plate == plate {
		return vehicle, nil
	}
	if err := s.ensurePlateFree(ctx, plate, vehicle.ID); err != nil {
		return nil, err
	}
	vehicle.Plate = plate
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return nil, err
	}
	s.logger.Info("vehicle plate updated", zap.String("vehicle_id", vehicle.ID), zap.String("plate", plate))
	return vehicle, nil
}

// Remove deactivates a vehicle that was never rented.
func (s *VehicleService) Remove(ctx context.Context, id string) error {
	vehicle, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	rented, err := s.rentals.ExistsByVehicle(ctx, vehicle.ID)
	if err != nil {
		return err
	}
	if rented {
		return domain.ErrVehicleHasRentals
	}
	vehicle.Active = false
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return err
	}
	s.logger.Info("vehicle removed", zap.String("vehicle_id", vehicle.ID))
	return nil
}

// ensurePlateFree reports which vehicle already carries plate. The store's
// unique index still decides races between concurrent writers.
func (s *VehicleService) ensurePlateFree(ctx context.Context, plate, vehicleID string) error {
	holder, err := s.vehicles.GetActiveByPlate(ctx, plate)
	switch {
	case errors.Is(err, domain.ErrVehicleNotFound):
		return nil
	case err != nil:
		return err
	case holder.ID == vehicleID:
		return nil
	}
	return fmt.Errorf("%w: plate %s is registered to vehicle %s", domain.ErrVehicleAlreadyExists, plate, holder.ID)
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), ""))
}

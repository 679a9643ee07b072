package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/motofleet/courier-rental/internal/domain"
	"github.com/motofleet/courier-rental/internal/repository"
)

// RentalRepository is an in-memory repository.RentalRepository. The open
// rental check and the insert happen under one lock.
type RentalRepository struct {
	mu      sync.RWMutex
	rentals map[string]domain.Rental
}

// NewRentalRepository returns an empty store.
func NewRentalRepository() *RentalRepository {
	return &RentalRepository{rentals: make(map[string]domain.Rental)}
}

var _ repository.RentalRepository = (*RentalRepository)(nil)

func (r *RentalRepository) Create(_ context.Context, rental *domain.Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.openFor(rental.VehicleID) != nil {
		return domain.ErrVehicleUnavailable
	}
	now := time.Now().UTC()
	rental.ID = uuid.NewString()
	rental.ReturnedAt = nil
	rental.CreatedAt = now
	rental.UpdatedAt = now
	r.rentals[rental.ID] = *rental
	return nil
}

func (r *RentalRepository) Update(_ context.Context, rental *domain.Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.rentals[rental.ID]
	if !exists {
		return domain.ErrRentalNotFound
	}
	if !stored.IsOpen() {
		return domain.ErrRentalAlreadySettled
	}
	stored.ReturnedAt = copyTime(rental.ReturnedAt)
	stored.TotalValue = rental.TotalValue
	stored.UpdatedAt = time.Now().UTC()
	r.rentals[rental.ID] = stored
	rental.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *RentalRepository) GetByID(_ context.Context, id string) (*domain.Rental, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rental, exists := r.rentals[id]
	if !exists {
		return nil, domain.ErrRentalNotFound
	}
	rental.ReturnedAt = copyTime(rental.ReturnedAt)
	return &rental, nil
}

func (r *RentalRepository) FindActiveByVehicle(_ context.Context, vehicleID string) (*domain.Rental, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.openFor(vehicleID), nil
}

func (r *RentalRepository) ExistsByVehicle(_ context.Context, vehicleID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rental := range r.rentals {
		if rental.VehicleID == vehicleID {
			return true, nil
		}
	}
	return false, nil
}

func (r *RentalRepository) ListOverdue(_ context.Context, asOf time.Time) ([]domain.Rental, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Rental{}
	for _, rental := range r.rentals {
		if rental.IsOpen() && rental.ExpectedReturn.Before(asOf) {
			out = append(out, rental)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpectedReturn.Before(out[j].ExpectedReturn) })
	return out, nil
}

func (r *RentalRepository) openFor(vehicleID string) *domain.Rental {
	for _, rental := range r.rentals {
		if rental.VehicleID == vehicleID && rental.IsOpen() {
			return &rental
		}
	}
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

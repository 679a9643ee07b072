// Package memory holds process-local repositories used when no Postgres DSN
// is configured and as test doubles for the services.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/motofleet/courier-rental/internal/domain"
	"github.com/motofleet/courier-rental/internal/repository"
)

// VehicleRepository is an in-memory repository.VehicleRepository.
type VehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]domain.Vehicle
}

// NewVehicleRepository returns an empty store.
func NewVehicleRepository() *VehicleRepository {
	return &VehicleRepository{vehicles: make(map[string]domain.Vehicle)}
}

var _ repository.VehicleRepository = (*VehicleRepository)(nil)

func (r *VehicleRepository) Create(_ context.Context, vehicle *domain.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.vehicles[vehicle.ID]; exists {
		return domain.ErrVehicleAlreadyExists
	}
	if vehicle.Active && r.plateTaken(vehicle.Plate, vehicle.ID) {
		return domain.ErrVehicleAlreadyExists
	}
	now := time.Now().UTC()
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now
	r.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (r *VehicleRepository) Update(_ context.Context, vehicle *domain.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.vehicles[vehicle.ID]
	if !exists {
		return domain.ErrVehicleNotFound
	}
	if vehicle.Active && r.plateTaken(vehicle.Plate, vehicle.ID) {
		return domain.ErrVehicleAlreadyExists
	}
	vehicle.CreatedAt = stored.CreatedAt
	vehicle.UpdatedAt = time.Now().UTC()
	r.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (r *VehicleRepository) GetByID(_ context.Context, id string) (*domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vehicle, exists := r.vehicles[id]
	if !exists {
		return nil, domain.ErrVehicleNotFound
	}
	return &vehicle, nil
}

func (r *VehicleRepository) GetActiveByPlate(_ context.Context, plate string) (*domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, vehicle := range r.vehicles {
		if vehicle.Active && vehicle.Plate == plate {
			return &vehicle, nil
		}
	}
	return nil, domain.ErrVehicleNotFound
}

func (r *VehicleRepository) List(_ context.Context, filter repository.VehicleFilter) ([]domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Vehicle{}
	for _, vehicle := range r.vehicles {
		if !filter.IncludeInactive && !vehicle.Active {
			continue
		}
		if filter.Plate != nil && strings.TrimSpace(*filter.Plate) != "" && vehicle.Plate != strings.TrimSpace(*filter.Plate) {
			continue
		}
		out = append(out, vehicle)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *VehicleRepository) plateTaken(plate, exceptID string) bool {
	for id, vehicle := range r.vehicles {
		if id != exceptID && vehicle.Active && vehicle.Plate == plate {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

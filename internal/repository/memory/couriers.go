package memory

import (
	"context"
	"sync"
	"time"

	"github.com/motofleet/courier-rental/internal/domain"
	"github.com/motofleet/courier-rental/internal/repository"
)

// CourierRepository is an in-memory repository.CourierRepository.
type CourierRepository struct {
	mu       sync.RWMutex
	couriers map[string]domain.Courier
}

// NewCourierRepository returns an empty store.
func NewCourierRepository() *CourierRepository {
	return &CourierRepository{couriers: make(map[string]domain.Courier)}
}

var _ repository.CourierRepository = (*CourierRepository)(nil)

func (r *CourierRepository) Create(_ context.Context, courier *domain.Courier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.couriers {
		if id == courier.ID || existing.TaxID == courier.TaxID || existing.LicenseNumber == courier.LicenseNumber {
			return domain.ErrCourierAlreadyExists
		}
	}
	courier.CreatedAt = time.Now().UTC()
	r.couriers[courier.ID] = *courier
	return nil
}

func (r *CourierRepository) GetByID(_ context.Context, id string) (*domain.Courier, error) {
	return r.find(func(c domain.Courier) bool { return c.ID == id })
}

func (r *CourierRepository) GetByTaxID(_ context.Context, taxID string) (*domain.Courier, error) {
	return r.find(func(c domain.Courier) bool { return c.TaxID == taxID })
}

func (r *CourierRepository) GetByLicenseNumber(_ context.Context, number string) (*domain.Courier, error) {
	return r.find(func(c domain.Courier) bool { return c.LicenseNumber == number })
}

func (r *CourierRepository) find(match func(domain.Courier) bool) (*domain.Courier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, courier := range r.couriers {
		if match(courier) {
			return &courier, nil
		}
	}
	return nil, domain.ErrCourierNotFound
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/motofleet/courier-rental/internal/domain"
	"github.com/motofleet/courier-rental/internal/repository"
)

// CourierService onboards couriers.
type CourierService struct {
	couriers repository.CourierRepository
	logger   *zap.Logger
}

// CourierRegisterInput describes a courier signing up.
type CourierRegisterInput struct {
	ID            string
	Name          string
	TaxID         string
	BirthDate     time.Time
	LicenseNumber string
	LicenseType   domain.LicenseType
}

// NewCourierService constructs the service.
func NewCourierService(couriers repository.CourierRepository, logger *zap.Logger) *CourierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourierService{couriers: couriers, logger: logger}
}

// Register stores a courier whose tax id and license number are both unused.
func (s *CourierService) Register(ctx context.Context, input CourierRegisterInput) (*domain.Courier, error) {
	courier := &domain.Courier{
		ID:            strings.TrimSpace(input.ID),
		Name:          strings.TrimSpace(input.Name),
		TaxID:         digitsOnly(input.TaxID),
		BirthDate:     input.BirthDate,
		LicenseNumber: strings.TrimSpace(input.LicenseNumber),
		LicenseType:   domain.LicenseType(strings.ToUpper(strings.TrimSpace(string(input.LicenseType)))),
	}
	switch {
	case courier.ID == "":
		return nil, fmt.Errorf("%w: identifier is required", domain.ErrValidation)
	case courier.Name == "":
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	case courier.TaxID == "":
		return nil, fmt.Errorf("%w: tax id is required", domain.ErrValidation)
	case courier.LicenseNumber == "":
		return nil, fmt.Errorf("%w: license number is required", domain.ErrValidation)
	case courier.BirthDate.IsZero():
		return nil, fmt.Errorf("%w: birth date is required", domain.ErrValidation)
	case !courier.LicenseType.Valid():
		return nil, fmt.Errorf("%w: license type must be A, B or A+B", domain.ErrValidation)
	}

	if err := s.ensureUnused(ctx, courier); err != nil {
		return nil, err
	}
	if err := s.couriers.Create(ctx, courier); err != nil {
		return nil, err
	}
	s.logger.Info("courier registered",
		zap.String("courier_id", courier.ID),
		zap.String("license_type", string(courier.LicenseType)))
	return courier, nil
}

// Get loads a courier by id.
func (s *CourierService) Get(ctx context.Context, id string) (*domain.Courier, error) {
	return s.couriers.GetByID(ctx, strings.TrimSpace(id))
}

func (s *CourierService) ensureUnused(ctx context.Context, courier *domain.Courier) error {
	if _, err := s.couriers.GetByTaxID(ctx, courier.TaxID); err == nil {
		return fmt.Errorf("%w: tax id %s", domain.ErrCourierAlreadyExists, courier.TaxID)
	} else if !errors.Is(err, domain.ErrCourierNotFound) {
		return err
	}
	if _, err := s.couriers.GetByLicenseNumber(ctx, courier.LicenseNumber); err == nil {
		return fmt.Errorf("%w: license number %s", domain.ErrCourierAlreadyExists, courier.LicenseNumber)
	} else if !errors.Is(err, domain.ErrCourierNotFound) {
		return err
	}
	return nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

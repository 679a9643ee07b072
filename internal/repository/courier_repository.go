package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/motofleet/courier-rental/internal/domain"
)

// CourierRepository defines persistence access for couriers.
type CourierRepository interface {
	Create(ctx context.Context, courier *domain.Courier) error
	GetByID(ctx context.Context, id string) (*domain.Courier, error)
	GetByTaxID(ctx context.Context, taxID string) (*domain.Courier, error)
	GetByLicenseNumber(ctx context.Context, number string) (*domain.Courier, error)
}

type courierRepository struct {
	pool DB
}

// NewCourierRepository returns a Postgres-backed implementation.
func NewCourierRepository(pool DB) CourierRepository {
	return &courierRepository{pool: pool}
}

func (r *courierRepository) Create(ctx context.Context, courier *domain.Courier) error {
	const query = `
        INSERT INTO couriers (id, name, tax_id, birth_date, license_number, license_type, license_image)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at`
	err := r.pool.QueryRow(ctx, query,
		courier.ID,
		courier.Name,
		courier.TaxID,
		courier.BirthDate,
		courier.LicenseNumber,
		courier.LicenseType,
		courier.LicenseImage,
	).Scan(&courier.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrCourierAlreadyExists
	}
	return err
}

func (r *courierRepository) GetByID(ctx context.Context, id string) (*domain.Courier, error) {
	return r.fetchSingle(ctx, `WHERE id=$1`, id)
}

func (r *courierRepository) GetByTaxID(ctx context.Context, taxID string) (*domain.Courier, error) {
	return r.fetchSingle(ctx, `WHERE tax_id=$1`, taxID)
}

func (r *courierRepository) GetByLicenseNumber(ctx context.Context, number string) (*domain.Courier, error) {
	return r.fetchSingle(ctx, `WHERE license_number=$1`, number)
}

func (r *courierRepository) fetchSingle(ctx context.Context, where string, arg any) (*domain.Courier, error) {
	query := `
        SELECT id, name, tax_id, birth_date, license_number, license_type, license_image, created_at
        FROM couriers ` + where

	var courier domain.Courier
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&courier.ID,
		&courier.Name,
		&courier.TaxID,
		&courier.BirthDate,
		&courier.LicenseNumber,
		&courier.LicenseType,
		&courier.LicenseImage,
		&courier.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCourierNotFound
		}
		return nil, err
	}
	return &courier, nil
}

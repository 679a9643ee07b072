package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/motofleet/courier-rental/internal/domain"
)

const (
	rentalOpenVehicleIndex = "rentals_vehicle_open_key"
	rentalVehicleFK        = "rentals_vehicle_id_fkey"
	rentalCourierFK        = "rentals_courier_id_fkey"
)

// RentalRepository encapsulates rental persistence.
//
// Create must refuse a second open rental for the same vehicle with
// domain.ErrVehicleUnavailable, and Update must refuse to rewrite a settled
// rental with domain.ErrRentalAlreadySettled. Both checks happen in the
// store, atomically with the write.
type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	Update(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	FindActiveByVehicle(ctx context.Context, vehicleID string) (*domain.Rental, error)
	ExistsByVehicle(ctx context.Context, vehicleID string) (bool, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error)
}

type rentalRepository struct {
	pool DB
}

// NewRentalRepository instantiates repository.
func NewRentalRepository(pool DB) RentalRepository {
	return &rentalRepository{pool: pool}
}

const rentalColumns = `id::text, courier_id, vehicle_id, plan, start_date, expected_return, returned_at,
               total_value::text, created_at, updated_at`

func (r *rentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	const query = `
        INSERT INTO rentals (courier_id, vehicle_id, plan, start_date, expected_return, total_value)
        VALUES ($1,$2,$3,$4,$5,$6::numeric)
        RETURNING id::text, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		rental.CourierID,
		rental.VehicleID,
		int(rental.Plan),
		rental.StartDate,
		rental.ExpectedReturn,
		rental.TotalValue.StringFixed(2),
	).Scan(&rental.ID, &rental.CreatedAt, &rental.UpdatedAt)
	if err == nil {
		return nil
	}

	code, constraint, ok := pgErrorCode(err)
	switch {
	case ok && code == pgUniqueViolation && constraint == rentalOpenVehicleIndex:
		return domain.ErrVehicleUnavailable
	case ok && code == pgForeignKeyViolation && constraint == rentalVehicleFK:
		return domain.ErrVehicleNotFound
	case ok && code == pgForeignKeyViolation && constraint == rentalCourierFK:
		return domain.ErrCourierNotFound
	}
	return err
}

func (r *rentalRepository) Update(ctx context.Context, rental *domain.Rental) error {
	const query = `
        UPDATE rentals SET returned_at=$1, total_value=$2::numeric, updated_at=NOW()
        WHERE id::text=$3 AND returned_at IS NULL
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		rental.ReturnedAt,
		rental.TotalValue.StringFixed(2),
		rental.ID,
	).Scan(&rental.UpdatedAt)
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var settled bool
	if err := r.pool.QueryRow(ctx, `SELECT returned_at IS NOT NULL FROM rentals WHERE id::text=$1`, rental.ID).Scan(&settled); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRentalNotFound
		}
		return err
	}
	if settled {
		return domain.ErrRentalAlreadySettled
	}
	return pgx.ErrNoRows
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id::text=$1`
	rental, err := scanRental(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRentalNotFound
	}
	return rental, err
}

// FindActiveByVehicle returns (nil, nil) when the vehicle has no open rental.
func (r *rentalRepository) FindActiveByVehicle(ctx context.Context, vehicleID string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE vehicle_id=$1 AND returned_at IS NULL`
	rental, err := scanRental(r.pool.QueryRow(ctx, query, vehicleID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return rental, err
}

func (r *rentalRepository) ExistsByVehicle(ctx context.Context, vehicleID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rentals WHERE vehicle_id=$1)`, vehicleID).Scan(&exists)
	return exists, err
}

func (r *rentalRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + `
             FROM rentals WHERE returned_at IS NULL AND expected_return < $1
             ORDER BY expected_return`
	rows, err := r.pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rentals := []domain.Rental{}
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rental)
	}
	return rentals, rows.Err()
}

func scanRental(row pgx.Row) (*domain.Rental, error) {
	var (
		rental domain.Rental
		plan   int
		total  string
	)
	if err := row.Scan(
		&rental.ID,
		&rental.CourierID,
		&rental.VehicleID,
		&plan,
		&rental.StartDate,
		&rental.ExpectedReturn,
		&rental.ReturnedAt,
		&total,
		&rental.CreatedAt,
		&rental.UpdatedAt,
	); err != nil {
		return nil, err
	}
	value, err := decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	rental.Plan = domain.RentalPlan(plan)
	rental.TotalValue = value
	return &rental, nil
}

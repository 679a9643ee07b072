package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/motofleet/courier-rental/internal/domain"
)

// VehicleFilter narrows vehicle listings.
type VehicleFilter struct {
	Plate           *string
	IncludeInactive bool
	Limit           int
	Offset          int
}

// VehicleRepository encapsulates vehicle persistence.
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	Update(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)
	GetActiveByPlate(ctx context.Context, plate string) (*domain.Vehicle, error)
	List(ctx context.Context, filter VehicleFilter) ([]domain.Vehicle, error)
}

type vehicleRepository struct {
	pool DB
}

// NewVehicleRepository returns a Postgres-backed implementation.
func NewVehicleRepository(pool DB) VehicleRepository {
	return &vehicleRepository{pool: pool}
}

const vehicleColumns = `id, year, model, plate, active, created_at, updated_at`

func (r *vehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	const query = `
        INSERT INTO vehicles (id, year, model, plate, active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		vehicle.ID,
		vehicle.Year,
		vehicle.Model,
		vehicle.Plate,
		vehicle.Active,
	).Scan(&vehicle.CreatedAt, &vehicle.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrVehicleAlreadyExists
	}
	return err
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	const query = `
        UPDATE vehicles SET year=$1, model=$2, plate=$3, active=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		vehicle.Year,
		vehicle.Model,
		vehicle.Plate,
		vehicle.Active,
		vehicle.ID,
	).Scan(&vehicle.UpdatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return domain.ErrVehicleNotFound
	case isUniqueViolation(err):
		return domain.ErrVehicleAlreadyExists
	}
	return err
}

func (r *vehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *vehicleRepository) GetActiveByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE plate=$1 AND active`
	return r.fetchSingle(ctx, query, plate)
}

func (r *vehicleRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Vehicle, error) {
	vehicle, err := scanVehicle(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrVehicleNotFound
	}
	return vehicle, err
}

func (r *vehicleRepository) List(ctx context.Context, filter VehicleFilter) ([]domain.Vehicle, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if !filter.IncludeInactive {
		clauses = append(clauses, "active")
	}
	if filter.Plate != nil && strings.TrimSpace(*filter.Plate) != "" {
		args = append(args, strings.TrimSpace(*filter.Plate))
		clauses = append(clauses, fmt.Sprintf("plate=$%d", len(args)))
	}

	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY created_at`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *vehicle)
	}
	return vehicles, rows.Err()
}

func scanVehicle(row pgx.Row) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	if err := row.Scan(
		&vehicle.ID,
		&vehicle.Year,
		&vehicle.Model,
		&vehicle.Plate,
		&vehicle.Active,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

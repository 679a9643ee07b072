package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motofleet/courier-rental/internal/domain"
)

var (
	start = time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	end   = start.AddDate(0, 0, 7)
)

func newMockDB(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func openRental() *domain.Rental {
	return &domain.Rental{
		CourierID:      "courier-1",
		VehicleID:      "moto-1",
		Plan:           domain.Plan7Days,
		StartDate:      start,
		ExpectedReturn: end,
		TotalValue:     decimal.RequireFromString("210"),
	}
}

func rentalRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "courier_id", "vehicle_id", "plan", "start_date", "expected_return", "returned_at",
		"total_value", "created_at", "updated_at",
	})
}

func TestRentalRepository_CreateReturnsGeneratedID(t *testing.T) {
	mock := newMockDB(t)
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO rentals").
		WithArgs("courier-1", "moto-1", 7, start, end, "210.00").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("r-1", created, created))

	rental := openRental()
	require.NoError(t, NewRentalRepository(mock).Create(context.Background(), rental))

	assert.Equal(t, "r-1", rental.ID)
	assert.Equal(t, created, rental.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_CreateMapsConstraintViolations(t *testing.T) {
	otherUnique := &pgconn.PgError{Code: "23505", ConstraintName: "rentals_pkey"}
	connErr := errors.New("connection reset")

	tests := []struct {
		name     string
		dbErr    error
		expected error
	}{
		{"second open rental for vehicle", &pgconn.PgError{Code: "23505", ConstraintName: "rentals_vehicle_open_key"}, domain.ErrVehicleUnavailable},
		{"unknown vehicle", &pgconn.PgError{Code: "23503", ConstraintName: "rentals_vehicle_id_fkey"}, domain.ErrVehicleNotFound},
		{"unknown courier", &pgconn.PgError{Code: "23503", ConstraintName: "rentals_courier_id_fkey"}, domain.ErrCourierNotFound},
		{"other unique violation", otherUnique, otherUnique},
		{"driver failure", connErr, connErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockDB(t)
			mock.ExpectQuery("INSERT INTO rentals").
				WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
				WillReturnError(tt.dbErr)

			rental := openRental()
			err := NewRentalRepository(mock).Create(context.Background(), rental)

			assert.ErrorIs(t, err, tt.expected)
			assert.Empty(t, rental.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRentalRepository_UpdateSettlesOpenRental(t *testing.T) {
	mock := newMockDB(t)
	returned := end.AddDate(0, 0, -2)
	updated := time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("UPDATE rentals SET returned_at").
		WithArgs(pgxmock.AnyArg(), "174.00", "r-1").
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(updated))

	rental := openRental()
	rental.ID = "r-1"
	rental.ReturnedAt = &returned
	rental.TotalValue = decimal.RequireFromString("174")
	require.NoError(t, NewRentalRepository(mock).Update(context.Background(), rental))

	assert.Equal(t, updated, rental.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_UpdateWithoutMatchingOpenRow(t *testing.T) {
	tests := []struct {
		name     string
		lookup   *pgxmock.Rows
		expected error
	}{
		{"already settled", pgxmock.NewRows([]string{"settled"}).AddRow(true), domain.ErrRentalAlreadySettled},
		{"missing rental", pgxmock.NewRows([]string{"settled"}), domain.ErrRentalNotFound},
		{"still open", pgxmock.NewRows([]string{"settled"}).AddRow(false), pgx.ErrNoRows},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockDB(t)
			mock.ExpectQuery("UPDATE rentals SET returned_at").
				WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "r-1").
				WillReturnRows(pgxmock.NewRows([]string{"updated_at"}))
			mock.ExpectQuery("SELECT returned_at IS NOT NULL FROM rentals").
				WithArgs("r-1").
				WillReturnRows(tt.lookup)

			rental := openRental()
			rental.ID = "r-1"
			returned := end
			rental.ReturnedAt = &returned

			err := NewRentalRepository(mock).Update(context.Background(), rental)
			assert.ErrorIs(t, err, tt.expected)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRentalRepository_UpdatePropagatesDriverErrors(t *testing.T) {
	mock := newMockDB(t)
	connErr := errors.New("connection reset")
	mock.ExpectQuery("UPDATE rentals SET returned_at").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "r-1").
		WillReturnError(connErr)

	rental := openRental()
	rental.ID = "r-1"
	err := NewRentalRepository(mock).Update(context.Background(), rental)

	assert.ErrorIs(t, err, connErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_GetByID(t *testing.T) {
	mock := newMockDB(t)
	returned := end
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM rentals WHERE id").
		WithArgs("r-1").
		WillReturnRows(rentalRows().AddRow("r-1", "courier-1", "moto-1", 15, start, end, &returned, "420.00", created, created))
	mock.ExpectQuery("FROM rentals WHERE id").
		WithArgs("r-404").
		WillReturnRows(rentalRows())

	repo := NewRentalRepository(mock)
	rental, err := repo.GetByID(context.Background(), "r-1")
	require.NoError(t, err)
	assert.Equal(t, domain.Plan15Days, rental.Plan)
	assert.True(t, decimal.RequireFromString("420").Equal(rental.TotalValue))
	require.NotNil(t, rental.ReturnedAt)
	assert.Equal(t, domain.RentalStatusSettled, rental.Status())

	_, err = repo.GetByID(context.Background(), "r-404")
	assert.ErrorIs(t, err, domain.ErrRentalNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_FindActiveByVehicleNone(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery("WHERE vehicle_id=.+ AND returned_at IS NULL").
		WithArgs("moto-1").
		WillReturnRows(rentalRows())

	rental, err := NewRentalRepository(mock).FindActiveByVehicle(context.Background(), "moto-1")
	require.NoError(t, err)
	assert.Nil(t, rental)
	require.NoError(t, mock.ExpectationsWereMet())
}

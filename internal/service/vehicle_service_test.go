package service

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motofleet/courier-rental/internal/domain"
	"github.com/motofleet/courier-rental/internal/events"
	"github.com/motofleet/courier-rental/internal/repository/memory"
)

func newVehicleService() (*VehicleService, *memory.RentalRepository, *recordingDispatcher) {
	rentals := memory.NewRentalRepository()
	dispatcher := newRecordingDispatcher()
	svc := NewVehicleService(VehicleDependencies{
		VehicleRepo: memory.NewVehicleRepository(),
		RentalRepo:  rentals,
		Dispatcher:  dispatcher,
		Clock:       clockwork.NewFakeClockAt(now),
	})
	return svc, rentals, dispatcher
}

func TestVehicleService_Register(t *testing.T) {
	svc, _, dispatcher := newVehicleService()
	ctx := context.Background()

	vehicle, err := svc.Register(ctx, VehicleRegisterInput{ID: "moto-1", Year: 2024, Model: "Mottu Sport", Plate: " abc 1d23 "})
	require.NoError(t, err)
	assert.Equal(t, "ABC1D23", vehicle.Plate)
	assert.True(t, vehicle.Active)

	registered := dispatcher.ofType(events.EventVehicleRegistered)
	require.Len(t, registered, 1)
	assert.Equal(t, events.VehicleRegisteredPayload{VehicleID: "moto-1", Year: 2024, Model: "Mottu Sport", Plate: "ABC1D23"}, registered[0].Payload)

	_, err = svc.Register(ctx, VehicleRegisterInput{ID: "moto-1", Year: 2022, Model: "CG", Plate: "XYZ9A99"})
	assert.ErrorIs(t, err, domain.ErrVehicleAlreadyExists)

	_, err = svc.Register(ctx, VehicleRegisterInput{ID: "moto-2", Year: 2022, Model: "CG", Plate: "abc1d23"})
	assert.ErrorIs(t, err, domain.ErrVehicleAlreadyExists)
	assert.ErrorContains(t, err, "plate ABC1D23 is registered to vehicle moto-1")
	assert.Len(t, dispatcher.ofType(events.EventVehicleRegistered), 1)
}

func TestVehicleService_RegisterValidation(t *testing.T) {
	svc, _, _ := newVehicleService()
	for _, input := range []VehicleRegisterInput{
		{ID: "", Year: 2024, Model: "CG", Plate: "ABC1D23"},
		{ID: "moto-1", Year: 2024, Model: "CG", Plate: "  "},
		{ID: "moto-1", Year: 0, Model: "CG", Plate: "ABC1D23"},
	} {
		_, err := svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestVehicleService_ListAndGet(t *testing.T) {
	svc, _, _ := newVehicleService()
	ctx := context.Background()
	for _, in := range []VehicleRegisterInput{
		{ID: "moto-1", Year: 2023, Model: "CG", Plate: "AAA1A11"},
		{ID: "moto-2", Year: 2024, Model: "Pop", Plate: "BBB2B22"},
	} {
		_, err := svc.Register(ctx, in)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, VehicleListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.List(ctx, VehicleListFilter{Plate: "bbb2b22"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "moto-2", filtered[0].ID)

	page, err := svc.List(ctx, VehicleListFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)

	got, err := svc.Get(ctx, "moto-1")
	require.NoError(t, err)
	assert.Equal(t, "AAA1A11", got.Plate)

	_, err = svc.Get(ctx, "moto-9")
	assert.ErrorIs(t, err, domain.ErrVehicleNotFound)
}

func TestVehicleService_UpdatePlate(t *testing.T) {
	svc, _, _ := newVehicleService()
	ctx := context.Background()
	_, err := svc.Register(ctx, VehicleRegisterInput{ID: "moto-1", Year: 2023, Model: "CG", Plate: "AAA1A11"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, VehicleRegisterInput{ID: "moto-2", Year: 2023, Model: "CG", Plate: "BBB2B22"})
	require.NoError(t, err)

	updated, err := svc.UpdatePlate(ctx, "moto-1", "ccc3c33")
	require.NoError(t, err)
	assert.Equal(t, "CCC3C33", updated.Plate)

	_, err = svc.UpdatePlate(ctx, "moto-1", "BBB2B22")
	assert.ErrorIs(t, err, domain.ErrVehicleAlreadyExists)
	assert.ErrorContains(t, err, "plate BBB2B22 is registered to vehicle moto-2")

	_, err = svc.UpdatePlate(ctx, "moto-1", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdatePlate(ctx, "ghost", "DDD4D44")
	assert.ErrorIs(t, err, domain.ErrVehicleNotFound)
}

func TestVehicleService_Remove(t *testing.T) {
	svc, rentals, _ := newVehicleService()
	ctx := context.Background()
	for _, id := range []string{"moto-1", "moto-2"} {
		_, err := svc.Register(ctx, VehicleRegisterInput{ID: id, Year: 2023, Model: "CG", Plate: "PLT-" + id})
		require.NoError(t, err)
	}
	require.NoError(t, rentals.Create(ctx, &domain.Rental{
		CourierID: "courier-1", VehicleID: "moto-2", Plan: domain.Plan7Days,
		StartDate: now, ExpectedReturn: now.Add(7 * 24 * time.Hour),
	}))

	require.NoError(t, svc.Remove(ctx, "moto-1"))
	_, err := svc.Get(ctx, "moto-1")
	assert.ErrorIs(t, err, domain.ErrVehicleNotFound)
	assert.ErrorIs(t, svc.Remove(ctx, "moto-1"), domain.ErrVehicleNotFound)

	assert.ErrorIs(t, svc.Remove(ctx, "moto-2"), domain.ErrVehicleHasRentals)

	// the plate of a removed vehicle can be reused
	_, err = svc.Register(ctx, VehicleRegisterInput{ID: "moto-3", Year: 2024, Model: "CG", Plate: "PLT-MOTO-1"})
	assert.NoError(t, err)
}

func TestVehicleService_PlateFreedByRemoval(t *testing.T) {
	svc, _, _ := newVehicleService()
	ctx := context.Background()
	_, err := svc.Register(ctx, VehicleRegisterInput{ID: "moto-1", Year: 2023, Model: "CG", Plate: "AAA1A11"})
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, "moto-1"))

	vehicle, err := svc.Register(ctx, VehicleRegisterInput{ID: "moto-2", Year: 2024, Model: "CG", Plate: "AAA1A11"})
	require.NoError(t, err)
	assert.Equal(t, "AAA1A11", vehicle.Plate)
}

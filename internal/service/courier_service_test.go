package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/motofleet/courier-rental/internal/domain"
	"github.com/motofleet/courier-rental/internal/repository/memory"
)

func validCourierInput() CourierRegisterInput {
	return CourierRegisterInput{
		ID:            "courier-1",
		Name:          "Ana Souza",
		TaxID:         "11.222.333/0001-44",
		BirthDate:     time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC),
		LicenseNumber: "CNH123",
		LicenseType:   "a+b",
	}
}

func TestCourierService_Register(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc := NewCourierService(memory.NewCourierRepository(), zap.New(core))
	ctx := context.Background()

	courier, err := svc.Register(ctx, validCourierInput())
	require.NoError(t, err)
	assert.Equal(t, "11222333000144", courier.TaxID)
	assert.Equal(t, domain.LicenseTypeAB, courier.LicenseType)

	registered := logs.FilterMessage("courier registered").All()
	require.Len(t, registered, 1)
	assert.Equal(t, "courier-1", registered[0].ContextMap()["courier_id"])
	assert.Equal(t, "A+B", registered[0].ContextMap()["license_type"])

	got, err := svc.Get(ctx, "courier-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", got.Name)

	_, err = svc.Get(ctx, "courier-9")
	assert.ErrorIs(t, err, domain.ErrCourierNotFound)
}

func TestCourierService_RegisterDuplicates(t *testing.T) {
	svc := NewCourierService(memory.NewCourierRepository(), nil)
	ctx := context.Background()
	_, err := svc.Register(ctx, validCourierInput())
	require.NoError(t, err)

	sameTaxID := validCourierInput()
	sameTaxID.ID, sameTaxID.LicenseNumber = "courier-2", "CNH999"
	_, err = svc.Register(ctx, sameTaxID)
	assert.ErrorIs(t, err, domain.ErrCourierAlreadyExists)
	assert.Contains(t, err.Error(), "tax id")

	sameLicense := validCourierInput()
	sameLicense.ID, sameLicense.TaxID = "courier-3", "99888777000166"
	_, err = svc.Register(ctx, sameLicense)
	assert.ErrorIs(t, err, domain.ErrCourierAlreadyExists)
	assert.Contains(t, err.Error(), "license number")
}

func TestCourierService_RegisterValidation(t *testing.T) {
	svc := NewCourierService(memory.NewCourierRepository(), nil)

	mutations := map[string]func(*CourierRegisterInput){
		"missing id":         func(in *CourierRegisterInput) { in.ID = "" },
		"missing name":       func(in *CourierRegisterInput) { in.Name = " " },
		"tax id w/o digits":  func(in *CourierRegisterInput) { in.TaxID = "abc" },
		"missing license":    func(in *CourierRegisterInput) { in.LicenseNumber = "" },
		"missing birth date": func(in *CourierRegisterInput) { in.BirthDate = time.Time{} },
		"license type C":     func(in *CourierRegisterInput) { in.LicenseType = "C" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			input := validCourierInput()
			mutate(&input)
			_, err := svc.Register(context.Background(), input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

package domain

import "errors"

var (
	ErrValidation           = errors.New("validation failed")
	ErrInvalidPlan          = errors.New("invalid rental plan")
	ErrInvalidDateRange     = errors.New("invalid rental date range")
	ErrVehicleNotFound      = errors.New("vehicle not found")
	ErrVehicleAlreadyExists = errors.New("vehicle identifier or plate already registered")
	ErrVehicleHasRentals    = errors.New("vehicle has rental history")
	ErrVehicleUnavailable   = errors.New("vehicle already has an open rental")
	ErrCourierNotFound      = errors.New("courier not found")
	ErrCourierAlreadyExists = errors.New("courier tax id or license number already registered")
	ErrRentalNotFound       = errors.New("rental not found")
	ErrRentalAlreadySettled = errors.New("rental already settled")
)

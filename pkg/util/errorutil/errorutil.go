package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/motofleet/courier-rental/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return &DomainError{
		Code:       "VALIDATION_FAILED",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
		Err:        domain.ErrValidation,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewInternalError(err error) *DomainError {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

type sentinel struct {
	err    error
	code   string
	status int
}

var sentinels = []sentinel{
	{domain.ErrInvalidPlan, "INVALID_PLAN", http.StatusBadRequest},
	{domain.ErrInvalidDateRange, "INVALID_DATE_RANGE", http.StatusBadRequest},
	{domain.ErrValidation, "VALIDATION_FAILED", http.StatusBadRequest},
	{domain.ErrVehicleNotFound, "VEHICLE_NOT_FOUND", http.StatusNotFound},
	{domain.ErrCourierNotFound, "COURIER_NOT_FOUND", http.StatusNotFound},
	{domain.ErrRentalNotFound, "RENTAL_NOT_FOUND", http.StatusNotFound},
	{domain.ErrVehicleAlreadyExists, "VEHICLE_ALREADY_EXISTS", http.StatusConflict},
	{domain.ErrVehicleHasRentals, "VEHICLE_HAS_RENTALS", http.StatusConflict},
	{domain.ErrVehicleUnavailable, "VEHICLE_UNAVAILABLE", http.StatusConflict},
	{domain.ErrCourierAlreadyExists, "COURIER_ALREADY_EXISTS", http.StatusConflict},
	{domain.ErrRentalAlreadySettled, "RENTAL_ALREADY_SETTLED", http.StatusConflict},
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return &DomainError{
				Code:       s.code,
				Message:    err.Error(),
				HTTPStatus: s.status,
				Err:        err,
			}
		}
	}
	return NewInternalError(err)
}

func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

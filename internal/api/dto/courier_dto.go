package dto

import (
	"time"

	"github.com/motofleet/courier-rental/internal/domain"
)

// RegisterCourierRequest payload.
type RegisterCourierRequest struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	TaxID         string             `json:"tax_id"`
	BirthDate     Date               `json:"birth_date"`
	LicenseNumber string             `json:"license_number"`
	LicenseType   domain.LicenseType `json:"license_type"`
}

// CourierResponse representation.
type CourierResponse struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	TaxID         string             `json:"tax_id"`
	BirthDate     string             `json:"birth_date"`
	LicenseNumber string             `json:"license_number"`
	LicenseType   domain.LicenseType `json:"license_type"`
	CreatedAt     time.Time          `json:"created_at"`
}

package domain

import "time"

// LicenseType enumerates driver license categories accepted at onboarding.
type LicenseType string

const (
	LicenseTypeA  LicenseType = "A"
	LicenseTypeB  LicenseType = "B"
	LicenseTypeAB LicenseType = "A+B"
)

// Valid reports whether the license category is supported.
func (l LicenseType) Valid() bool {
	switch l {
	case LicenseTypeA, LicenseTypeB, LicenseTypeAB:
		return true
	}
	return false
}

// Courier is a delivery person who rents vehicles.
type Courier struct {
	ID            string
	Name          string
	TaxID         string
	BirthDate     time.Time
	LicenseNumber string
	LicenseType   LicenseType
	LicenseImage  string
	CreatedAt     time.Time
}

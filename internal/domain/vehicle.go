package domain

import "time"

// Vehicle is a motorcycle available for rent to couriers.
type Vehicle struct {
	ID        string
	Year      int
	Model     string
	Plate     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

package dto

import "time"

// RegisterVehicleRequest payload.
type RegisterVehicleRequest struct {
	ID    string `json:"id"`
	Year  int    `json:"year"`
	Model string `json:"model"`
	Plate string `json:"plate"`
}

// UpdatePlateRequest payload.
type UpdatePlateRequest struct {
	Plate string `json:"plate"`
}

// VehicleResponse representation.
type VehicleResponse struct {
	ID        string    `json:"id"`
	Year      int       `json:"year"`
	Model     string    `json:"model"`
	Plate     string    `json:"plate"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

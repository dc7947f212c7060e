package dto

import "time"

// CreateIdentityRequest registers a new account.
type CreateIdentityRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// SetBoundaryRequest replaces the active geofence.
type SetBoundaryRequest struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	RadiusM float64 `json:"radius_m"`
}

// BoundaryResponse describes the active geofence.
type BoundaryResponse struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	RadiusM   float64   `json:"radius_m"`
	UpdatedAt time.Time `json:"updated_at"`
}

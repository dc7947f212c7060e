package domain

import "time"

// Boundary is the single active circular geofence. At most one exists
// system-wide; replacing it is an atomic swap.
type Boundary struct {
	Lat       float64
	Lon       float64
	RadiusM   float64
	UpdatedAt time.Time
}

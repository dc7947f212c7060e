package dto

import "time"

// FileResponse is the listing shape for a stored file.
type FileResponse struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Active    bool      `json:"active"`
	MinRole   *string   `json:"min_role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FileAccessRequest carries the caller's claimed location.
type FileAccessRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// ChangeFileAccessRequest updates the minimum role for a file.
type ChangeFileAccessRequest struct {
	MinRole string `json:"min_role"`
}

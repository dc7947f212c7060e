package dto

import "time"

// OtpRequest asks for a passcode to be issued.
type OtpRequest struct {
	Email string `json:"email"`
}

// OtpVerifyRequest carries the candidate passcode.
type OtpVerifyRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

// AuthResponse standard response for successful verification.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProfileResponse describes the session identity.
type ProfileResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

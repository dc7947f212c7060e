package events

import (
	"time"

	"github.com/geosecure/geosecure-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOtpIssued        EventType = "otp_issued"
	EventOtpVerified      EventType = "otp_verified"
	EventBoundaryReplaced EventType = "boundary_replaced"
	EventFileUploaded     EventType = "file_uploaded"
	EventFileDisabled     EventType = "file_disabled"
	EventAccessDecided    EventType = "access_decided"
)

// Event represents a domain event emitted by services. ActorEmail is the
// normalized email of the identity that triggered it.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ActorEmail string      `json:"actor_email"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// OtpIssuedPayload payload. The passcode itself never appears in events.
type OtpIssuedPayload struct {
	ExpiresAt time.Time `json:"expires_at"`
	Delivered bool      `json:"delivered"`
}

// OtpVerifiedPayload payload.
type OtpVerifiedPayload struct {
	Role domain.Role `json:"role"`
}

// BoundaryReplacedPayload payload.
type BoundaryReplacedPayload struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	RadiusM float64 `json:"radius_m"`
}

// FileUploadedPayload payload.
type FileUploadedPayload struct {
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
}

// FileDisabledPayload payload.
type FileDisabledPayload struct {
	FileID string `json:"file_id"`
}

// AccessDecidedPayload payload. Reason is empty when access was granted.
type AccessDecidedPayload struct {
	FileID  string `json:"file_id"`
	Granted bool   `json:"granted"`
	Reason  string `json:"reason,omitempty"`
}

package domain

import "time"

// OtpRecord is one issued passcode. The plaintext code is never stored; only
// the salted HMAC survives. A record is consumed exactly once (used flips
// true irreversibly) and becomes superseded when a newer code is issued for
// the same identity.
type OtpRecord struct {
	ID         string
	Email      string
	Hash       string
	Salt       string
	ExpiresAt  time.Time
	Used       bool
	Superseded bool
	CreatedAt  time.Time
}

// Expired reports whether the record can no longer be verified at the given
// instant.
func (o *OtpRecord) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

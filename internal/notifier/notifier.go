package notifier

import "context"

// Notifier is the injected capability that delivers the plaintext passcode
// out-of-band. A delivery failure does not roll back the issued record.
type Notifier interface {
	SendOtp(ctx context.Context, email, passcode string) error
}

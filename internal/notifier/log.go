package notifier

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes passcodes to the log instead of delivering them.
// Development use only.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier constructs the notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// SendOtp logs the passcode.
func (n *LogNotifier) SendOtp(_ context.Context, email, passcode string) error {
	n.logger.Info("otp issued (log notifier)",
		zap.String("email", email),
		zap.String("passcode", passcode))
	return nil
}

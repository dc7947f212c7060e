package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/geosecure/geosecure-service/internal/events"
)

// AuditService logs security-relevant domain events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventOtpIssued, a.handle)
	a.dispatcher.Subscribe(events.EventOtpVerified, a.handle)
	a.dispatcher.Subscribe(events.EventBoundaryReplaced, a.handle)
	a.dispatcher.Subscribe(events.EventFileUploaded, a.handle)
	a.dispatcher.Subscribe(events.EventFileDisabled, a.handle)
	a.dispatcher.Subscribe(events.EventAccessDecided, a.handle)
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event", string(event.Type)),
		zap.String("actor", event.ActorEmail),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload))
	return nil
}

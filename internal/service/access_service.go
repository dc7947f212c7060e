package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/geosecure/geosecure-service/internal/domain"
	"github.com/geosecure/geosecure-service/internal/events"
	"github.com/geosecure/geosecure-service/internal/geo"
	"github.com/geosecure/geosecure-service/internal/observability"
	"github.com/geosecure/geosecure-service/internal/repository"
	apperrors "github.com/geosecure/geosecure-service/pkg/util"
)

// AccessService computes admit/deny decisions for file access from the
// requester's role, the file state and the geofence.
type AccessService struct {
	files      repository.FileRepository
	boundaries repository.BoundaryRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
}

// NewAccessService builds the service.
func NewAccessService(files repository.FileRepository, boundaries repository.BoundaryRepository,
	dispatcher events.Dispatcher, metrics *observability.Metrics) *AccessService {
	return &AccessService{
		files:      files,
		boundaries: boundaries,
		dispatcher: dispatcher,
		metrics:    metrics,
	}
}

// ResolveFileAccess returns nil when access is granted, or a DomainError
// naming the denial reason. Outcomes short-circuit in order: admin bypass,
// blocked user, file availability, role requirement, geofence.
//
// Admins bypass the active flag and the geofence, but a file id that
// resolves to nothing is denied even for them.
func (s *AccessService) ResolveFileAccess(ctx context.Context, requester *domain.Identity,
	fileID string, location *geo.Point) error {
	err := s.resolve(ctx, requester, fileID, location)
	s.record(ctx, requester, fileID, err)
	return err
}

func (s *AccessService) resolve(ctx context.Context, requester *domain.Identity,
	fileID string, location *geo.Point) error {
	if requester.IsAdmin() {
		if _, lookupErr := s.lookupFile(ctx, fileID); lookupErr != nil {
			return lookupErr
		}
		return nil
	}

	if !requester.Enabled {
		return apperrors.NewUserBlocked()
	}

	file, err := s.lookupFile(ctx, fileID)
	if err != nil {
		return err
	}
	if !file.Active {
		return apperrors.NewFileUnavailable()
	}
	if file.MinRole != nil && requester.Role != *file.MinRole {
		return apperrors.NewForbidden("insufficient role for this file")
	}

	boundary, err := s.boundaries.Get(ctx)
	if err != nil {
		return apperrors.NewStorageError(err)
	}
	if boundary == nil {
		// No boundary configured means geofencing is not enforced.
		return nil
	}

	if location == nil {
		return apperrors.NewLocationRequired()
	}

	center := geo.Point{Lat: boundary.Lat, Lon: boundary.Lon}
	if geo.Distance(*location, center) > boundary.RadiusM {
		return apperrors.NewOutsideBoundary()
	}
	return nil
}

func (s *AccessService) lookupFile(ctx context.Context, fileID string) (*domain.FileRecord, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewFileUnavailable()
		}
		return nil, apperrors.NewStorageError(err)
	}
	return file, nil
}

func (s *AccessService) record(ctx context.Context, requester *domain.Identity, fileID string, err error) {
	outcome := "granted"
	reason := ""
	if err != nil {
		outcome = apperrors.ToDomainError(err).Code
		reason = outcome
	}
	s.metrics.RecordAccessDecision(outcome)

	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       events.EventAccessDecided,
		ActorEmail: requester.Email,
		Timestamp:  time.Now(),
		Payload: events.AccessDecidedPayload{
			FileID:  fileID,
			Granted: err == nil,
			Reason:  reason,
		},
	})
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/geosecure/geosecure-service/internal/auth"
	"github.com/geosecure/geosecure-service/internal/domain"
	"github.com/geosecure/geosecure-service/internal/events"
	"github.com/geosecure/geosecure-service/internal/repository"
	apperrors "github.com/geosecure/geosecure-service/pkg/util"
)

// AdminService handles administrator mutations: identities and the geofence
// boundary. Every operation passes the role gate before touching a store.
type AdminService struct {
	identities repository.IdentityRepository
	boundaries repository.BoundaryRepository
	dispatcher events.Dispatcher
}

// NewAdminService builds the service.
func NewAdminService(identities repository.IdentityRepository, boundaries repository.BoundaryRepository,
	dispatcher events.Dispatcher) *AdminService {
	return &AdminService{
		identities: identities,
		boundaries: boundaries,
		dispatcher: dispatcher,
	}
}

// CreateIdentity registers a new account with the given role.
func (s *AdminService) CreateIdentity(ctx context.Context, actor *domain.Identity, email string, role domain.Role) (*domain.Identity, error) {
	if err := auth.Authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	email = domain.NormalizeEmail(email)
	if _, err := s.identities.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewDuplicateIdentity(email)
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.NewStorageError(err)
	}

	identity := &domain.Identity{
		Email:   email,
		Role:    role,
		Enabled: true,
	}
	if err := s.identities.Create(ctx, identity); err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return identity, nil
}

// DisableIdentity blocks an account. Identities are never hard-deleted.
func (s *AdminService) DisableIdentity(ctx context.Context, actor *domain.Identity, email string) error {
	if err := auth.Authorize(actor, domain.RoleAdmin); err != nil {
		return err
	}

	if err := s.identities.SetEnabled(ctx, domain.NormalizeEmail(email), false); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnknownIdentity()
		}
		return apperrors.NewStorageError(err)
	}
	return nil
}

// SetBoundary atomically replaces the single active geofence.
func (s *AdminService) SetBoundary(ctx context.Context, actor *domain.Identity, lat, lon, radiusM float64) error {
	if err := auth.Authorize(actor, domain.RoleAdmin); err != nil {
		return err
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return apperrors.NewValidationError("coordinates out of range", nil)
	}
	if radiusM <= 0 {
		return apperrors.NewValidationError("radius must be positive", nil)
	}

	boundary := &domain.Boundary{Lat: lat, Lon: lon, RadiusM: radiusM}
	if err := s.boundaries.Replace(ctx, boundary); err != nil {
		return apperrors.NewStorageError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventBoundaryReplaced,
			ActorEmail: actor.Email,
			Timestamp:  time.Now(),
			Payload:    events.BoundaryReplacedPayload{Lat: lat, Lon: lon, RadiusM: radiusM},
		})
	}
	return nil
}

// GetBoundary returns the active geofence, or nil when none is configured.
func (s *AdminService) GetBoundary(ctx context.Context, actor *domain.Identity) (*domain.Boundary, error) {
	if err := auth.Authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	boundary, err := s.boundaries.Get(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return boundary, nil
}

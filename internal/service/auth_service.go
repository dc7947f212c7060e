package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/geosecure/geosecure-service/internal/auth"
	"github.com/geosecure/geosecure-service/internal/config"
	"github.com/geosecure/geosecure-service/internal/domain"
	"github.com/geosecure/geosecure-service/internal/events"
	"github.com/geosecure/geosecure-service/internal/notifier"
	"github.com/geosecure/geosecure-service/internal/observability"
	"github.com/geosecure/geosecure-service/internal/repository"
	apperrors "github.com/geosecure/geosecure-service/pkg/util"
)

// AuthService coordinates the passcode issuance and verification lifecycle.
type AuthService struct {
	identities repository.IdentityRepository
	otps       repository.OtpRepository
	notifier   notifier.Notifier
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	tokenMgr   *auth.TokenManager
	otpTTL     time.Duration
	now        func() time.Time
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	IdentityRepo repository.IdentityRepository
	OtpRepo      repository.OtpRepository
	Notifier     notifier.Notifier
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		identities: deps.IdentityRepo,
		otps:       deps.OtpRepo,
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLMinutes),
		otpTTL:     cfg.Auth.OtpTTL(),
		now:        time.Now,
	}
}

// IssueOtp generates, persists and delivers a passcode for the email.
// Issuance supersedes any prior unused passcode for the same identity.
// A delivery failure is reported but the persisted record stays verifiable.
func (s *AuthService) IssueOtp(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)

	identity, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnknownIdentity()
		}
		return apperrors.NewStorageError(err)
	}
	if !identity.Enabled {
		return apperrors.NewUserBlocked()
	}

	passcode, err := auth.GeneratePasscode()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	salt, err := auth.GenerateSalt()
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	record := &domain.OtpRecord{
		Email:     email,
		Hash:      auth.HashPasscode(passcode, salt),
		Salt:      salt,
		ExpiresAt: s.now().Add(s.otpTTL),
	}
	if err := s.otps.Create(ctx, record); err != nil {
		return apperrors.NewStorageError(err)
	}
	s.metrics.RecordOtpIssued()

	deliveryErr := s.notifier.SendOtp(ctx, email, passcode)

	s.publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       events.EventOtpIssued,
		ActorEmail: email,
		Timestamp:  s.now(),
		Payload: events.OtpIssuedPayload{
			ExpiresAt: record.ExpiresAt,
			Delivered: deliveryErr == nil,
		},
	})

	if deliveryErr != nil {
		return apperrors.NewDeliveryFailed(deliveryErr)
	}
	return nil
}

// VerifyOtp checks the candidate passcode against the most recent record and
// mints a session credential on success. The record's used flag is the
// serialization point: of two concurrent verifications exactly one wins.
func (s *AuthService) VerifyOtp(ctx context.Context, email, passcode string) (string, time.Time, error) {
	email = domain.NormalizeEmail(email)

	record, err := s.otps.LatestByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return s.failVerification(apperrors.NewNoOtpIssued())
		}
		return "", time.Time{}, apperrors.NewStorageError(err)
	}
	if record.Used {
		return s.failVerification(apperrors.NewOtpAlreadyUsed())
	}
	if record.Expired(s.now()) {
		return s.failVerification(apperrors.NewOtpExpired())
	}
	if !auth.VerifyPasscode(passcode, record.Salt, record.Hash) {
		// The record stays usable for further attempts until expiry.
		return s.failVerification(apperrors.NewWrongOtp())
	}

	won, err := s.otps.Consume(ctx, record.ID)
	if err != nil {
		return "", time.Time{}, apperrors.NewStorageError(err)
	}
	if !won {
		return s.failVerification(apperrors.NewOtpAlreadyUsed())
	}

	identity, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, apperrors.NewStorageError(err)
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(identity)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	s.metrics.RecordOtpVerification("ok")

	s.publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       events.EventOtpVerified,
		ActorEmail: email,
		Timestamp:  s.now(),
		Payload:    events.OtpVerifiedPayload{Role: identity.Role},
	})

	return token, expiresAt, nil
}

// Profile returns the email and role bound to the session identity.
func (s *AuthService) Profile(ctx context.Context, email string) (*domain.Identity, error) {
	identity, err := s.identities.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnknownIdentity()
		}
		return nil, apperrors.NewStorageError(err)
	}
	return identity, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) failVerification(err error) (string, time.Time, error) {
	s.metrics.RecordOtpVerification(apperrors.ToDomainError(err).Code)
	return "", time.Time{}, err
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

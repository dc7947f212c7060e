package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geosecure/geosecure-service/internal/config"
	"github.com/geosecure/geosecure-service/internal/domain"
	"github.com/geosecure/geosecure-service/internal/observability"
	apperrors "github.com/geosecure/geosecure-service/pkg/util"
)

func newTestAuthService() (*AuthService, *fakeIdentityRepo, *fakeOtpRepo, *fakeNotifier) {
	identities := newFakeIdentityRepo()
	otps := newFakeOtpRepo()
	sender := &fakeNotifier{}

	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:         "test-secret",
		SessionTTLMinutes: 120,
		OtpTTLMinutes:     5,
	}}
	svc := NewAuthService(cfg, AuthDependencies{
		IdentityRepo: identities,
		OtpRepo:      otps,
		Notifier:     sender,
		Metrics:      observability.NewMetrics(),
	})
	return svc, identities, otps, sender
}

func TestIssueOtpUnknownEmail(t *testing.T) {
	svc, _, _, sender := newTestAuthService()

	err := svc.IssueOtp(context.Background(), "nobody@example.com")

	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnknownIdentity))
	assert.Zero(t, sender.calls)
}

func TestIssueOtpBlockedIdentity(t *testing.T) {
	svc, identities, _, sender := newTestAuthService()
	identities.add("blocked@example.com", domain.RoleUser, false)

	err := svc.IssueOtp(context.Background(), "blocked@example.com")

	assert.True(t, apperrors.HasCode(err, apperrors.CodeUserBlocked))
	assert.Zero(t, sender.calls)
}

func TestIssueOtpDeliversNumericPasscode(t *testing.T) {
	svc, identities, otps, sender := newTestAuthService()
	identities.add("user@example.com", domain.RoleUser, true)

	require.NoError(t, svc.IssueOtp(context.Background(), "User@Example.com "))

	require.Len(t, sender.lastCode, 6)
	n, err := strconv.Atoi(sender.lastCode)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 100000)
	assert.LessOrEqual(t, n, 999999)

	record, err := otps.LatestByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, sender.lastCode, record.Hash)
	assert.NotEmpty(t, record.Salt)
	assert.False(t, record.Used)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), record.ExpiresAt, 2*time.Second)
}

func TestIssueOtpSupersedesPriorUnused(t *testing.T) {
	svc, identities, otps, _ := newTestAuthService()
	identities.add("user@example.com", domain.RoleUser, true)
	ctx := context.Background()

	require.NoError(t, svc.IssueOtp(ctx, "user@example.com"))
	require.NoError(t, svc.IssueOtp(ctx, "user@example.com"))

	otps.mu.Lock()
	defer otps.mu.Unlock()
	require.Len(t, otps.records, 2)
	assert.True(t, otps.records[0].Superseded)
	assert.False(t, otps.records[1].Superseded)
}

func TestIssueOtpDeliveryFailureKeepsRecordVerifiable(t *testing.T) {
	svc, identities, _, sender := newTestAuthService()
	identities.add("user@example.com", domain.RoleUser, true)
	sender.sendErr = errors.New("smtp: connection refused")
	ctx := context.Background()

	err := svc.IssueOtp(ctx, "user@example.com")
	require.True(t, apperrors.HasCode(err, apperrors.CodeDeliveryFailed))

	token, _, err := svc.VerifyOtp(ctx, "user@example.com", sender.lastCode)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestVerifyOtpMintsSessionAndProfile(t *testing.T) {
	svc, identities, _, sender := newTestAuthService()
	identities.add("user@example.com", domain.RoleUser, true)
	ctx := context.Background()

	require.NoError(t, svc.IssueOtp(ctx, "user@example.com"))

	token, expiresAt, err := svc.VerifyOtp(ctx, "user@example.com", sender.lastCode)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), expiresAt, 2*time.Second)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, domain.RoleUser, claims.Role)

	profile, err := svc.Profile(ctx, claims.Email)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", profile.Email)
	assert.Equal(t, domain.RoleUser, profile.Role)
}

func TestVerifyOtpNoneIssued(t *testing.T) {
	svc, identities, _, _ := newTestAuthService()
	identities.add("user@example.com", domain.RoleUser, true)

	_, _, err := svc.VerifyOtp(context.Background(), "user@example.com", "123456")

	assert.True(t, apperrors.HasCode(err, apperrors.CodeNoOtpIssued))
}

func TestVerifyOtpSingleUse(t *testing.T) {
	svc, identities, _, sender := newTestAuthService()
	identities.add("user@example.com", domain.RoleUser, true)
	ctx := context.Background()

	require.NoError(t, svc.IssueOtp(ctx, "user@example.com"))

	_, _, err := svc.VerifyOtp(ctx, "user@example.com", sender.lastCode)
	require.NoError(t, err)

	_, _, err = svc.VerifyOtp(ctx, "user@example.com", sender.lastCode)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeOtpAlreadyUsed))
}

func TestVerifyOtpExpired(t *testing.T) {
	svc, identities, _, sender := newTestAuthService()
	identities.add("user@example.com", domain.RoleUser, true)
	ctx := context.Background()

	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }
	require.NoError(t, svc.IssueOtp(ctx, "user@example.com"))

	// One millisecond past expiry is already too late.
	svc.now = func() time.Time { return issuedAt.Add(5*time.Minute + time.Millisecond) }
	_, _, err := svc.VerifyOtp(ctx, "user@example.com", sender.lastCode)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeOtpExpired))
}

func TestVerifyOtpWrongCodeLeavesRecordUsable(t *testing.T) {
	svc, identities, _, sender := newTestAuthService()
	identities.add("user@example.com", domain.RoleUser, true)
	ctx := context.Background()

	require.NoError(t, svc.IssueOtp(ctx, "user@example.com"))

	wrong := "000000"
	if sender.lastCode == wrong {
		wrong = "000001"
	}
	_, _, err := svc.VerifyOtp(ctx, "user@example.com", wrong)
	require.True(t, apperrors.HasCode(err, apperrors.CodeWrongOtp))

	token, _, err := svc.VerifyOtp(ctx, "user@example.com", sender.lastCode)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestVerifyOtpConcurrentSingleWinner(t *testing.T) {
	svc, identities, _, sender := newTestAuthService()
	identities.add("user@example.com", domain.RoleUser, true)
	ctx := context.Background()

	require.NoError(t, svc.IssueOtp(ctx, "user@example.com"))
	code := sender.lastCode

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, results[i] = svc.VerifyOtp(ctx, "user@example.com", code)
		}(i)
	}
	wg.Wait()

	wins, rejected := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case apperrors.HasCode(err, apperrors.CodeOtpAlreadyUsed):
			rejected++
		default:
			t.Fatalf("unexpected verification error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, rejected)
}

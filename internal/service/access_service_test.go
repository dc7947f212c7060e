package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geosecure/geosecure-service/internal/domain"
	"github.com/geosecure/geosecure-service/internal/geo"
	"github.com/geosecure/geosecure-service/internal/observability"
	apperrors "github.com/geosecure/geosecure-service/pkg/util"
)

func newTestAccessService() (*AccessService, *fakeFileRepo, *fakeBoundaryRepo) {
	files := newFakeFileRepo()
	boundaries := newFakeBoundaryRepo()
	svc := NewAccessService(files, boundaries, nil, observability.NewMetrics())
	return svc, files, boundaries
}

func adminIdentity() *domain.Identity {
	return &domain.Identity{Email: "admin@example.com", Role: domain.RoleAdmin, Enabled: true}
}

func userIdentity() *domain.Identity {
	return &domain.Identity{Email: "user@example.com", Role: domain.RoleUser, Enabled: true}
}

func setBoundary(t *testing.T, boundaries *fakeBoundaryRepo, lat, lon, radiusM float64) {
	t.Helper()
	require.NoError(t, boundaries.Replace(context.Background(),
		&domain.Boundary{Lat: lat, Lon: lon, RadiusM: radiusM}))
}

func TestAccessAdminBypassesGeofenceAndActiveFlag(t *testing.T) {
	svc, files, boundaries := newTestAccessService()
	files.add("report", false, nil)
	setBoundary(t, boundaries, 0, 0, 1000)

	err := svc.ResolveFileAccess(context.Background(), adminIdentity(), "report", nil)

	assert.NoError(t, err)
}

func TestAccessAdminDeniedForMissingFile(t *testing.T) {
	svc, _, _ := newTestAccessService()

	err := svc.ResolveFileAccess(context.Background(), adminIdentity(), "no-such-id", nil)

	assert.True(t, apperrors.HasCode(err, apperrors.CodeFileUnavailable))
}

func TestAccessBlockedUserDenied(t *testing.T) {
	svc, files, _ := newTestAccessService()
	files.add("report", true, nil)
	blocked := userIdentity()
	blocked.Enabled = false

	err := svc.ResolveFileAccess(context.Background(), blocked, "report", nil)

	assert.True(t, apperrors.HasCode(err, apperrors.CodeUserBlocked))
}

func TestAccessMissingOrInactiveFileDenied(t *testing.T) {
	svc, files, _ := newTestAccessService()
	files.add("disabled", false, nil)
	ctx := context.Background()

	err := svc.ResolveFileAccess(ctx, userIdentity(), "no-such-id", nil)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeFileUnavailable))

	err = svc.ResolveFileAccess(ctx, userIdentity(), "disabled", nil)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeFileUnavailable))
}

func TestAccessMinRoleEnforced(t *testing.T) {
	svc, files, _ := newTestAccessService()
	adminOnly := domain.RoleAdmin
	files.add("restricted", true, &adminOnly)

	err := svc.ResolveFileAccess(context.Background(), userIdentity(), "restricted", nil)

	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
}

func TestAccessNoBoundaryGrantsWithoutLocation(t *testing.T) {
	svc, files, _ := newTestAccessService()
	files.add("report", true, nil)

	err := svc.ResolveFileAccess(context.Background(), userIdentity(), "report", nil)

	assert.NoError(t, err)
}

func TestAccessLocationRequiredWhenBoundarySet(t *testing.T) {
	svc, files, boundaries := newTestAccessService()
	files.add("report", true, nil)
	setBoundary(t, boundaries, 0, 0, 1000)

	err := svc.ResolveFileAccess(context.Background(), userIdentity(), "report", nil)

	assert.True(t, apperrors.HasCode(err, apperrors.CodeLocationRequired))
}

func TestAccessGeofenceDecision(t *testing.T) {
	svc, files, boundaries := newTestAccessService()
	files.add("report", true, nil)
	setBoundary(t, boundaries, 0, 0, 1000)
	ctx := context.Background()

	// 0.009 degrees of latitude is roughly 1001m from the origin, just past
	// the 1000m radius; 0.008 degrees lands around 890m inside it.
	err := svc.ResolveFileAccess(ctx, userIdentity(), "report", &geo.Point{Lat: 0.009, Lon: 0})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeOutsideBoundary))

	err = svc.ResolveFileAccess(ctx, userIdentity(), "report", &geo.Point{Lat: 0.008, Lon: 0})
	assert.NoError(t, err)
}

func TestAccessBoundaryEdgeIsInside(t *testing.T) {
	svc, files, boundaries := newTestAccessService()
	files.add("report", true, nil)

	center := geo.Point{Lat: 0, Lon: 0}
	edge := geo.Point{Lat: 0.009, Lon: 0}
	setBoundary(t, boundaries, center.Lat, center.Lon, geo.Distance(center, edge))

	err := svc.ResolveFileAccess(context.Background(), userIdentity(), "report", &edge)

	assert.NoError(t, err)
}

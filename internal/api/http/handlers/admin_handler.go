package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/geosecure/geosecure-service/internal/api/dto"
	"github.com/geosecure/geosecure-service/internal/auth"
	"github.com/geosecure/geosecure-service/internal/domain"
	"github.com/geosecure/geosecure-service/internal/service"
	apperrors "github.com/geosecure/geosecure-service/pkg/util"
)

// AdminHandler exposes administrator operations on identities and the
// geofence boundary.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: adminService}
}

// CreateIdentity handles POST /admin/identities.
func (h *AdminHandler) CreateIdentity(c *fiber.Ctx) error {
	actor, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateIdentityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return apperrors.NewValidationError("role must be ADMIN or USER", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required", nil)
	}

	identity, err := h.admin.CreateIdentity(c.Context(), actor, req.Email, role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"email": identity.Email,
			"role":  identity.Role,
		},
	})
}

// DisableIdentity handles POST /admin/identities/:email/disable.
func (h *AdminHandler) DisableIdentity(c *fiber.Ctx) error {
	actor, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	email := c.Params("email")
	if email == "" {
		return apperrors.NewValidationError("email required", nil)
	}

	if err := h.admin.DisableIdentity(c.Context(), actor, email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"disabled": true}})
}

// SetBoundary handles PUT /admin/boundary.
func (h *AdminHandler) SetBoundary(c *fiber.Ctx) error {
	actor, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.SetBoundaryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.admin.SetBoundary(c.Context(), actor, req.Lat, req.Lon, req.RadiusM); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

// GetBoundary handles GET /admin/boundary.
func (h *AdminHandler) GetBoundary(c *fiber.Ctx) error {
	actor, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	boundary, err := h.admin.GetBoundary(c.Context(), actor)
	if err != nil {
		return err
	}
	if boundary == nil {
		return c.JSON(fiber.Map{"data": nil})
	}
	return c.JSON(fiber.Map{
		"data": dto.BoundaryResponse{
			Lat:       boundary.Lat,
			Lon:       boundary.Lon,
			RadiusM:   boundary.RadiusM,
			UpdatedAt: boundary.UpdatedAt,
		},
	})
}

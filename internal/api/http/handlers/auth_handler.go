package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/geosecure/geosecure-service/internal/api/dto"
	"github.com/geosecure/geosecure-service/internal/auth"
	"github.com/geosecure/geosecure-service/internal/service"
	apperrors "github.com/geosecure/geosecure-service/pkg/util"
)

// AuthHandler exposes passcode issuance, verification and profile lookup.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// RequestOtp handles POST /auth/otp/request.
func (h *AuthHandler) RequestOtp(c *fiber.Ctx) error {
	var req dto.OtpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required", nil)
	}

	if err := h.auth.IssueOtp(c.Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"sent": true}})
}

// VerifyOtp handles POST /auth/otp/verify.
func (h *AuthHandler) VerifyOtp(c *fiber.Ctx) error {
	var req dto.OtpVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Otp == "" {
		return apperrors.NewValidationError("email and otp required", nil)
	}

	token, exp, err := h.auth.VerifyOtp(c.Context(), req.Email, req.Otp)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}

// Profile handles GET /auth/profile.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	profile, err := h.auth.Profile(c.Context(), identity.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.ProfileResponse{Email: profile.Email, Role: string(profile.Role)},
	})
}

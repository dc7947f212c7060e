package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/geosecure/geosecure-service/internal/domain"
	apperrors "github.com/geosecure/geosecure-service/pkg/util"
)

// Authorize admits the identity when it holds the required role. ADMIN
// supersedes any required role. This gate runs before any store mutation.
func Authorize(identity *domain.Identity, required domain.Role) error {
	if identity == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if identity.Role == domain.RoleAdmin || identity.Role == required {
		return nil
	}
	return apperrors.NewForbidden("insufficient role")
}

// RequireRole ensures the authenticated identity passes the role gate.
func RequireRole(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if err := Authorize(identity, required); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a caller presented a valid session.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

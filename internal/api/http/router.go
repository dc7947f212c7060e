package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/geosecure/geosecure-service/internal/api/http/handlers"
	"github.com/geosecure/geosecure-service/internal/auth"
	"github.com/geosecure/geosecure-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Admin          *handlers.AdminHandler
	Files          *handlers.FilesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/otp/request", cfg.Auth.RequestOtp)
	authGroup.Post("/otp/verify", cfg.Auth.VerifyOtp)
	authGroup.Get("/profile", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.Profile)

	adminGroup := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	adminGroup.Post("/identities", cfg.Admin.CreateIdentity)
	adminGroup.Post("/identities/:email/disable", cfg.Admin.DisableIdentity)
	adminGroup.Put("/boundary", cfg.Admin.SetBoundary)
	adminGroup.Get("/boundary", cfg.Admin.GetBoundary)
	adminGroup.Post("/files", cfg.Files.Upload)
	adminGroup.Post("/files/:id/disable", cfg.Files.Disable)
	adminGroup.Put("/files/:id/access", cfg.Files.ChangeAccess)

	filesGroup := app.Group("/files", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	filesGroup.Get("/", cfg.Files.List)
	filesGroup.Post("/:id/access", cfg.Files.Access)
	filesGroup.Get("/:id/download", cfg.Files.Download)
}

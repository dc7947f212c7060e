package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/geosecure/geosecure-service/internal/api/dto"
	"github.com/geosecure/geosecure-service/internal/auth"
	"github.com/geosecure/geosecure-service/internal/domain"
	"github.com/geosecure/geosecure-service/internal/geo"
	"github.com/geosecure/geosecure-service/internal/service"
	apperrors "github.com/geosecure/geosecure-service/pkg/util"
)

// FilesHandler exposes file lifecycle and geofenced access endpoints.
type FilesHandler struct {
	files  *service.FileService
	access *service.AccessService
}

// NewFilesHandler constructs handler.
func NewFilesHandler(fileService *service.FileService, accessService *service.AccessService) *FilesHandler {
	return &FilesHandler{files: fileService, access: accessService}
}

// Upload handles POST /admin/files (multipart).
func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	actor, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file required", nil)
	}

	var minRole *domain.Role
	if raw := c.FormValue("min_role"); raw != "" {
		role, ok := domain.ParseRole(raw)
		if !ok {
			return apperrors.NewValidationError("min_role must be ADMIN or USER", nil)
		}
		minRole = &role
	}

	src, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable file", nil)
	}
	defer src.Close()

	file, err := h.files.Upload(c.Context(), actor, fileHeader.Filename, src, minRole)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"id": file.ID, "filename": file.Filename},
	})
}

// List handles GET /files.
func (h *FilesHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	files, err := h.files.List(c.Context(), actor)
	if err != nil {
		return err
	}

	result := make([]dto.FileResponse, 0, len(files))
	for _, f := range files {
		var minRole *string
		if f.MinRole != nil {
			s := string(*f.MinRole)
			minRole = &s
		}
		result = append(result, dto.FileResponse{
			ID:        f.ID,
			Filename:  f.Filename,
			Active:    f.Active,
			MinRole:   minRole,
			CreatedAt: f.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": result})
}

// Access handles POST /files/:id/access.
func (h *FilesHandler) Access(c *fiber.Ctx) error {
	actor, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.FileAccessRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var location *geo.Point
	if req.Lat != nil && req.Lon != nil {
		location = &geo.Point{Lat: *req.Lat, Lon: *req.Lon}
	}

	if err := h.access.ResolveFileAccess(c.Context(), actor, c.Params("id"), location); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"granted": true}})
}

// Download handles GET /files/:id/download?lat=&lon=.
func (h *FilesHandler) Download(c *fiber.Ctx) error {
	actor, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	location, err := locationFromQuery(c)
	if err != nil {
		return err
	}

	body, file, err := h.files.Download(c.Context(), actor, c.Params("id"), location)
	if err != nil {
		return err
	}
	defer body.Close()

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	return c.SendStream(body)
}

// Disable handles POST /admin/files/:id/disable.
func (h *FilesHandler) Disable(c *fiber.Ctx) error {
	actor, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.files.Disable(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"disabled": true}})
}

// ChangeAccess handles PUT /admin/files/:id/access.
func (h *FilesHandler) ChangeAccess(c *fiber.Ctx) error {
	actor, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ChangeFileAccessRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role, ok := domain.ParseRole(req.MinRole)
	if !ok {
		return apperrors.NewValidationError("min_role must be ADMIN or USER", nil)
	}

	if err := h.files.ChangeAccess(c.Context(), actor, c.Params("id"), role); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

func locationFromQuery(c *fiber.Ctx) (*geo.Point, error) {
	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" && lonStr == "" {
		return nil, nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid lat", nil)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid lon", nil)
	}
	return &geo.Point{Lat: lat, Lon: lon}, nil
}

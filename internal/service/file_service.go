package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/geosecure/geosecure-service/internal/auth"
	"github.com/geosecure/geosecure-service/internal/domain"
	"github.com/geosecure/geosecure-service/internal/events"
	"github.com/geosecure/geosecure-service/internal/geo"
	"github.com/geosecure/geosecure-service/internal/repository"
	"github.com/geosecure/geosecure-service/internal/storage"
	apperrors "github.com/geosecure/geosecure-service/pkg/util"
)

// FileService handles the upload/list/disable lifecycle and streams blob
// bytes through the access decision engine on download.
type FileService struct {
	files      repository.FileRepository
	blobs      storage.BlobStore
	access     *AccessService
	dispatcher events.Dispatcher
}

// NewFileService builds the service.
func NewFileService(files repository.FileRepository, blobs storage.BlobStore,
	access *AccessService, dispatcher events.Dispatcher) *FileService {
	return &FileService{
		files:      files,
		blobs:      blobs,
		access:     access,
		dispatcher: dispatcher,
	}
}

// Upload stores the bytes in the blob store and registers the file record.
// The role gate runs before either write.
func (s *FileService) Upload(ctx context.Context, actor *domain.Identity, filename string,
	body io.Reader, minRole *domain.Role) (*domain.FileRecord, error) {
	if err := auth.Authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s-%s", id, filename)
	if err := s.blobs.Put(ctx, storageKey, body); err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	file := &domain.FileRecord{
		ID:         id,
		Filename:   filename,
		StorageKey: storageKey,
		Active:     true,
		MinRole:    minRole,
	}
	if err := s.files.Create(ctx, file); err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventFileUploaded,
			ActorEmail: actor.Email,
			Timestamp:  time.Now(),
			Payload:    events.FileUploadedPayload{FileID: file.ID, Filename: filename},
		})
	}
	return file, nil
}

// List returns the files visible to the caller: admins see every record,
// everyone else sees only active files.
func (s *FileService) List(ctx context.Context, actor *domain.Identity) ([]domain.FileRecord, error) {
	files, err := s.files.List(ctx, !actor.IsAdmin())
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return files, nil
}

// Disable soft-deletes a file: only the active flag flips, the blob store
// keeps the bytes.
func (s *FileService) Disable(ctx context.Context, actor *domain.Identity, fileID string) error {
	if err := auth.Authorize(actor, domain.RoleAdmin); err != nil {
		return err
	}

	if err := s.files.SetActive(ctx, fileID, false); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewFileUnavailable()
		}
		return apperrors.NewStorageError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventFileDisabled,
			ActorEmail: actor.Email,
			Timestamp:  time.Now(),
			Payload:    events.FileDisabledPayload{FileID: fileID},
		})
	}
	return nil
}

// ChangeAccess updates the minimum role required to access the file.
func (s *FileService) ChangeAccess(ctx context.Context, actor *domain.Identity, fileID string, minRole domain.Role) error {
	if err := auth.Authorize(actor, domain.RoleAdmin); err != nil {
		return err
	}

	if err := s.files.SetMinRole(ctx, fileID, minRole); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewFileUnavailable()
		}
		return apperrors.NewStorageError(err)
	}
	return nil
}

// Download runs the access decision first, then streams the blob. The
// returned reader must be closed by the caller.
func (s *FileService) Download(ctx context.Context, actor *domain.Identity, fileID string,
	location *geo.Point) (io.ReadCloser, *domain.FileRecord, error) {
	if err := s.access.ResolveFileAccess(ctx, actor, fileID, location); err != nil {
		return nil, nil, err
	}

	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, apperrors.NewFileUnavailable()
		}
		return nil, nil, apperrors.NewStorageError(err)
	}

	body, err := s.blobs.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, apperrors.NewStorageError(err)
	}
	return body, file, nil
}

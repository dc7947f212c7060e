package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/geosecure/geosecure-service/internal/domain"
)

// --- in-memory fakes for the repository and capability interfaces ---

type fakeIdentityRepo struct {
	mu          sync.Mutex
	identities  map[string]*domain.Identity
	createCalls int
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{identities: map[string]*domain.Identity{}}
}

func (f *fakeIdentityRepo) add(email string, role domain.Role, enabled bool) *domain.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	identity := &domain.Identity{Email: email, Role: role, Enabled: enabled, CreatedAt: time.Now()}
	f.identities[email] = identity
	return identity
}

func (f *fakeIdentityRepo) Create(_ context.Context, identity *domain.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	identity.CreatedAt = time.Now()
	f.identities[identity.Email] = identity
	return nil
}

func (f *fakeIdentityRepo) GetByEmail(_ context.Context, email string) (*domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	identity, ok := f.identities[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *identity
	return &copied, nil
}

func (f *fakeIdentityRepo) SetEnabled(_ context.Context, email string, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	identity, ok := f.identities[email]
	if !ok {
		return pgx.ErrNoRows
	}
	identity.Enabled = enabled
	return nil
}

func (f *fakeIdentityRepo) SetRole(_ context.Context, email string, role domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	identity, ok := f.identities[email]
	if !ok {
		return pgx.ErrNoRows
	}
	identity.Role = role
	return nil
}

type fakeOtpRepo struct {
	mu      sync.Mutex
	records []*domain.OtpRecord
	seq     int
}

func newFakeOtpRepo() *fakeOtpRepo {
	return &fakeOtpRepo{}
}

func (f *fakeOtpRepo) Create(_ context.Context, record *domain.OtpRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, prior := range f.records {
		if prior.Email == record.Email && !prior.Used {
			prior.Superseded = true
		}
	}
	f.seq++
	record.ID = fmt.Sprintf("otp-%d", f.seq)
	record.CreatedAt = time.Now()
	f.records = append(f.records, record)
	return nil
}

func (f *fakeOtpRepo) LatestByEmail(_ context.Context, email string) (*domain.OtpRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].Email == email {
			copied := *f.records[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// Consume mirrors the compare-and-set the Postgres repository performs: only
// one caller observes the used=false to used=true transition.
func (f *fakeOtpRepo) Consume(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.records {
		if record.ID == id {
			if record.Used {
				return false, nil
			}
			record.Used = true
			return true, nil
		}
	}
	return false, nil
}

type fakeBoundaryRepo struct {
	mu       sync.RWMutex
	boundary *domain.Boundary
}

func newFakeBoundaryRepo() *fakeBoundaryRepo {
	return &fakeBoundaryRepo{}
}

func (f *fakeBoundaryRepo) Replace(_ context.Context, boundary *domain.Boundary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	boundary.UpdatedAt = time.Now()
	copied := *boundary
	f.boundary = &copied
	return nil
}

func (f *fakeBoundaryRepo) Get(_ context.Context) (*domain.Boundary, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.boundary == nil {
		return nil, nil
	}
	copied := *f.boundary
	return &copied, nil
}

type fakeFileRepo struct {
	mu    sync.Mutex
	files map[string]*domain.FileRecord
	order []string
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: map[string]*domain.FileRecord{}}
}

func (f *fakeFileRepo) add(id string, active bool, minRole *domain.Role) *domain.FileRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	file := &domain.FileRecord{
		ID:         id,
		Filename:   id + ".txt",
		StorageKey: id + "-key",
		Active:     active,
		MinRole:    minRole,
		CreatedAt:  time.Now(),
	}
	f.files[id] = file
	f.order = append(f.order, id)
	return file
}

func (f *fakeFileRepo) Create(_ context.Context, file *domain.FileRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	file.CreatedAt = time.Now()
	f.files[file.ID] = file
	f.order = append(f.order, file.ID)
	return nil
}

func (f *fakeFileRepo) GetByID(_ context.Context, id string) (*domain.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *file
	return &copied, nil
}

func (f *fakeFileRepo) List(_ context.Context, activeOnly bool) ([]domain.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.FileRecord
	for _, id := range f.order {
		file := f.files[id]
		if activeOnly && !file.Active {
			continue
		}
		result = append(result, *file)
	}
	return result, nil
}

func (f *fakeFileRepo) SetActive(_ context.Context, id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[id]
	if !ok {
		return pgx.ErrNoRows
	}
	file.Active = active
	return nil
}

func (f *fakeFileRepo) SetMinRole(_ context.Context, id string, minRole domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[id]
	if !ok {
		return pgx.ErrNoRows
	}
	file.MinRole = &minRole
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	sendErr  error
	lastCode string
	calls    int
}

func (f *fakeNotifier) SendOtp(_ context.Context, _, passcode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastCode = passcode
	return f.sendErr
}

type fakeBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (f *fakeBlobStore) Put(_ context.Context, key string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[key] = data
	return nil
}

func (f *fakeBlobStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[key]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

package services_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AahilGazali/cloud-drive-backend/internal/models"
	"github.com/AahilGazali/cloud-drive-backend/internal/storage"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite DB: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		Name:         strings.SplitN(email, "@", 2)[0],
		Role:         models.RoleUser,
		PasswordHash: "x",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

// fakeStorage is an in-memory storage backend. Signed URLs point at an
// httptest server so code that fetches blobs over HTTP works unchanged.
type fakeStorage struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	types   map[string]string
	server  *httptest.Server
	failUp  bool
	failDel bool
}

func newFakeStorage(t *testing.T) *fakeStorage {
	t.Helper()

	fs := &fakeStorage{
		blobs: make(map[string][]byte),
		types: make(map[string]string),
	}
	fs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		fs.mu.Lock()
		data, ok := fs.blobs[path]
		fs.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(data)
	}))
	t.Cleanup(fs.server.Close)
	return fs
}

func (fs *fakeStorage) Upload(ctx context.Context, obj *storage.Object) (*storage.Location, error) {
	if fs.failUp {
		return nil, fmt.Errorf("upload unavailable")
	}
	if err := storage.ValidateObject(obj); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(obj.Reader)
	if err != nil {
		return nil, err
	}
	fs.mu.Lock()
	fs.blobs[obj.Path] = data
	fs.types[obj.Path] = obj.ContentType
	fs.mu.Unlock()
	return &storage.Location{Path: obj.Path}, nil
}

func (fs *fakeStorage) Download(ctx context.Context, loc *storage.Location) (*storage.DownloadResult, error) {
	if err := storage.ValidateLocation(loc); err != nil {
		return nil, err
	}
	fs.mu.Lock()
	data, ok := fs.blobs[loc.Path]
	contentType := fs.types[loc.Path]
	fs.mu.Unlock()
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &storage.DownloadResult{
		Reader:      io.NopCloser(bytes.NewReader(data)),
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

func (fs *fakeStorage) SignedURL(ctx context.Context, loc *storage.Location, ttl time.Duration) (string, error) {
	if err := storage.ValidateLocation(loc); err != nil {
		return "", err
	}
	fs.mu.Lock()
	_, ok := fs.blobs[loc.Path]
	fs.mu.Unlock()
	if !ok {
		return "", storage.ErrObjectNotFound
	}
	return fs.server.URL + "/" + loc.Path, nil
}

func (fs *fakeStorage) List(ctx context.Context, prefix string) ([]string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	var paths []string
	for p := range fs.blobs {
		if strings.HasPrefix(p, prefix) {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

func (fs *fakeStorage) Delete(ctx context.Context, loc *storage.Location) error {
	if fs.failDel {
		return fmt.Errorf("delete unavailable")
	}
	if err := storage.ValidateLocation(loc); err != nil {
		return err
	}
	fs.mu.Lock()
	delete(fs.blobs, loc.Path)
	delete(fs.types, loc.Path)
	fs.mu.Unlock()
	return nil
}

func (fs *fakeStorage) has(path string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_, ok := fs.blobs[path]
	return ok
}

var _ storage.Storage = (*fakeStorage)(nil)

func fileRef(id uuid.UUID) models.ResourceRef {
	return models.ResourceRef{Type: models.ResourceFile, ID: id}
}

func folderRef(id uuid.UUID) models.ResourceRef {
	return models.ResourceRef{Type: models.ResourceFolder, ID: id}
}

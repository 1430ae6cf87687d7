package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AahilGazali/cloud-drive-backend/internal/apperrors"
	"github.com/AahilGazali/cloud-drive-backend/internal/models"
	"github.com/AahilGazali/cloud-drive-backend/internal/repositories"
	"github.com/AahilGazali/cloud-drive-backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ repositories.FileRepository = (*FileService)(nil)

// signedURLTTL is how long a download URL stays valid.
const signedURLTTL = 60 * time.Second

type FileService struct {
	db         *gorm.DB
	storage    storage.Storage
	httpClient *http.Client
}

func NewFileService(db *gorm.DB, st storage.Storage) *FileService {
	return &FileService{
		db:      db,
		storage: st,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type UploadInput struct {
	OwnerID     uuid.UUID
	FolderID    *uuid.UUID
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

func (s *FileService) Upload(ctx context.Context, input *UploadInput) (*models.File, error) {
	if input == nil || input.Reader == nil {
		return nil, apperrors.Validation("file content is required")
	}
	if strings.TrimSpace(input.FileName) == "" {
		return nil, apperrors.Validation("file name is required")
	}
	if s.storage == nil {
		return nil, apperrors.Storage("storage backend is not configured")
	}

	if input.FolderID != nil {
		if err := s.checkFolderOwned(ctx, input.OwnerID, *input.FolderID); err != nil {
			return nil, err
		}
	}

	mimeType := resolveMimeType(input.FileName, input.ContentType)
	path := buildStoragePath(input.OwnerID, input.FolderID, input.FileName)

	loc, err := s.storage.Upload(ctx, &storage.Object{
		Path:        path,
		ContentType: mimeType,
		Size:        input.Size,
		Reader:      input.Reader,
	})
	if err != nil {
		return nil, apperrors.Storage("upload blob: %w", err)
	}

	file := &models.File{
		Name:     input.FileName,
		Path:     loc.Path,
		Size:     input.Size,
		MimeType: mimeType,
		OwnerID:  input.OwnerID,
		FolderID: input.FolderID,
	}
	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		// The blob is already written; the orphan is accepted here rather
		// than failing the cleanup too.
		return nil, apperrors.Persistence("save file metadata: %w", err)
	}
	return file, nil
}

func (s *FileService) List(ctx context.Context, ownerID uuid.UUID, folderID *uuid.UUID) ([]models.File, error) {
	query := s.db.WithContext(ctx).
		Where("owner_id = ? AND is_deleted = ?", ownerID, false)
	if folderID != nil {
		query = query.Where("folder_id = ?", *folderID)
	} else {
		query = query.Where("folder_id IS NULL")
	}

	var files []models.File
	if err := query.Order("created_at ASC").Find(&files).Error; err != nil {
		return nil, apperrors.Persistence("list files: %w", err)
	}
	return files, nil
}

func (s *FileService) Rename(ctx context.Context, ownerID, id uuid.UUID, newName string) (*models.File, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, apperrors.Validation("file name is required")
	}

	file, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	file.Name = newName
	if err := s.db.WithContext(ctx).Model(file).Update("name", newName).Error; err != nil {
		return nil, apperrors.Persistence("rename file: %w", err)
	}
	return file, nil
}

func (s *FileService) Move(ctx context.Context, ownerID, id uuid.UUID, newFolderID *uuid.UUID) (*models.File, error) {
	file, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if equalParent(file.FolderID, newFolderID) {
		return nil, apperrors.Validation("file is already in this folder")
	}
	if newFolderID != nil {
		if err := s.checkFolderOwned(ctx, ownerID, *newFolderID); err != nil {
			return nil, err
		}
	}

	file.FolderID = newFolderID
	if err := s.db.WithContext(ctx).Model(file).Update("folder_id", newFolderID).Error; err != nil {
		return nil, apperrors.Persistence("move file: %w", err)
	}
	return file, nil
}

func (s *FileService) SoftDelete(ctx context.Context, ownerID, id uuid.UUID) (*models.File, error) {
	file, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	file.IsDeleted = true
	file.DeletedAt = &now
	updates := map[string]interface{}{"is_deleted": true, "deleted_at": now}
	if err := s.db.WithContext(ctx).Model(file).Updates(updates).Error; err != nil {
		return nil, apperrors.Persistence("delete file: %w", err)
	}
	return file, nil
}

// SignedURLResult is what the download endpoint returns: a short-lived URL
// plus the metadata row the client renders.
type SignedURLResult struct {
	URL  string       `json:"url"`
	File *models.File `json:"file"`
}

func (s *FileService) GetSignedURL(ctx context.Context, ownerID, id uuid.UUID) (*SignedURLResult, error) {
	var file models.File
	err := s.db.WithContext(ctx).First(&file, "id = ? AND is_deleted = ?", id, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("file not found")
		}
		return nil, apperrors.Persistence("load file: %w", err)
	}
	if file.OwnerID != ownerID {
		return nil, apperrors.Forbidden("you do not own this file")
	}

	url, err := s.storage.SignedURL(ctx, &storage.Location{Path: file.Path}, signedURLTTL)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, apperrors.NotFound("file %q not found in storage", file.Name)
		}
		return nil, apperrors.Storage("create signed url: %w", err)
	}

	return &SignedURLResult{URL: url, File: &file}, nil
}

// Copy duplicates a file: the blob is fetched back through a short-lived
// signed URL and written to a fresh path, then a new metadata row is
// inserted. The two steps are deliberately not atomic.
func (s *FileService) Copy(ctx context.Context, ownerID, id uuid.UUID, targetFolderID *uuid.UUID) (*models.File, error) {
	original, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if targetFolderID != nil {
		if err := s.checkFolderOwned(ctx, ownerID, *targetFolderID); err != nil {
			return nil, err
		}
	}

	readURL, err := s.storage.SignedURL(ctx, &storage.Location{Path: original.Path}, signedURLTTL)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, apperrors.NotFound("file %q not found in storage", original.Name)
		}
		return nil, apperrors.Storage("access original blob: %w", err)
	}

	blob, err := s.fetchBlob(ctx, readURL)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	newName := copyDisplayName(original.Name)
	newPath := buildStoragePath(ownerID, targetFolderID, newName)

	loc, err := s.storage.Upload(ctx, &storage.Object{
		Path:        newPath,
		ContentType: original.MimeType,
		Size:        original.Size,
		Reader:      blob,
	})
	if err != nil {
		return nil, apperrors.Storage("write copy blob: %w", err)
	}

	copyFile := &models.File{
		Name:     newName,
		Path:     loc.Path,
		Size:     original.Size,
		MimeType: original.MimeType,
		OwnerID:  ownerID,
		FolderID: targetFolderID,
	}
	if err := s.db.WithContext(ctx).Create(copyFile).Error; err != nil {
		return nil, apperrors.Persistence("save copy metadata: %w", err)
	}
	return copyFile, nil
}

func (s *FileService) fetchBlob(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Storage("build blob request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Storage("fetch original blob: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, apperrors.Storage("fetch original blob: unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *FileService) getOwned(ctx context.Context, ownerID, id uuid.UUID) (*models.File, error) {
	var file models.File
	err := s.db.WithContext(ctx).
		First(&file, "id = ? AND owner_id = ? AND is_deleted = ?", id, ownerID, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("file not found")
		}
		return nil, apperrors.Persistence("load file: %w", err)
	}
	return &file, nil
}

func (s *FileService) checkFolderOwned(ctx context.Context, ownerID, folderID uuid.UUID) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Folder{}).
		Where("id = ? AND owner_id = ? AND is_deleted = ?", folderID, ownerID, false).
		Count(&count).Error
	if err != nil {
		return apperrors.Persistence("check folder: %w", err)
	}
	if count == 0 {
		return apperrors.NotFound("folder not found")
	}
	return nil
}

// Download streams a blob directly; used by the local-storage route.
func (s *FileService) Download(ctx context.Context, path string) (*storage.DownloadResult, error) {
	res, err := s.storage.Download(ctx, &storage.Location{Path: path})
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, apperrors.NotFound("blob not found")
		}
		return nil, apperrors.Storage("download blob: %w", err)
	}
	return res, nil
}

// blobLocation is a convenience for trash purge and admin cleanup.
func blobLocation(file *models.File) *storage.Location {
	return &storage.Location{Path: file.Path}
}

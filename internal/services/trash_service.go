package services

import (
	"context"
	"errors"
	"log"

	"github.com/AahilGazali/cloud-drive-backend/internal/apperrors"
	"github.com/AahilGazali/cloud-drive-backend/internal/models"
	"github.com/AahilGazali/cloud-drive-backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TrashService struct {
	db      *gorm.DB
	storage storage.Storage
}

func NewTrashService(db *gorm.DB, store storage.Storage) *TrashService {
	return &TrashService{db: db, storage: store}
}

// TrashContents always carries two non-nil slices so the JSON shape is
// stable even when one query comes back empty.
type TrashContents struct {
	Files   []models.File   `json:"files"`
	Folders []models.Folder `json:"folders"`
}

func (s *TrashService) List(ctx context.Context, ownerID uuid.UUID) (*TrashContents, error) {
	contents := &TrashContents{
		Files:   []models.File{},
		Folders: []models.Folder{},
	}

	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND is_deleted = ?", ownerID, true).
		Order("created_at DESC").
		Find(&contents.Files).Error
	if err != nil {
		return nil, apperrors.Persistence("list trashed files: %w", err)
	}

	err = s.db.WithContext(ctx).
		Where("owner_id = ? AND is_deleted = ?", ownerID, true).
		Order("created_at DESC").
		Find(&contents.Folders).Error
	if err != nil {
		return nil, apperrors.Persistence("list trashed folders: %w", err)
	}

	return contents, nil
}

// Restore clears the deleted flag. Only items currently in the trash can be
// restored; restoring a live item is a not-found.
func (s *TrashService) Restore(ctx context.Context, ownerID uuid.UUID, ref models.ResourceRef) error {
	res := s.db.WithContext(ctx).
		Model(s.modelFor(ref.Type)).
		Where("id = ? AND owner_id = ? AND is_deleted = ?", ref.ID, ownerID, true).
		Updates(map[string]interface{}{"is_deleted": false, "deleted_at": nil})
	if res.Error != nil {
		return apperrors.Persistence("restore %s: %w", ref.Type, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("%s not found in trash", ref.Type)
	}
	return nil
}

// Purge permanently removes a trashed item. For files the blob is deleted
// best-effort before the row: a blob that is already gone or unreachable
// must not leave the row behind forever.
func (s *TrashService) Purge(ctx context.Context, ownerID uuid.UUID, ref models.ResourceRef) error {
	if ref.Type == models.ResourceFile {
		var file models.File
		err := s.db.WithContext(ctx).
			First(&file, "id = ? AND owner_id = ? AND is_deleted = ?", ref.ID, ownerID, true).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("file not found in trash")
			}
			return apperrors.Persistence("load trashed file: %w", err)
		}
		if err := s.storage.Delete(ctx, blobLocation(&file)); err != nil {
			log.Printf("trash: blob delete for %s failed, removing row anyway: %v", file.Path, err)
		}
	}

	res := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ? AND is_deleted = ?", ref.ID, ownerID, true).
		Delete(s.modelFor(ref.Type))
	if res.Error != nil {
		return apperrors.Persistence("purge %s: %w", ref.Type, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("%s not found in trash", ref.Type)
	}
	return nil
}

func (s *TrashService) modelFor(t models.ResourceType) interface{} {
	if t == models.ResourceFolder {
		return &models.Folder{}
	}
	return &models.File{}
}

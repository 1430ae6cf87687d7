package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AahilGazali/cloud-drive-backend/internal/apperrors"
	"github.com/AahilGazali/cloud-drive-backend/internal/models"
	"github.com/AahilGazali/cloud-drive-backend/internal/repositories"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ repositories.FolderRepository = (*FolderService)(nil)

type FolderService struct {
	db *gorm.DB
}

func NewFolderService(db *gorm.DB) *FolderService {
	return &FolderService{db: db}
}

func (s *FolderService) Create(ctx context.Context, ownerID uuid.UUID, name string, parentID *uuid.UUID) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if err := validation.Validate(name, validation.Required, validation.Length(1, 255)); err != nil {
		return nil, apperrors.Validation("folder name is required")
	}

	if parentID != nil {
		if _, err := s.getOwned(ctx, ownerID, *parentID); err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.NotFound("parent folder not found")
			}
			return nil, err
		}
	}

	folder := &models.Folder{
		Name:     name,
		OwnerID:  ownerID,
		ParentID: parentID,
	}
	if err := s.db.WithContext(ctx).Create(folder).Error; err != nil {
		return nil, apperrors.Persistence("create folder: %w", err)
	}
	return folder, nil
}

func (s *FolderService) List(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID) ([]models.Folder, error) {
	query := s.db.WithContext(ctx).
		Where("owner_id = ? AND is_deleted = ?", ownerID, false)
	if parentID != nil {
		query = query.Where("parent_id = ?", *parentID)
	} else {
		query = query.Where("parent_id IS NULL")
	}

	var folders []models.Folder
	if err := query.Order("created_at ASC").Find(&folders).Error; err != nil {
		return nil, apperrors.Persistence("list folders: %w", err)
	}
	return folders, nil
}

func (s *FolderService) Rename(ctx context.Context, ownerID, id uuid.UUID, newName string) (*models.Folder, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, apperrors.Validation("folder name is required")
	}

	folder, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	folder.Name = newName
	if err := s.db.WithContext(ctx).Model(folder).Update("name", newName).Error; err != nil {
		return nil, apperrors.Persistence("rename folder: %w", err)
	}
	return folder, nil
}

// Move reparents a folder. Moving a folder onto itself or under one of its
// own descendants is rejected; moving to the current parent is a no-op.
func (s *FolderService) Move(ctx context.Context, ownerID, id uuid.UUID, newParentID *uuid.UUID) (*models.Folder, error) {
	folder, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if newParentID != nil {
		if *newParentID == id {
			return nil, apperrors.Validation("cannot move a folder into itself")
		}
		if _, err := s.getOwned(ctx, ownerID, *newParentID); err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.NotFound("target folder not found")
			}
			return nil, err
		}
		onChain, err := s.isOnAncestorChain(ctx, *newParentID, id)
		if err != nil {
			return nil, err
		}
		if onChain {
			return nil, apperrors.Validation("cannot move a folder into one of its descendants")
		}
	}

	if equalParent(folder.ParentID, newParentID) {
		return folder, nil
	}

	folder.ParentID = newParentID
	if err := s.db.WithContext(ctx).Model(folder).Update("parent_id", newParentID).Error; err != nil {
		return nil, apperrors.Persistence("move folder: %w", err)
	}
	return folder, nil
}

func (s *FolderService) SoftDelete(ctx context.Context, ownerID, id uuid.UUID) (*models.Folder, error) {
	folder, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	folder.IsDeleted = true
	folder.DeletedAt = &now
	updates := map[string]interface{}{"is_deleted": true, "deleted_at": now}
	if err := s.db.WithContext(ctx).Model(folder).Updates(updates).Error; err != nil {
		return nil, apperrors.Persistence("delete folder: %w", err)
	}
	return folder, nil
}

// isOnAncestorChain walks from start up to the root and reports whether
// target appears on the way. The depth cap stops the walk if parent data is
// ever corrupted into a loop.
func (s *FolderService) isOnAncestorChain(ctx context.Context, start, target uuid.UUID) (bool, error) {
	const maxDepth = 1000

	current := start
	for i := 0; i < maxDepth; i++ {
		var folder models.Folder
		err := s.db.WithContext(ctx).Select("parent_id").First(&folder, "id = ?", current).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, apperrors.Persistence("walk folder ancestors: %w", err)
		}
		if folder.ParentID == nil {
			return false, nil
		}
		if *folder.ParentID == target {
			return true, nil
		}
		current = *folder.ParentID
	}
	return false, apperrors.Persistence("folder ancestor chain exceeds depth limit")
}

func (s *FolderService) getOwned(ctx context.Context, ownerID, id uuid.UUID) (*models.Folder, error) {
	var folder models.Folder
	err := s.db.WithContext(ctx).
		First(&folder, "id = ? AND owner_id = ? AND is_deleted = ?", id, ownerID, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("folder not found")
		}
		return nil, apperrors.Persistence("load folder: %w", err)
	}
	return &folder, nil
}

func equalParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

package repositories

import (
	"context"

	"github.com/AahilGazali/cloud-drive-backend/internal/models"
	"github.com/google/uuid"
)

type FolderRepository interface {
	Create(ctx context.Context, ownerID uuid.UUID, name string, parentID *uuid.UUID) (*models.Folder, error)
	List(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID) ([]models.Folder, error)
	Rename(ctx context.Context, ownerID, id uuid.UUID, newName string) (*models.Folder, error)
	Move(ctx context.Context, ownerID, id uuid.UUID, newParentID *uuid.UUID) (*models.Folder, error)
	SoftDelete(ctx context.Context, ownerID, id uuid.UUID) (*models.Folder, error)
}

package repositories

import (
	"context"

	"github.com/AahilGazali/cloud-drive-backend/internal/models"
	"github.com/google/uuid"
)

type FileRepository interface {
	List(ctx context.Context, ownerID uuid.UUID, folderID *uuid.UUID) ([]models.File, error)
	Rename(ctx context.Context, ownerID, id uuid.UUID, newName string) (*models.File, error)
	Move(ctx context.Context, ownerID, id uuid.UUID, newFolderID *uuid.UUID) (*models.File, error)
	SoftDelete(ctx context.Context, ownerID, id uuid.UUID) (*models.File, error)
}

package repositories

import (
	"github.com/AahilGazali/cloud-drive-backend/internal/models"
	"github.com/google/uuid"
)

type UserRepository interface {
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	ExistsByEmail(email string) (bool, error)
	GetAll(limit, offset int) ([]models.User, int64, error)
}

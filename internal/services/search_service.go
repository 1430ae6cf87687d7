package services

import (
	"context"
	"log"
	"strings"

	"github.com/AahilGazali/cloud-drive-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SearchService struct {
	db *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

type SearchResults struct {
	Files   []models.File   `json:"files"`
	Folders []models.Folder `json:"folders"`
}

// Search runs a case-insensitive substring match over the caller's live
// files and folders. A failure in one branch degrades that branch to an
// empty set instead of failing the whole search.
func (s *SearchService) Search(ctx context.Context, ownerID uuid.UUID, term string) (*SearchResults, error) {
	results := &SearchResults{
		Files:   []models.File{},
		Folders: []models.Folder{},
	}

	term = strings.TrimSpace(term)
	if term == "" {
		return results, nil
	}
	pattern := "%" + escapeLike(term) + "%"

	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND is_deleted = ? AND LOWER(name) LIKE LOWER(?) ESCAPE '\\'", ownerID, false, pattern).
		Order("created_at DESC").
		Find(&results.Files).Error
	if err != nil {
		log.Printf("search: file query failed: %v", err)
		results.Files = []models.File{}
	}

	err = s.db.WithContext(ctx).
		Where("owner_id = ? AND is_deleted = ? AND LOWER(name) LIKE LOWER(?) ESCAPE '\\'", ownerID, false, pattern).
		Order("created_at DESC").
		Find(&results.Folders).Error
	if err != nil {
		log.Printf("search: folder query failed: %v", err)
		results.Folders = []models.Folder{}
	}

	return results, nil
}

// escapeLike neutralizes LIKE metacharacters so a literal "%" or "_" in the
// term matches itself.
func escapeLike(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, "%", `\%`)
	term = strings.ReplaceAll(term, "_", `\_`)
	return term
}

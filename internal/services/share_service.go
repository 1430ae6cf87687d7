package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/AahilGazali/cloud-drive-backend/internal/apperrors"
	"github.com/AahilGazali/cloud-drive-backend/internal/models"
	"github.com/AahilGazali/cloud-drive-backend/internal/repositories"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Mailer sends share notifications. Implementations must be safe for
// concurrent use; a nil Mailer disables email entirely.
type Mailer interface {
	SendShareNotification(recipient, senderName, itemName string, resourceType models.ResourceType, link string, role models.ShareRole) error
}

type ShareService struct {
	db       *gorm.DB
	users    repositories.UserRepository
	mailer   Mailer
	linkBase string
}

func NewShareService(db *gorm.DB, users repositories.UserRepository, mailer Mailer, linkBase string) *ShareService {
	return &ShareService{
		db:       db,
		users:    users,
		mailer:   mailer,
		linkBase: linkBase,
	}
}

// Grant upserts a share grant. Re-granting the same (resource, target)
// updates the role instead of inserting a second row.
func (s *ShareService) Grant(ctx context.Context, ownerID uuid.UUID, ref models.ResourceRef, targetUserID uuid.UUID, role models.ShareRole) (*models.Share, error) {
	if !role.IsValid() {
		return nil, apperrors.Validation("invalid share role %q", role)
	}
	if _, err := s.verifyOwnership(ctx, ownerID, ref); err != nil {
		return nil, err
	}

	share := &models.Share{
		ResourceType: ref.Type,
		ResourceID:   ref.ID,
		TargetUserID: targetUserID,
		Role:         role,
		CreatedBy:    ownerID,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "resource_type"}, {Name: "resource_id"}, {Name: "target_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role"}),
		}).
		Create(share).Error
	if err != nil {
		return nil, apperrors.Persistence("upsert share: %w", err)
	}

	// Re-read so the caller sees the surviving row on conflict updates.
	var saved models.Share
	err = s.db.WithContext(ctx).
		First(&saved, "resource_type = ? AND resource_id = ? AND target_user_id = ?",
			ref.Type, ref.ID, targetUserID).Error
	if err != nil {
		return nil, apperrors.Persistence("load share: %w", err)
	}
	return &saved, nil
}

func (s *ShareService) ListGrants(ctx context.Context, ownerID uuid.UUID, ref models.ResourceRef) ([]models.Share, error) {
	var shares []models.Share
	err := s.db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ? AND created_by = ?", ref.Type, ref.ID, ownerID).
		Find(&shares).Error
	if err != nil {
		return nil, apperrors.Persistence("list shares: %w", err)
	}
	return shares, nil
}

func (s *ShareService) Revoke(ctx context.Context, ownerID uuid.UUID, ref models.ResourceRef, targetUserID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ? AND target_user_id = ? AND created_by = ?",
			ref.Type, ref.ID, targetUserID, ownerID).
		Delete(&models.Share{})
	if res.Error != nil {
		return apperrors.Persistence("revoke share: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("share not found")
	}
	return nil
}

func (s *ShareService) CreateLink(ctx context.Context, ownerID uuid.UUID, ref models.ResourceRef, expiresAt *time.Time) (*models.PublicLink, error) {
	link := &models.PublicLink{
		Token:        models.GenerateSecureToken(48),
		ResourceType: ref.Type,
		ResourceID:   ref.ID,
		ExpiresAt:    expiresAt,
		CreatedBy:    ownerID,
	}
	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		return nil, apperrors.Persistence("create link: %w", err)
	}
	return link, nil
}

// ResolveLink returns the link for a token, or nil when the token is unknown
// or expired. A miss is a valid outcome, not an error.
func (s *ShareService) ResolveLink(ctx context.Context, token string) (*models.PublicLink, error) {
	var link models.PublicLink
	err := s.db.WithContext(ctx).
		Where("token = ? AND (expires_at IS NULL OR expires_at > ?)", token, time.Now().UTC()).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Persistence("resolve link: %w", err)
	}
	return &link, nil
}

// SideEffect records the outcome of one best-effort step of ShareByEmail.
type SideEffect struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// ShareByEmailResult carries the primary outcome (the link token) plus the
// outcome of each secondary effect, so callers and tests can assert on
// degradation instead of inferring it from logs.
type ShareByEmailResult struct {
	Token          string       `json:"token"`
	LinkURL        string       `json:"link_url"`
	RecipientEmail string       `json:"recipient_email"`
	TargetUserID   *uuid.UUID   `json:"target_user_id,omitempty"`
	SideEffects    []SideEffect `json:"side_effects"`
}

func (r *ShareByEmailResult) recordEffect(name string, err error) {
	effect := SideEffect{Name: name, OK: err == nil}
	if err != nil {
		effect.Error = err.Error()
	}
	r.SideEffects = append(r.SideEffects, effect)
}

// ShareByEmail shares a resource with an email address that may or may not
// belong to a registered user. The link token is the primary guarantee:
// ownership verification aborts the operation, but failures persisting the
// link, upserting the grant, or delivering the email are absorbed and
// reported as side-effect outcomes. A share action never fails outright just
// because one of its side channels is down.
func (s *ShareService) ShareByEmail(ctx context.Context, ownerID uuid.UUID, ref models.ResourceRef, recipientEmail string, role models.ShareRole) (*ShareByEmailResult, error) {
	if err := validation.Validate(recipientEmail, validation.Required, is.EmailFormat); err != nil {
		return nil, apperrors.Validation("invalid recipient email %q", recipientEmail)
	}
	if !role.IsValid() {
		role = models.ShareRoleViewer
	}

	result := &ShareByEmailResult{RecipientEmail: recipientEmail}

	// Best-effort recipient lookup; unregistered recipients still get a link.
	targetUser, err := s.users.GetByEmail(recipientEmail)
	if err != nil {
		log.Printf("share: could not look up user %s: %v", recipientEmail, err)
	}

	itemName, err := s.verifyOwnership(ctx, ownerID, ref)
	if err != nil {
		return nil, err
	}

	token, persistErr := s.findOrCreateLink(ctx, ownerID, ref)
	result.Token = token
	result.LinkURL = s.linkBase + "/" + token
	result.recordEffect("link_persist", persistErr)
	if persistErr != nil {
		log.Printf("share: link not persisted, returning unsaved token: %v", persistErr)
	}

	if targetUser != nil {
		id := targetUser.ID
		result.TargetUserID = &id
		_, grantErr := s.Grant(ctx, ownerID, ref, targetUser.ID, role)
		result.recordEffect("share_grant", grantErr)
		if grantErr != nil {
			log.Printf("share: grant for %s failed: %v", recipientEmail, grantErr)
		}
	}

	if s.mailer != nil {
		mailErr := s.mailer.SendShareNotification(
			recipientEmail, s.ownerName(ownerID), itemName, ref.Type, result.LinkURL, role)
		result.recordEffect("email", mailErr)
		if mailErr != nil {
			log.Printf("share: email to %s failed: %v", recipientEmail, mailErr)
		}
	}

	return result, nil
}

// findOrCreateLink reuses an existing non-expired link for the same
// (owner, resource) pair or mints a new one. When persistence fails the
// token is still returned; such a link will not resolve later, which is the
// accepted cost of not blocking the share.
func (s *ShareService) findOrCreateLink(ctx context.Context, ownerID uuid.UUID, ref models.ResourceRef) (string, error) {
	var existing models.PublicLink
	err := s.db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ? AND created_by = ? AND (expires_at IS NULL OR expires_at > ?)",
			ref.Type, ref.ID, ownerID, time.Now().UTC()).
		First(&existing).Error
	if err == nil {
		return existing.Token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.GenerateSecureToken(48), err
	}

	link := &models.PublicLink{
		Token:        models.GenerateSecureToken(48),
		ResourceType: ref.Type,
		ResourceID:   ref.ID,
		CreatedBy:    ownerID,
	}
	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		return link.Token, err
	}
	return link.Token, nil
}

// verifyOwnership resolves the resource table from the ref type, checks the
// row exists and belongs to ownerID, and returns the resource display name.
func (s *ShareService) verifyOwnership(ctx context.Context, ownerID uuid.UUID, ref models.ResourceRef) (string, error) {
	var (
		name     string
		resOwner uuid.UUID
	)
	switch ref.Type {
	case models.ResourceFile:
		var file models.File
		if err := s.db.WithContext(ctx).Select("owner_id", "name").First(&file, "id = ?", ref.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", apperrors.NotFound("resource not found")
			}
			return "", apperrors.Persistence("load resource: %w", err)
		}
		resOwner, name = file.OwnerID, file.Name
	case models.ResourceFolder:
		var folder models.Folder
		if err := s.db.WithContext(ctx).Select("owner_id", "name").First(&folder, "id = ?", ref.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", apperrors.NotFound("resource not found")
			}
			return "", apperrors.Persistence("load resource: %w", err)
		}
		resOwner, name = folder.OwnerID, folder.Name
	default:
		return "", apperrors.Validation("invalid resource type %q", ref.Type)
	}

	if resOwner != ownerID {
		return "", apperrors.Forbidden("you do not have permission to share this resource")
	}
	return name, nil
}

func (s *ShareService) ownerName(ownerID uuid.UUID) string {
	owner, err := s.users.GetByID(ownerID)
	if err != nil || owner == nil {
		return "Someone"
	}
	if owner.Name != "" {
		return owner.Name
	}
	return owner.Email
}

package controllers

import (
	"net/http"
	"time"

	"github.com/AahilGazali/cloud-drive-backend/internal/apperrors"
	"github.com/AahilGazali/cloud-drive-backend/internal/models"
	"github.com/AahilGazali/cloud-drive-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ShareController struct {
	shareService *services.ShareService
}

func NewShareController(shareService *services.ShareService) *ShareController {
	return &ShareController{shareService: shareService}
}

type grantRequest struct {
	ResourceType string `json:"resourceType" binding:"required"`
	ResourceID   string `json:"resourceId" binding:"required"`
	TargetUserID string `json:"targetUserId" binding:"required"`
	Role         string `json:"role" binding:"required"`
}

// Grant shares a resource with a registered user.
// POST /shares
func (sc *ShareController) Grant(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "resourceType, resourceId, targetUserId and role are required")
		return
	}

	ref, err := models.ParseResourceRef(req.ResourceType, req.ResourceID)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	targetID, err := uuid.Parse(req.TargetUserID)
	if err != nil {
		respondBadRequest(c, "invalid targetUserId")
		return
	}

	share, err := sc.shareService.Grant(c.Request.Context(), userID, ref, targetID, models.ShareRole(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{"share": share})
}

// ListGrants lists the grants the caller created on one resource.
// GET /shares?resourceType=&resourceId=
func (sc *ShareController) ListGrants(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ref, err := models.ParseResourceRef(c.Query("resourceType"), c.Query("resourceId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	shares, err := sc.shareService.ListGrants(c.Request.Context(), userID, ref)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"shares": shares})
}

type revokeRequest struct {
	ResourceType string `json:"resourceType" binding:"required"`
	ResourceID   string `json:"resourceId" binding:"required"`
	TargetUserID string `json:"targetUserId" binding:"required"`
}

// Revoke removes a grant the caller created.
// POST /shares/revoke
func (sc *ShareController) Revoke(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req revokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "resourceType, resourceId and targetUserId are required")
		return
	}

	ref, err := models.ParseResourceRef(req.ResourceType, req.ResourceID)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	targetID, err := uuid.Parse(req.TargetUserID)
	if err != nil {
		respondBadRequest(c, "invalid targetUserId")
		return
	}

	if err := sc.shareService.Revoke(c.Request.Context(), userID, ref, targetID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "share revoked")
}

type createLinkRequest struct {
	ResourceType string `json:"resourceType" binding:"required"`
	ResourceID   string `json:"resourceId" binding:"required"`
	ExpiresIn    *int   `json:"expiresInHours"`
}

// CreateLink mints a public token for a resource.
// POST /shares/link
func (sc *ShareController) CreateLink(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req createLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "resourceType and resourceId are required")
		return
	}

	ref, err := models.ParseResourceRef(req.ResourceType, req.ResourceID)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	expiresAt := expiryFromHours(req.ExpiresIn)
	link, err := sc.shareService.CreateLink(c.Request.Context(), userID, ref, expiresAt)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{"link": link})
}

// ResolveLink resolves a public token. Unknown and expired tokens both come
// back 404; this route is unauthenticated.
// GET /shares/link/:token
func (sc *ShareController) ResolveLink(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		respondBadRequest(c, "token is required")
		return
	}

	link, err := sc.shareService.ResolveLink(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	if link == nil {
		respondError(c, apperrors.NotFound("link not found or expired"))
		return
	}
	respondData(c, http.StatusOK, gin.H{"link": link})
}

type shareByEmailRequest struct {
	ResourceType    string   `json:"resourceType" binding:"required"`
	ResourceID      string   `json:"resourceId" binding:"required"`
	RecipientEmails []string `json:"recipientEmails" binding:"required"`
	Role            string   `json:"role"`
}

// ShareByEmail shares a resource with one or more email addresses. Each
// recipient is processed independently; when only some succeed the response
// is 207 with per-recipient outcomes.
// POST /shares/email
func (sc *ShareController) ShareByEmail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req shareByEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "resourceType, resourceId and recipientEmails are required")
		return
	}
	if len(req.RecipientEmails) == 0 {
		respondBadRequest(c, "at least one recipient email is required")
		return
	}

	ref, err := models.ParseResourceRef(req.ResourceType, req.ResourceID)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	role := models.ShareRole(req.Role)
	if req.Role == "" {
		role = models.ShareRoleViewer
	}

	type recipientOutcome struct {
		Email  string                       `json:"email"`
		OK     bool                         `json:"ok"`
		Error  string                       `json:"error,omitempty"`
		Result *services.ShareByEmailResult `json:"result,omitempty"`
	}

	outcomes := make([]recipientOutcome, 0, len(req.RecipientEmails))
	var firstErr error
	failures := 0
	for _, email := range req.RecipientEmails {
		result, err := sc.shareService.ShareByEmail(c.Request.Context(), userID, ref, email, role)
		if err != nil {
			failures++
			if firstErr == nil {
				firstErr = err
			}
			outcomes = append(outcomes, recipientOutcome{Email: email, Error: err.Error()})
			continue
		}
		outcomes = append(outcomes, recipientOutcome{Email: email, OK: true, Result: result})
	}

	// A lone failing recipient keeps its real status; mixed outcomes are 207.
	if failures == 1 && len(outcomes) == 1 {
		respondError(c, firstErr)
		return
	}
	status := http.StatusCreated
	if failures > 0 {
		status = http.StatusMultiStatus
	}
	respondData(c, status, gin.H{"recipients": outcomes})
}

func expiryFromHours(hours *int) *time.Time {
	if hours == nil || *hours <= 0 {
		return nil
	}
	t := time.Now().UTC().Add(time.Duration(*hours) * time.Hour)
	return &t
}

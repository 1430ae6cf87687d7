package controllers

import (
	"net/http"

	"github.com/AahilGazali/cloud-drive-backend/internal/models"
	"github.com/AahilGazali/cloud-drive-backend/internal/services"
	"github.com/gin-gonic/gin"
)

type TrashController struct {
	trashService *services.TrashService
}

func NewTrashController(trashService *services.TrashService) *TrashController {
	return &TrashController{trashService: trashService}
}

// ListTrash returns the caller's trashed files and folders.
// GET /trash
func (tc *TrashController) ListTrash(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	contents, err := tc.trashService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, contents)
}

type restoreRequest struct {
	Type string `json:"type" binding:"required"`
	ID   string `json:"id" binding:"required"`
}

// Restore brings a trashed item back.
// POST /trash/restore
func (tc *TrashController) Restore(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req restoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "type and id are required")
		return
	}

	ref, err := models.ParseResourceRef(req.Type, req.ID)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := tc.trashService.Restore(c.Request.Context(), userID, ref); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "restored")
}

type purgeRequest struct {
	Type string `json:"type" binding:"required"`
}

// Purge permanently deletes a trashed item.
// DELETE /trash/:id
func (tc *TrashController) Purge(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req purgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "type is required")
		return
	}

	ref, err := models.ParseResourceRef(req.Type, c.Param("id"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := tc.trashService.Purge(c.Request.Context(), userID, ref); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "permanently deleted")
}

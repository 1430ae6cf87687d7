package controllers

import (
	"net/http"

	"github.com/AahilGazali/cloud-drive-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FolderController struct {
	folderService *services.FolderService
}

func NewFolderController(folderService *services.FolderService) *FolderController {
	return &FolderController{folderService: folderService}
}

type createFolderRequest struct {
	Name     string  `json:"name" binding:"required"`
	ParentID *string `json:"parentId"`
}

// CreateFolder creates a folder at the root or under a parent.
// POST /folders
func (fc *FolderController) CreateFolder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	parentID, ok := parseOptionalID(c, req.ParentID)
	if !ok {
		return
	}

	folder, err := fc.folderService.Create(c.Request.Context(), userID, req.Name, parentID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{"folder": folder})
}

// ListFolders lists the caller's live folders under a parent. Without a
// parentId query parameter it lists the root level.
// GET /folders?parentId=<uuid>
func (fc *FolderController) ListFolders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	parentID, ok := parseOptionalIDParam(c, c.Query("parentId"))
	if !ok {
		return
	}

	folders, err := fc.folderService.List(c.Request.Context(), userID, parentID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"folders": folders})
}

type renameRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameFolder renames a folder in place.
// PATCH /folders/:id/rename
func (fc *FolderController) RenameFolder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	folderID, ok := parsePathID(c, "id")
	if !ok {
		return
	}

	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	folder, err := fc.folderService.Rename(c.Request.Context(), userID, folderID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"folder": folder})
}

type moveRequest struct {
	ParentID *string `json:"parentId"`
}

// MoveFolder reparents a folder. A null parentId moves it to the root.
// PATCH /folders/:id/move
func (fc *FolderController) MoveFolder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	folderID, ok := parsePathID(c, "id")
	if !ok {
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	parentID, ok := parseOptionalID(c, req.ParentID)
	if !ok {
		return
	}

	folder, err := fc.folderService.Move(c.Request.Context(), userID, folderID, parentID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"folder": folder})
}

// DeleteFolder moves a folder to the trash.
// DELETE /folders/:id
func (fc *FolderController) DeleteFolder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	folderID, ok := parsePathID(c, "id")
	if !ok {
		return
	}

	folder, err := fc.folderService.SoftDelete(c.Request.Context(), userID, folderID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"folder": folder})
}

// parsePathID reads and validates a uuid path parameter, responding 400 on
// malformed input.
func parsePathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func parseOptionalID(c *gin.Context, raw *string) (*uuid.UUID, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		respondBadRequest(c, "invalid id "+*raw)
		return nil, false
	}
	return &id, true
}

func parseOptionalIDParam(c *gin.Context, raw string) (*uuid.UUID, bool) {
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondBadRequest(c, "invalid id "+raw)
		return nil, false
	}
	return &id, true
}

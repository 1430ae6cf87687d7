package controllers

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/AahilGazali/cloud-drive-backend/internal/services"
	"github.com/gin-gonic/gin"
)

type FileController struct {
	fileService *services.FileService
}

func NewFileController(fileService *services.FileService) *FileController {
	return &FileController{fileService: fileService}
}

// UploadFile stores a new file from a multipart form. The optional folderId
// form field places it inside a folder; without it the file lands at the
// root.
// POST /files
func (fc *FileController) UploadFile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "file field is required")
		return
	}

	folderID, ok := parseOptionalIDParam(c, c.PostForm("folderId"))
	if !ok {
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondBadRequest(c, "cannot open uploaded file")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = detectContentType(filepath.Ext(fileHeader.Filename))
	}

	stored, err := fc.fileService.Upload(c.Request.Context(), &services.UploadInput{
		OwnerID:     userID,
		FolderID:    folderID,
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		Size:        fileHeader.Size,
		Reader:      file,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{"file": stored})
}

// ListFiles lists the caller's live files in a folder, or at the root when
// no folderId is given.
// GET /files?folderId=<uuid>
func (fc *FileController) ListFiles(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	folderID, ok := parseOptionalIDParam(c, c.Query("folderId"))
	if !ok {
		return
	}

	files, err := fc.fileService.List(c.Request.Context(), userID, folderID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"files": files})
}

// RenameFile updates a file's display name. The stored blob keeps its path.
// PATCH /files/:id/rename
func (fc *FileController) RenameFile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileID, ok := parsePathID(c, "id")
	if !ok {
		return
	}

	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	file, err := fc.fileService.Rename(c.Request.Context(), userID, fileID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"file": file})
}

type moveFileRequest struct {
	FolderID *string `json:"folderId"`
}

// MoveFile relocates a file to another folder, or to the root on null.
// PATCH /files/:id/move
func (fc *FileController) MoveFile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileID, ok := parsePathID(c, "id")
	if !ok {
		return
	}

	var req moveFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	folderID, ok := parseOptionalID(c, req.FolderID)
	if !ok {
		return
	}

	file, err := fc.fileService.Move(c.Request.Context(), userID, fileID, folderID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"file": file})
}

// DeleteFile moves a file to the trash. The blob stays in storage until the
// file is purged.
// DELETE /files/:id
func (fc *FileController) DeleteFile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileID, ok := parsePathID(c, "id")
	if !ok {
		return
	}

	file, err := fc.fileService.SoftDelete(c.Request.Context(), userID, fileID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"file": file})
}

// GetDownloadURL returns a short-lived signed URL for the file's content.
// GET /files/:id/signed-url
func (fc *FileController) GetDownloadURL(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileID, ok := parsePathID(c, "id")
	if !ok {
		return
	}

	result, err := fc.fileService.GetSignedURL(c.Request.Context(), userID, fileID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"url":  result.URL,
		"file": result.File,
	})
}

type copyFileRequest struct {
	FolderID *string `json:"folderId"`
}

// CopyFile duplicates a file's content into a new blob and row. The copy
// lands in the target folder, or next to the original when none is given.
// POST /files/:id/copy
func (fc *FileController) CopyFile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileID, ok := parsePathID(c, "id")
	if !ok {
		return
	}

	var req copyFileRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request body")
			return
		}
	}

	folderID, ok := parseOptionalID(c, req.FolderID)
	if !ok {
		return
	}

	file, err := fc.fileService.Copy(c.Request.Context(), userID, fileID, folderID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{"file": file})
}

// detectContentType maps a file extension to a MIME type, preferring an
// explicit table over mime.TypeByExtension for consistency across hosts.
func detectContentType(ext string) string {
	mimeTypes := map[string]string{
		".doc":  "application/msword",
		".xls":  "application/vnd.ms-excel",
		".ppt":  "application/vnd.ms-powerpoint",
		".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
		".pdf":  "application/pdf",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".gif":  "image/gif",
		".webp": "image/webp",
		".svg":  "image/svg+xml",
		".txt":  "text/plain",
		".csv":  "text/csv",
		".html": "text/html",
		".json": "application/json",
		".xml":  "application/xml",
		".zip":  "application/zip",
		".tar":  "application/x-tar",
		".gz":   "application/gzip",
		".mp3":  "audio/mpeg",
		".wav":  "audio/wav",
		".mp4":  "video/mp4",
		".mov":  "video/quicktime",
		".webm": "video/webm",
	}

	if mimeType, ok := mimeTypes[ext]; ok {
		return mimeType
	}
	if detected := mime.TypeByExtension(ext); detected != "" {
		return detected
	}
	return "application/octet-stream"
}

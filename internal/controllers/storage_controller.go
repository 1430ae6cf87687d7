package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/AahilGazali/cloud-drive-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

// StorageController serves blob content for the local storage backend. Cloud
// backends hand out provider-signed URLs instead, so this controller is only
// mounted when local storage is active.
type StorageController struct {
	local *storage.LocalStorage
}

func NewStorageController(local *storage.LocalStorage) *StorageController {
	return &StorageController{local: local}
}

// Serve verifies the signature and expiry on a locally signed URL and
// streams the blob.
// GET /storage/*path?exp=&sig=
func (sc *StorageController) Serve(c *gin.Context) {
	relPath := c.Param("path")
	if len(relPath) > 0 && relPath[0] == '/' {
		relPath = relPath[1:]
	}

	if err := sc.local.VerifySignedPath(relPath, c.Query("exp"), c.Query("sig")); err != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "invalid or expired signature",
		})
		return
	}

	result, err := sc.local.Download(c.Request.Context(), &storage.Location{Path: relPath})
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "blob not found"})
			return
		}
		respondError(c, err)
		return
	}
	defer result.Reader.Close()

	c.Header("Content-Type", result.ContentType)
	c.Header("Content-Length", fmt.Sprintf("%d", result.Size))
	c.Status(http.StatusOK)
	io.Copy(c.Writer, result.Reader)
}

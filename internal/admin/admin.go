// Package admin mounts the operator-facing endpoints: user listing, storage
// accounting and the trash retention sweep triggered by an external cron.
package admin

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AahilGazali/cloud-drive-backend/internal/config"
	"github.com/AahilGazali/cloud-drive-backend/internal/models"
	"github.com/AahilGazali/cloud-drive-backend/internal/storage"
)

type ownerUsage struct {
	OwnerID   string `json:"ownerId"`
	FileCount int64  `json:"fileCount"`
	TotalSize int64  `json:"totalSize"`
}

// Setup registers the admin routes. The user and stats endpoints require an
// admin token; cleanup authenticates with the shared cron secret instead so
// schedulers don't need a user account.
func Setup(router *gin.Engine, db *gorm.DB, store storage.Storage, cfg *config.Config, authMiddleware, adminOnly gin.HandlerFunc) {
	group := router.Group("/api/admin")

	protected := group.Group("")
	protected.Use(authMiddleware, adminOnly)
	{
		protected.GET("/users", listUsers(db))
		protected.GET("/stats", storageStats(db))
	}

	group.POST("/cleanup", cleanupTrash(db, store, cfg))
}

func listUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := intQuery(c, "limit", 50)
		offset := intQuery(c, "offset", 0)

		var users []models.User
		var total int64
		if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "user query failed"})
			return
		}
		if err := db.Order("created_at ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "user query failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"users": users,
				"total": total,
			},
		})
	}
}

func storageStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var usage []ownerUsage
		err := db.Model(&models.File{}).
			Select("owner_id, COUNT(*) AS file_count, COALESCE(SUM(size), 0) AS total_size").
			Where("is_deleted = ?", false).
			Group("owner_id").
			Scan(&usage).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "stats query failed"})
			return
		}
		if usage == nil {
			usage = []ownerUsage{}
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"usage": usage},
		})
	}
}

// cleanupTrash hard-deletes rows that have sat in the trash longer than the
// configured retention. File blobs are deleted best-effort; a missing or
// unreachable blob never blocks the row removal.
func cleanupTrash(db *gorm.DB, store storage.Storage, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := c.GetHeader("X-Cron-Secret")
		if secret == "" || secret != cfg.Trash.CleanupSecret {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "invalid or missing X-Cron-Secret"})
			return
		}

		cutoff := time.Now().UTC().AddDate(0, 0, -cfg.Trash.RetentionDays)

		var expiredFiles []models.File
		if err := db.Where("is_deleted = ? AND deleted_at < ?", true, cutoff).Find(&expiredFiles).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "file query failed"})
			return
		}

		filesDeleted := 0
		for _, file := range expiredFiles {
			if err := store.Delete(c.Request.Context(), &storage.Location{Path: file.Path}); err != nil {
				log.Printf("admin: blob delete for %s failed, removing row anyway: %v", file.Path, err)
			}
			if err := db.Delete(&file).Error; err != nil {
				log.Printf("admin: row delete for file %s failed: %v", file.ID, err)
				continue
			}
			filesDeleted++
		}

		foldersRes := db.Where("is_deleted = ? AND deleted_at < ?", true, cutoff).Delete(&models.Folder{})
		if foldersRes.Error != nil {
			log.Printf("admin: folder cleanup failed: %v", foldersRes.Error)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"filesFound":     len(expiredFiles),
				"filesDeleted":   filesDeleted,
				"foldersDeleted": foldersRes.RowsAffected,
			},
		})
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

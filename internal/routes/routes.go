package routes

import (
	"github.com/AahilGazali/cloud-drive-backend/internal/controllers"
	"github.com/gin-gonic/gin"
)

// Controllers bundles everything SetupRoutes mounts.
type Controllers struct {
	Auth    *controllers.AuthController
	Folder  *controllers.FolderController
	File    *controllers.FileController
	Share   *controllers.ShareController
	Trash   *controllers.TrashController
	Search  *controllers.SearchController
	Storage *controllers.StorageController
}

// SetupRoutes registers all application routes under /api.
func SetupRoutes(router *gin.Engine, ctrl Controllers, authMiddleware gin.HandlerFunc) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	RegisterAuthRoutes(api.Group("/auth"), ctrl.Auth, authMiddleware)
	RegisterFolderRoutes(api.Group("/folders"), ctrl.Folder, authMiddleware)
	RegisterFileRoutes(api.Group("/files"), ctrl.File, authMiddleware)
	RegisterShareRoutes(api.Group("/shares"), ctrl.Share, authMiddleware)
	RegisterTrashRoutes(api.Group("/trash"), ctrl.Trash, authMiddleware)

	search := api.Group("/search")
	search.Use(authMiddleware)
	{
		search.GET("", ctrl.Search.Search)
	}

	// Blob serving for locally signed URLs; absent on cloud storage.
	if ctrl.Storage != nil {
		router.GET("/storage/*path", ctrl.Storage.Serve)
	}
}

package routes

import (
	"github.com/AahilGazali/cloud-drive-backend/internal/controllers"
	"github.com/gin-gonic/gin"
)

// RegisterFolderRoutes registers all folder-related routes.
func RegisterFolderRoutes(router *gin.RouterGroup, folderController *controllers.FolderController, authMiddleware gin.HandlerFunc) {
	router.Use(authMiddleware)
	{
		router.POST("", folderController.CreateFolder)
		router.GET("", folderController.ListFolders)
		router.PATCH("/:id/rename", folderController.RenameFolder)
		router.PATCH("/:id/move", folderController.MoveFolder)
		router.DELETE("/:id", folderController.DeleteFolder)
	}
}

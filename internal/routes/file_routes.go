package routes

import (
	"github.com/AahilGazali/cloud-drive-backend/internal/controllers"
	"github.com/gin-gonic/gin"
)

// RegisterFileRoutes registers all file-related routes.
func RegisterFileRoutes(router *gin.RouterGroup, fileController *controllers.FileController, authMiddleware gin.HandlerFunc) {
	router.Use(authMiddleware)
	{
		router.POST("", fileController.UploadFile)
		router.GET("", fileController.ListFiles)
		router.GET("/:id/signed-url", fileController.GetDownloadURL)
		router.PATCH("/:id/rename", fileController.RenameFile)
		router.PATCH("/:id/move", fileController.MoveFile)
		router.POST("/:id/copy", fileController.CopyFile)
		router.DELETE("/:id", fileController.DeleteFile)
	}
}

package routes

import (
	"github.com/AahilGazali/cloud-drive-backend/internal/controllers"
	"github.com/gin-gonic/gin"
)

// RegisterTrashRoutes registers trash lifecycle routes.
func RegisterTrashRoutes(router *gin.RouterGroup, trashController *controllers.TrashController, authMiddleware gin.HandlerFunc) {
	router.Use(authMiddleware)
	{
		router.GET("", trashController.ListTrash)
		router.POST("/restore", trashController.Restore)
		router.DELETE("/:id", trashController.Purge)
	}
}

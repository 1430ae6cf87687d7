package routes

import (
	"github.com/AahilGazali/cloud-drive-backend/internal/controllers"
	"github.com/gin-gonic/gin"
)

// RegisterShareRoutes registers sharing routes. Link resolution is public;
// everything else requires auth.
func RegisterShareRoutes(router *gin.RouterGroup, shareController *controllers.ShareController, authMiddleware gin.HandlerFunc) {
	router.GET("/link/:token", shareController.ResolveLink)

	protected := router.Group("")
	protected.Use(authMiddleware)
	{
		protected.POST("", shareController.Grant)
		protected.GET("", shareController.ListGrants)
		protected.POST("/revoke", shareController.Revoke)
		protected.POST("/email", shareController.ShareByEmail)
		protected.POST("/link", shareController.CreateLink)
	}
}

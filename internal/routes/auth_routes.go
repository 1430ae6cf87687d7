package routes

import (
	"github.com/AahilGazali/cloud-drive-backend/internal/controllers"
	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(router *gin.RouterGroup, authController *controllers.AuthController, authMiddleware gin.HandlerFunc) {
	// Public auth endpoints
	router.POST("/signup", authController.Register)
	router.POST("/login", authController.Login)
	router.POST("/login/totp", authController.LoginTOTP)

	// Protected auth endpoints (require valid JWT)
	protected := router.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authController.Profile)
		protected.POST("/signout", authController.Logout)
		protected.POST("/totp/setup", authController.SetupTOTP)
		protected.POST("/totp/verify", authController.VerifyTOTP)
		protected.POST("/totp/disable", authController.DisableTOTP)
		protected.POST("/password/change", authController.ChangePassword)
	}
}

package controllers

import (
	"errors"
	"net/http"

	"github.com/AahilGazali/cloud-drive-backend/internal/models"
	"github.com/AahilGazali/cloud-drive-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthController struct {
	authService *services.AuthService
}

func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new account.
// POST /auth/signup
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name, email and password are required")
		return
	}

	user, err := ac.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "email is already registered"})
			return
		}
		respondError(c, err)
		return
	}

	token, err := ac.authService.GenerateAccessToken(user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"user":  userView(user),
		"token": token,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates with email and password. Accounts with TOTP enabled
// get a short-lived login session id instead of a token; the client must
// complete the second step via POST /auth/login/totp.
// POST /auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email and password are required")
		return
	}

	user, totpRequired, err := ac.authService.Login(req.Email, req.Password)
	if err != nil {
		ac.respondAuthError(c, err)
		return
	}

	if totpRequired {
		sessionID, err := ac.authService.CreateLoginSession(user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{
			"totpRequired": true,
			"sessionId":    sessionID,
		})
		return
	}

	token, err := ac.authService.GenerateAccessToken(user)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"user":  userView(user),
		"token": token,
	})
}

type totpLoginRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	Code      string `json:"code" binding:"required"`
}

// LoginTOTP completes a two-step login.
// POST /auth/login/totp
func (ac *AuthController) LoginTOTP(c *gin.Context) {
	var req totpLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "sessionId and code are required")
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		respondBadRequest(c, "invalid session id")
		return
	}

	user, err := ac.authService.LoginWithTOTPSession(sessionID, req.Code)
	if err != nil {
		ac.respondAuthError(c, err)
		return
	}

	token, err := ac.authService.GenerateAccessToken(user)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"user":  userView(user),
		"token": token,
	})
}

// Logout is stateless; the client discards its token.
// POST /auth/signout
func (ac *AuthController) Logout(c *gin.Context) {
	respondMessage(c, http.StatusOK, "logged out")
}

// Profile returns the authenticated user.
// GET /auth/me
func (ac *AuthController) Profile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := ac.authService.GetProfile(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"user": userView(user)})
}

// SetupTOTP generates a TOTP secret and QR code for the caller.
// POST /auth/totp/setup
func (ac *AuthController) SetupTOTP(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	setup, err := ac.authService.SetupTOTP(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"secret": setup.Secret,
		"qrCode": setup.QRCode,
	})
}

type totpCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// VerifyTOTP confirms the pending secret and enables TOTP.
// POST /auth/totp/verify
func (ac *AuthController) VerifyTOTP(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req totpCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "code is required")
		return
	}

	if err := ac.authService.VerifyTOTP(userID, req.Code); err != nil {
		ac.respondAuthError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "totp enabled")
}

// DisableTOTP turns off the second factor after a valid code.
// POST /auth/totp/disable
func (ac *AuthController) DisableTOTP(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req totpCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "code is required")
		return
	}

	if err := ac.authService.DisableTOTP(userID, req.Code); err != nil {
		ac.respondAuthError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "totp disabled")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	TOTPCode    string `json:"totpCode"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ChangePassword rotates the password after re-authentication with either
// the old password or a TOTP code.
// POST /auth/password
func (ac *AuthController) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "newPassword is required")
		return
	}

	if err := ac.authService.ChangePassword(userID, req.OldPassword, req.TOTPCode, req.NewPassword); err != nil {
		ac.respondAuthError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "password changed")
}

func (ac *AuthController) respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidTOTPCode),
		errors.Is(err, services.ErrLoginSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, services.ErrTOTPNotEnabled),
		errors.Is(err, services.ErrTOTPSecretNotCreated):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	default:
		respondError(c, err)
	}
}

func userView(user *models.User) gin.H {
	return gin.H{
		"id":          user.ID,
		"name":        user.Name,
		"email":       user.Email,
		"role":        user.Role,
		"totpEnabled": user.TOTPEnabled != nil && *user.TOTPEnabled,
	}
}
